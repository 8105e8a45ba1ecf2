package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/realty-backend/internal/models"
)

// ErrMessageNotFound возвращается, когда сообщение не найдено.
var ErrMessageNotFound = errors.New("message not found")

// MessageRepository отвечает за прямые сообщения между пользователями.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository создаёт экземпляр репозитория.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create сохраняет новое сообщение.
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (sender_id, recipient_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		message.SenderID, message.RecipientID, message.Body,
	).Scan(&message.ID, &message.CreatedAt); err != nil {
		return fmt.Errorf("message repository: create %w", err)
	}

	return nil
}

// GetByID возвращает сообщение по идентификатору.
func (r *MessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var message models.Message
	if err := r.db.GetContext(ctx, &message, `SELECT * FROM messages WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("message repository: get by id %w", err)
	}
	return &message, nil
}

// ListConversation возвращает переписку двух пользователей, старые первыми.
func (r *MessageRepository) ListConversation(ctx context.Context, userA, userB uuid.UUID, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	query := `
		SELECT * FROM messages
		WHERE (sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)
		ORDER BY created_at
		LIMIT $3 OFFSET $4
	`
	if err := r.db.SelectContext(ctx, &messages, query, userA, userB, limit, offset); err != nil {
		return nil, fmt.Errorf("message repository: list conversation %w", err)
	}
	return messages, nil
}

// MarkRead отмечает все входящие сообщения от собеседника прочитанными.
func (r *MessageRepository) MarkRead(ctx context.Context, recipientID, senderID uuid.UUID) error {
	if _, err := r.db.ExecContext(
		ctx,
		`UPDATE messages SET read_at = NOW() WHERE recipient_id = $1 AND sender_id = $2 AND read_at IS NULL`,
		recipientID, senderID,
	); err != nil {
		return fmt.Errorf("message repository: mark read %w", err)
	}
	return nil
}

// CountUnread возвращает количество непрочитанных входящих сообщений.
func (r *MessageRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM messages WHERE recipient_id = $1 AND read_at IS NULL`
	if err := r.db.GetContext(ctx, &count, query, recipientID); err != nil {
		return 0, fmt.Errorf("message repository: count unread %w", err)
	}
	return count, nil
}
