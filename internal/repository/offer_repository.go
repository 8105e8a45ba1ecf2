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

// Ошибки уровня репозитория.
var (
	ErrOfferNotFound = errors.New("offer not found")
	ErrStaleOffer    = errors.New("offer status changed concurrently")
)

// OfferRepository отвечает за работу с офферами.
type OfferRepository struct {
	db *sqlx.DB
}

// NewOfferRepository создаёт новый экземпляр.
func NewOfferRepository(db *sqlx.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// Create сохраняет новый оффер.
func (r *OfferRepository) Create(ctx context.Context, offer *models.Offer) error {
	query := `
		INSERT INTO offers (sender_id, recipient_id, title, description, amount_cents, delivery_days, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		offer.SenderID, offer.RecipientID, offer.Title, offer.Description,
		offer.AmountCents, offer.DeliveryDays, offer.Status,
	).Scan(&offer.ID, &offer.CreatedAt, &offer.UpdatedAt); err != nil {
		return fmt.Errorf("offer repository: create %w", err)
	}

	return nil
}

// GetByID возвращает оффер по идентификатору.
func (r *OfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	query := `
		SELECT id, sender_id, recipient_id, title, description, amount_cents, delivery_days,
		       status, payment_intent_id, accepted_at, completion_requested_at, created_at, updated_at
		FROM offers
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &offer, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("offer repository: get by id %w", err)
	}

	return &offer, nil
}

// UpdateStatus переводит оффер из ожидаемого статуса в новый ровно одним UPDATE.
// Проверка исходного статуса в WHERE закрывает гонку двух конкурентных переходов:
// проигравший получает ErrStaleOffer и должен перечитать состояние.
func (r *OfferRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OfferStatus) error {
	query := `
		UPDATE offers
		SET status = $1,
		    accepted_at = CASE WHEN $1 = 'accepted' AND status = 'pending' THEN NOW() ELSE accepted_at END,
		    completion_requested_at = CASE
		        WHEN $1 = 'completion_requested' THEN NOW()
		        WHEN $1 = 'accepted' AND status = 'completion_requested' THEN NULL
		        ELSE completion_requested_at
		    END,
		    updated_at = NOW()
		WHERE id = $2 AND status = $3
	`

	result, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return fmt.Errorf("offer repository: update status %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("offer repository: rows affected %w", err)
	}
	if affected == 0 {
		return ErrStaleOffer
	}

	return nil
}

// SetPaymentIntent сохраняет идентификатор платёжного интента оффера.
func (r *OfferRepository) SetPaymentIntent(ctx context.Context, id uuid.UUID, intentID string) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE offers SET payment_intent_id = $1, updated_at = NOW() WHERE id = $2 AND status = 'pending'`,
		intentID, id,
	)
	if err != nil {
		return fmt.Errorf("offer repository: set payment intent %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("offer repository: rows affected %w", err)
	}
	if affected == 0 {
		return ErrStaleOffer
	}

	return nil
}

const offerListQuery = `
	SELECT o.id, o.sender_id, o.recipient_id, o.title, o.description, o.amount_cents,
	       o.delivery_days, o.status, o.payment_intent_id, o.accepted_at,
	       o.completion_requested_at, o.created_at, o.updated_at,
	       ps.display_name AS sender_name,
	       pr.display_name AS recipient_name
	FROM offers o
	JOIN profiles ps ON ps.user_id = o.sender_id
	JOIN profiles pr ON pr.user_id = o.recipient_id
`

// ListSent возвращает офферы, отправленные пользователем.
func (r *OfferRepository) ListSent(ctx context.Context, senderID uuid.UUID) ([]models.OfferListItem, error) {
	var items []models.OfferListItem
	query := offerListQuery + ` WHERE o.sender_id = $1 ORDER BY o.created_at DESC`
	if err := r.db.SelectContext(ctx, &items, query, senderID); err != nil {
		return nil, fmt.Errorf("offer repository: list sent %w", err)
	}
	return items, nil
}

// ListReceived возвращает офферы, полученные пользователем.
func (r *OfferRepository) ListReceived(ctx context.Context, recipientID uuid.UUID) ([]models.OfferListItem, error) {
	var items []models.OfferListItem
	query := offerListQuery + ` WHERE o.recipient_id = $1 ORDER BY o.created_at DESC`
	if err := r.db.SelectContext(ctx, &items, query, recipientID); err != nil {
		return nil, fmt.Errorf("offer repository: list received %w", err)
	}
	return items, nil
}

// SumCompletedForSender возвращает сумму завершённых офферов специалиста в копейках.
func (r *OfferRepository) SumCompletedForSender(ctx context.Context, senderID uuid.UUID) (int64, error) {
	var total int64
	query := `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM offers
		WHERE sender_id = $1 AND status = $2
	`
	if err := r.db.GetContext(ctx, &total, query, senderID, models.OfferStatusCompleted); err != nil {
		return 0, fmt.Errorf("offer repository: sum completed %w", err)
	}
	return total, nil
}
