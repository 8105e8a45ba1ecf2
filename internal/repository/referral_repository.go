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
	ErrReferralNotFound = errors.New("referral not found")
	ErrLeadNotFound     = errors.New("lead not found")
	ErrStaleReferral    = errors.New("referral status changed concurrently")
)

// ReferralRepository отвечает за работу с рекомендациями и лидами.
type ReferralRepository struct {
	db *sqlx.DB
}

// NewReferralRepository создаёт новый экземпляр.
func NewReferralRepository(db *sqlx.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// Create сохраняет новую рекомендацию.
func (r *ReferralRepository) Create(ctx context.Context, referral *models.Referral) error {
	query := `
		INSERT INTO referrals (referrer_id, recipient_id, client_id, lead_id, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		referral.ReferrerID, referral.RecipientID, referral.ClientID,
		referral.LeadID, referral.Notes, referral.Status,
	).Scan(&referral.ID, &referral.CreatedAt, &referral.UpdatedAt); err != nil {
		return fmt.Errorf("referral repository: create %w", err)
	}

	return nil
}

// GetByID возвращает рекомендацию по идентификатору.
func (r *ReferralRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Referral, error) {
	var referral models.Referral
	query := `
		SELECT id, referrer_id, recipient_id, client_id, lead_id, notes, status, created_at, updated_at
		FROM referrals
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &referral, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReferralNotFound
		}
		return nil, fmt.Errorf("referral repository: get by id %w", err)
	}

	return &referral, nil
}

// GetByIDForUpdate возвращает рекомендацию внутри транзакции с блокировкой строки.
// Используется конверсией, чтобы два сотрудничества не сконвертировали одну
// рекомендацию одновременно.
func (r *ReferralRepository) GetByIDForUpdate(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) (*models.Referral, error) {
	var referral models.Referral
	query := `
		SELECT id, referrer_id, recipient_id, client_id, lead_id, notes, status, created_at, updated_at
		FROM referrals
		WHERE id = $1
		FOR UPDATE
	`
	if err := tx.GetContext(ctx, &referral, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReferralNotFound
		}
		return nil, fmt.Errorf("referral repository: get for update %w", err)
	}

	return &referral, nil
}

// UpdateStatus переводит рекомендацию из ожидаемого статуса в новый.
// Возвращает ErrStaleReferral, если строка уже не в ожидаемом статусе.
func (r *ReferralRepository) UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE referrals SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		toStatus, id, fromStatus,
	)
	if err != nil {
		return fmt.Errorf("referral repository: update status %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("referral repository: rows affected %w", err)
	}
	if affected == 0 {
		return ErrStaleReferral
	}

	return nil
}

// UpdateStatusTx — то же, что UpdateStatus, но внутри транзакции.
func (r *ReferralRepository) UpdateStatusTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, fromStatus, toStatus string) error {
	result, err := tx.ExecContext(
		ctx,
		`UPDATE referrals SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		toStatus, id, fromStatus,
	)
	if err != nil {
		return fmt.Errorf("referral repository: update status %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("referral repository: rows affected %w", err)
	}
	if affected == 0 {
		return ErrStaleReferral
	}

	return nil
}

// listQuery общий SELECT списков с присоединёнными именами сторон и клиента.
// Рекомендация может ссылаться либо на профиль клиента, либо на лид, поэтому
// обе ветки присоединяются через LEFT JOIN.
const listQuery = `
	SELECT r.id, r.referrer_id, r.recipient_id, r.client_id, r.lead_id, r.notes, r.status,
	       r.created_at, r.updated_at,
	       pref.display_name AS referrer_name,
	       prec.display_name AS recipient_name,
	       pcli.display_name AS client_name,
	       ucli.email AS client_email,
	       l.name AS lead_name,
	       l.email AS lead_email
	FROM referrals r
	JOIN profiles pref ON pref.user_id = r.referrer_id
	JOIN profiles prec ON prec.user_id = r.recipient_id
	LEFT JOIN profiles pcli ON pcli.user_id = r.client_id
	LEFT JOIN users ucli ON ucli.id = r.client_id
	LEFT JOIN leads l ON l.id = r.lead_id
`

// ListSent возвращает рекомендации, отправленные пользователем.
func (r *ReferralRepository) ListSent(ctx context.Context, referrerID uuid.UUID) ([]models.ReferralListItem, error) {
	var items []models.ReferralListItem
	query := listQuery + ` WHERE r.referrer_id = $1 ORDER BY r.created_at DESC`
	if err := r.db.SelectContext(ctx, &items, query, referrerID); err != nil {
		return nil, fmt.Errorf("referral repository: list sent %w", err)
	}
	return items, nil
}

// ListReceived возвращает рекомендации, полученные пользователем.
func (r *ReferralRepository) ListReceived(ctx context.Context, recipientID uuid.UUID) ([]models.ReferralListItem, error) {
	var items []models.ReferralListItem
	query := listQuery + ` WHERE r.recipient_id = $1 ORDER BY r.created_at DESC`
	if err := r.db.SelectContext(ctx, &items, query, recipientID); err != nil {
		return nil, fmt.Errorf("referral repository: list received %w", err)
	}
	return items, nil
}

// ListEligibleClients возвращает клиентов, которых пользователь вправе рекомендовать:
// профили с ролью customer, писавшие ему хотя бы одно сообщение.
func (r *ReferralRepository) ListEligibleClients(ctx context.Context, referrerID uuid.UUID) ([]models.User, error) {
	var clients []models.User
	query := `
		SELECT DISTINCT u.id, u.email, u.username, u.password_hash, u.role, u.is_active,
		       u.last_login_at, u.created_at, u.updated_at
		FROM users u
		JOIN messages m ON m.sender_id = u.id
		WHERE m.recipient_id = $1 AND u.role = $2
		ORDER BY u.created_at DESC
	`
	if err := r.db.SelectContext(ctx, &clients, query, referrerID, models.RoleCustomer); err != nil {
		return nil, fmt.Errorf("referral repository: list eligible clients %w", err)
	}
	return clients, nil
}

// HasMessaged проверяет, писал ли клиент рекомендателю хотя бы одно сообщение.
func (r *ReferralRepository) HasMessaged(ctx context.Context, clientID, referrerID uuid.UUID) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM messages WHERE sender_id = $1 AND recipient_id = $2`
	if err := r.db.GetContext(ctx, &count, query, clientID, referrerID); err != nil {
		return false, fmt.Errorf("referral repository: has messaged %w", err)
	}
	return count > 0, nil
}

// CreateLead сохраняет входящий лид.
func (r *ReferralRepository) CreateLead(ctx context.Context, lead *models.Lead) error {
	query := `
		INSERT INTO leads (owner_id, name, email, phone, source)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		lead.OwnerID, lead.Name, lead.Email, lead.Phone, lead.Source,
	).Scan(&lead.ID, &lead.CreatedAt); err != nil {
		return fmt.Errorf("referral repository: create lead %w", err)
	}

	return nil
}

// GetLeadByID возвращает лид по идентификатору.
func (r *ReferralRepository) GetLeadByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	if err := r.db.GetContext(ctx, &lead, `SELECT * FROM leads WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("referral repository: get lead %w", err)
	}
	return &lead, nil
}

// ListLeads возвращает лиды пользователя.
func (r *ReferralRepository) ListLeads(ctx context.Context, ownerID uuid.UUID) ([]models.Lead, error) {
	var leads []models.Lead
	query := `SELECT * FROM leads WHERE owner_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &leads, query, ownerID); err != nil {
		return nil, fmt.Errorf("referral repository: list leads %w", err)
	}
	return leads, nil
}
