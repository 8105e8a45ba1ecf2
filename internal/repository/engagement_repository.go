package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/realty-backend/internal/models"
	"github.com/ignatzorin/realty-backend/internal/repository/common"
)

// Ошибки уровня репозитория.
var (
	ErrEngagementNotFound  = errors.New("engagement not found")
	ErrReferralNotAccepted = errors.New("referral is not in accepted status")
	ErrReferralMismatch    = errors.New("referral does not match provider or client")
	ErrCommissionExists    = errors.New("commission already exists for referral")
)

// EngagementRepository отвечает за сотрудничества и их конверсию из рекомендаций.
type EngagementRepository struct {
	db           *sqlx.DB
	referralRepo *ReferralRepository
}

// NewEngagementRepository создаёт новый экземпляр.
func NewEngagementRepository(db *sqlx.DB, referralRepo *ReferralRepository) *EngagementRepository {
	return &EngagementRepository{db: db, referralRepo: referralRepo}
}

// Create сохраняет сотрудничество без привязки к рекомендации.
func (r *EngagementRepository) Create(ctx context.Context, engagement *models.Engagement) error {
	query := `
		INSERT INTO engagements (provider_id, client_id, referral_id, title, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		engagement.ProviderID, engagement.ClientID, engagement.ReferralID,
		engagement.Title, engagement.Notes, engagement.Status,
	).Scan(&engagement.ID, &engagement.CreatedAt); err != nil {
		return fmt.Errorf("engagement repository: create %w", err)
	}

	return nil
}

// CreateWithConversion создаёт сотрудничество по принятой рекомендации и в той же
// транзакции переводит рекомендацию в converted и начисляет ровно одну комиссию.
// Строка рекомендации блокируется через SELECT ... FOR UPDATE: два конкурентных
// вызова не смогут сконвертировать одну рекомендацию дважды. Уникальный индекс
// на commissions(referral_id) страхует инвариант на уровне данных.
func (r *EngagementRepository) CreateWithConversion(ctx context.Context, engagement *models.Engagement, commission *models.Commission) error {
	if engagement.ReferralID == nil {
		return fmt.Errorf("engagement repository: referral id is required for conversion")
	}

	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		referral, err := r.referralRepo.GetByIDForUpdate(ctx, tx, *engagement.ReferralID)
		if err != nil {
			return err
		}

		if referral.Status != models.ReferralStatusAccepted {
			return ErrReferralNotAccepted
		}
		if referral.RecipientID != engagement.ProviderID {
			return ErrReferralMismatch
		}
		// Для рекомендаций по лиду клиент сотрудничества — это аккаунт,
		// в который лид сконвертировался, поэтому сравнение возможно только
		// для рекомендаций зарегистрированных клиентов.
		if referral.ClientID != nil && *referral.ClientID != engagement.ClientID {
			return ErrReferralMismatch
		}

		insertEngagement := `
			INSERT INTO engagements (provider_id, client_id, referral_id, title, notes, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`
		if err := tx.QueryRowxContext(
			ctx, insertEngagement,
			engagement.ProviderID, engagement.ClientID, engagement.ReferralID,
			engagement.Title, engagement.Notes, engagement.Status,
		).Scan(&engagement.ID, &engagement.CreatedAt); err != nil {
			return fmt.Errorf("engagement repository: insert engagement %w", err)
		}

		if err := r.referralRepo.UpdateStatusTx(ctx, tx, referral.ID,
			models.ReferralStatusAccepted, models.ReferralStatusConverted); err != nil {
			return err
		}

		insertCommission := `
			INSERT INTO commissions (referral_id, amount_cents, status)
			VALUES ($1, $2, $3)
			ON CONFLICT (referral_id) DO NOTHING
			RETURNING id, created_at
		`
		if err := tx.QueryRowxContext(
			ctx, insertCommission,
			commission.ReferralID, commission.AmountCents, commission.Status,
		).Scan(&commission.ID, &commission.CreatedAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Конфликт по referral_id: комиссия уже начислена.
				return ErrCommissionExists
			}
			return fmt.Errorf("engagement repository: insert commission %w", err)
		}

		return nil
	})
}

// GetByID возвращает сотрудничество по идентификатору.
func (r *EngagementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Engagement, error) {
	return common.GetByID[models.Engagement](ctx, r.db, "engagements", id, ErrEngagementNotFound)
}

// ListByProvider возвращает сотрудничества специалиста.
func (r *EngagementRepository) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]models.Engagement, error) {
	var engagements []models.Engagement
	query := `
		SELECT id, provider_id, client_id, referral_id, title, notes, status, created_at
		FROM engagements
		WHERE provider_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &engagements, query, providerID); err != nil {
		return nil, fmt.Errorf("engagement repository: list by provider %w", err)
	}
	return engagements, nil
}
