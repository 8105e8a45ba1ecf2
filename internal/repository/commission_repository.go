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

// ErrCommissionNotFound возвращается, когда комиссия не найдена.
var ErrCommissionNotFound = errors.New("commission not found")

// CommissionRepository отвечает за чтение реестра комиссий.
// Начисление происходит только внутри транзакции конверсии
// (EngagementRepository.CreateWithConversion).
type CommissionRepository struct {
	db *sqlx.DB
}

// NewCommissionRepository создаёт экземпляр репозитория.
func NewCommissionRepository(db *sqlx.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

// GetByReferralID возвращает комиссию по рекомендации.
func (r *CommissionRepository) GetByReferralID(ctx context.Context, referralID uuid.UUID) (*models.Commission, error) {
	var commission models.Commission
	query := `SELECT * FROM commissions WHERE referral_id = $1`
	if err := r.db.GetContext(ctx, &commission, query, referralID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCommissionNotFound
		}
		return nil, fmt.Errorf("commission repository: get by referral %w", err)
	}
	return &commission, nil
}

// ListForReferrer возвращает комиссии рекомендателя, свежие первыми,
// с именем специалиста, получившего рекомендацию.
func (r *CommissionRepository) ListForReferrer(ctx context.Context, referrerID uuid.UUID) ([]models.CommissionListItem, error) {
	var items []models.CommissionListItem
	query := `
		SELECT c.id, c.referral_id, c.amount_cents, c.status, c.paid_at, c.created_at,
		       p.display_name AS recipient_name
		FROM commissions c
		JOIN referrals r ON r.id = c.referral_id
		JOIN profiles p ON p.user_id = r.recipient_id
		WHERE r.referrer_id = $1
		ORDER BY c.created_at DESC
	`
	if err := r.db.SelectContext(ctx, &items, query, referrerID); err != nil {
		return nil, fmt.Errorf("commission repository: list for referrer %w", err)
	}
	return items, nil
}

// SummaryForReferrer возвращает агрегаты: выплачено и в ожидании
// (pending + approved). Суммируется в SQL целыми копейками.
func (r *CommissionRepository) SummaryForReferrer(ctx context.Context, referrerID uuid.UUID) (*models.CommissionSummary, error) {
	var summary models.CommissionSummary
	query := `
		SELECT
			COALESCE(SUM(c.amount_cents) FILTER (WHERE c.status = $2), 0) AS total_paid_cents,
			COALESCE(SUM(c.amount_cents) FILTER (WHERE c.status IN ($3, $4)), 0) AS total_pending_cents
		FROM commissions c
		JOIN referrals r ON r.id = c.referral_id
		WHERE r.referrer_id = $1
	`
	if err := r.db.GetContext(ctx, &summary, query, referrerID,
		models.CommissionStatusPaid, models.CommissionStatusPending, models.CommissionStatusApproved); err != nil {
		return nil, fmt.Errorf("commission repository: summary %w", err)
	}
	return &summary, nil
}
