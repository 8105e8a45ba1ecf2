package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/realty-backend/internal/models"
	"github.com/ignatzorin/realty-backend/internal/pkg/apperror"
	"github.com/ignatzorin/realty-backend/internal/repository"
)

// CommissionRepository описывает зависимости сервиса комиссий.
type CommissionRepository interface {
	GetByReferralID(ctx context.Context, referralID uuid.UUID) (*models.Commission, error)
	ListForReferrer(ctx context.Context, referrerID uuid.UUID) ([]models.CommissionListItem, error)
	SummaryForReferrer(ctx context.Context, referrerID uuid.UUID) (*models.CommissionSummary, error)
}

// CommissionService отвечает за чтение реестра комиссий рекомендателя.
// Начисление комиссии выполняет EngagementService в транзакции конверсии,
// смена статусов (approved, paid, rejected) — административная операция
// вне приложения.
type CommissionService struct {
	repo      CommissionRepository
	referrals ReferralGetter
}

// NewCommissionService создаёт сервис комиссий.
func NewCommissionService(repo CommissionRepository, referrals ReferralGetter) *CommissionService {
	return &CommissionService{repo: repo, referrals: referrals}
}

// GetByReferral возвращает комиссию по рекомендации. Доступно только рекомендателю.
func (s *CommissionService) GetByReferral(ctx context.Context, actorID, referralID uuid.UUID) (*models.Commission, error) {
	referral, err := s.referrals.GetByID(ctx, referralID)
	if err != nil {
		if errors.Is(err, repository.ErrReferralNotFound) {
			return nil, apperror.ErrReferralNotFound
		}
		return nil, err
	}
	if referral.ReferrerID != actorID {
		return nil, apperror.ErrForbidden
	}

	commission, err := s.repo.GetByReferralID(ctx, referralID)
	if err != nil {
		if errors.Is(err, repository.ErrCommissionNotFound) {
			return nil, apperror.New(apperror.ErrCodeNotFound, "комиссия по рекомендации не найдена")
		}
		return nil, err
	}
	return commission, nil
}

// List возвращает комиссии пользователя, новые первыми.
func (s *CommissionService) List(ctx context.Context, actorID uuid.UUID) ([]models.CommissionListItem, error) {
	return s.repo.ListForReferrer(ctx, actorID)
}

// Summary возвращает агрегированные суммы комиссий пользователя:
// выплачено и в ожидании (pending + approved).
func (s *CommissionService) Summary(ctx context.Context, actorID uuid.UUID) (*models.CommissionSummary, error) {
	return s.repo.SummaryForReferrer(ctx, actorID)
}
