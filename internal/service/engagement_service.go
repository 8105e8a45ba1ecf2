package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/realty-backend/internal/models"
	"github.com/ignatzorin/realty-backend/internal/pkg/apperror"
	"github.com/ignatzorin/realty-backend/internal/repository"
	"github.com/ignatzorin/realty-backend/internal/validation"
)

// EngagementRepository описывает зависимости сервиса сотрудничеств.
type EngagementRepository interface {
	Create(ctx context.Context, engagement *models.Engagement) error
	CreateWithConversion(ctx context.Context, engagement *models.Engagement, commission *models.Commission) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Engagement, error)
	ListByProvider(ctx context.Context, providerID uuid.UUID) ([]models.Engagement, error)
}

// ReferralGetter точечный доступ к рекомендациям для уведомлений о конверсии.
type ReferralGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Referral, error)
}

// EngagementService содержит бизнес-логику сотрудничеств и конверсии рекомендаций.
type EngagementService struct {
	repo                  EngagementRepository
	users                 UserDirectory
	referrals             ReferralGetter
	commissionAmountCents int64
	notifier              Notifier
}

// NewEngagementService создаёт сервис сотрудничеств. commissionAmountCents —
// фиксированная сумма комиссии за конверсию из конфигурации.
func NewEngagementService(repo EngagementRepository, users UserDirectory, referrals ReferralGetter, commissionAmountCents int64) *EngagementService {
	return &EngagementService{repo: repo, users: users, referrals: referrals, commissionAmountCents: commissionAmountCents}
}

// SetNotifier устанавливает канал доставки уведомлений.
func (s *EngagementService) SetNotifier(n Notifier) {
	s.notifier = n
}

// CreateEngagementInput данные для создания сотрудничества.
// CommissionAmountCents переопределяет настроенную сумму комиссии; nil — сумма из конфигурации.
type CreateEngagementInput struct {
	ClientID              uuid.UUID
	ReferralID            *uuid.UUID
	Title                 *string
	Notes                 *string
	CommissionAmountCents *int64
}

// Create создаёт сотрудничество от имени специалиста. Если указана рекомендация,
// вся конверсия (сотрудничество, перевод рекомендации в converted, начисление
// комиссии) выполняется в одной транзакции.
func (s *EngagementService) Create(ctx context.Context, actorID uuid.UUID, in CreateEngagementInput) (*models.Engagement, error) {
	if in.Title != nil {
		if err := validation.ValidateLength("название", *in.Title, 1, 200); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	client, err := s.users.GetByID(ctx, in.ClientID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}
	if client.Role != models.RoleCustomer {
		return nil, apperror.New(apperror.ErrCodeValidation, "клиентом сотрудничества может быть только пользователь с ролью customer")
	}
	if in.ClientID == actorID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя оформить сотрудничество с самим собой")
	}

	engagement := &models.Engagement{
		ProviderID: actorID,
		ClientID:   in.ClientID,
		ReferralID: in.ReferralID,
		Title:      in.Title,
		Notes:      in.Notes,
		Status:     models.EngagementStatusActive,
	}

	if in.ReferralID == nil {
		if err := s.repo.Create(ctx, engagement); err != nil {
			return nil, err
		}
		return engagement, nil
	}

	amountCents := s.commissionAmountCents
	if in.CommissionAmountCents != nil {
		if err := validation.ValidateAmountCents("сумма комиссии", *in.CommissionAmountCents, false); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
		amountCents = *in.CommissionAmountCents
	}

	commission := &models.Commission{
		ReferralID:  *in.ReferralID,
		AmountCents: amountCents,
		Status:      models.CommissionStatusPending,
	}

	if err := s.repo.CreateWithConversion(ctx, engagement, commission); err != nil {
		switch {
		case errors.Is(err, repository.ErrReferralNotFound):
			return nil, apperror.ErrReferralNotFound
		case errors.Is(err, repository.ErrReferralNotAccepted):
			return nil, apperror.New(apperror.ErrCodeInvalidState, "конвертировать можно только принятую рекомендацию")
		case errors.Is(err, repository.ErrReferralMismatch):
			return nil, apperror.New(apperror.ErrCodeForbidden, "рекомендация адресована другому специалисту или другому клиенту")
		case errors.Is(err, repository.ErrStaleReferral):
			return nil, apperror.New(apperror.ErrCodeInvalidState, "рекомендация уже сконвертирована")
		case errors.Is(err, repository.ErrCommissionExists):
			return nil, apperror.New(apperror.ErrCodeConflict, "комиссия по этой рекомендации уже начислена")
		}
		return nil, err
	}

	s.notifyConverted(ctx, engagement)

	return engagement, nil
}

// GetByID возвращает сотрудничество. Видно только его участникам.
func (s *EngagementService) GetByID(ctx context.Context, actorID, engagementID uuid.UUID) (*models.Engagement, error) {
	engagement, err := s.repo.GetByID(ctx, engagementID)
	if err != nil {
		if errors.Is(err, repository.ErrEngagementNotFound) {
			return nil, apperror.ErrEngagementNotFound
		}
		return nil, err
	}
	if engagement.ProviderID != actorID && engagement.ClientID != actorID {
		return nil, apperror.ErrForbidden
	}
	return engagement, nil
}

// ListForProvider возвращает сотрудничества специалиста.
func (s *EngagementService) ListForProvider(ctx context.Context, actorID uuid.UUID) ([]models.Engagement, error) {
	return s.repo.ListByProvider(ctx, actorID)
}

// notifyConverted уведомляет рекомендателя о конверсии его рекомендации.
func (s *EngagementService) notifyConverted(ctx context.Context, engagement *models.Engagement) {
	if s.notifier == nil || engagement.ReferralID == nil {
		return
	}
	referral, err := s.referrals.GetByID(ctx, *engagement.ReferralID)
	if err != nil {
		return
	}
	_ = s.notifier.BroadcastToUser(referral.ReferrerID, EventReferralConverted, engagement)
}
