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

// Notifier доставляет событие пользователю (WebSocket hub + реестр уведомлений).
type Notifier interface {
	BroadcastToUser(userID uuid.UUID, event string, data any) error
}

// События уведомлений
const (
	EventReferralReceived  = "referral.received"
	EventReferralAccepted  = "referral.accepted"
	EventReferralConverted = "referral.converted"
)

// ReferralRepository описывает зависимости сервиса от слоя хранилища.
type ReferralRepository interface {
	Create(ctx context.Context, referral *models.Referral) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Referral, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) error
	ListSent(ctx context.Context, referrerID uuid.UUID) ([]models.ReferralListItem, error)
	ListReceived(ctx context.Context, recipientID uuid.UUID) ([]models.ReferralListItem, error)
	ListEligibleClients(ctx context.Context, referrerID uuid.UUID) ([]models.User, error)
	HasMessaged(ctx context.Context, clientID, referrerID uuid.UUID) (bool, error)
	CreateLead(ctx context.Context, lead *models.Lead) error
	GetLeadByID(ctx context.Context, id uuid.UUID) (*models.Lead, error)
	ListLeads(ctx context.Context, ownerID uuid.UUID) ([]models.Lead, error)
}

// UserDirectory минимальный доступ к справочнику пользователей.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ReferralService содержит бизнес-логику реестра рекомендаций.
type ReferralService struct {
	repo     ReferralRepository
	users    UserDirectory
	notifier Notifier
}

// NewReferralService создаёт сервис рекомендаций.
func NewReferralService(repo ReferralRepository, users UserDirectory) *ReferralService {
	return &ReferralService{repo: repo, users: users}
}

// SetNotifier устанавливает канал доставки уведомлений.
func (s *ReferralService) SetNotifier(n Notifier) {
	s.notifier = n
}

// CreateReferralInput данные для создания рекомендации. Клиент указывается
// ровно одним способом: ClientID или LeadID.
type CreateReferralInput struct {
	RecipientID uuid.UUID
	ClientID    *uuid.UUID
	LeadID      *uuid.UUID
	Notes       string
}

// Create создаёт рекомендацию в статусе pending_acceptance.
// Для пути существующего клиента действует правило допуска: рекомендовать
// можно только клиента с ролью customer, который уже писал рекомендателю.
func (s *ReferralService) Create(ctx context.Context, actorID uuid.UUID, in CreateReferralInput) (*models.Referral, error) {
	hasClient := in.ClientID != nil
	hasLead := in.LeadID != nil
	if hasClient == hasLead {
		return nil, apperror.New(apperror.ErrCodeValidation, "нужно указать либо клиента, либо лид, но не оба")
	}

	if err := validation.ValidateReferralNotes(in.Notes, hasClient); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	if in.RecipientID == actorID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя рекомендовать клиента самому себе")
	}

	recipient, err := s.users.GetByID(ctx, in.RecipientID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}
	if recipient.Role != models.RoleServiceProvider && recipient.Role != models.RoleAgent {
		return nil, apperror.New(apperror.ErrCodeValidation, "получатель рекомендации должен быть специалистом")
	}

	if hasClient {
		if *in.ClientID == actorID || *in.ClientID == in.RecipientID {
			return nil, apperror.New(apperror.ErrCodeValidation, "клиент должен быть третьей стороной")
		}

		client, err := s.users.GetByID(ctx, *in.ClientID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, apperror.ErrUserNotFound
			}
			return nil, err
		}
		if client.Role != models.RoleCustomer {
			return nil, apperror.New(apperror.ErrCodeValidation, "рекомендовать можно только клиента с ролью customer")
		}

		messaged, err := s.repo.HasMessaged(ctx, *in.ClientID, actorID)
		if err != nil {
			return nil, err
		}
		if !messaged {
			return nil, apperror.New(apperror.ErrCodeValidation, "рекомендовать можно только клиента, который вам писал")
		}
	} else {
		lead, err := s.repo.GetLeadByID(ctx, *in.LeadID)
		if err != nil {
			if errors.Is(err, repository.ErrLeadNotFound) {
				return nil, apperror.New(apperror.ErrCodeNotFound, "лид не найден")
			}
			return nil, err
		}
		if lead.OwnerID != actorID {
			return nil, apperror.ErrForbidden
		}
	}

	referral := &models.Referral{
		ReferrerID:  actorID,
		RecipientID: in.RecipientID,
		ClientID:    in.ClientID,
		LeadID:      in.LeadID,
		Notes:       in.Notes,
		Status:      models.ReferralStatusPendingAcceptance,
	}

	if err := s.repo.Create(ctx, referral); err != nil {
		return nil, err
	}

	s.notify(referral.RecipientID, EventReferralReceived, referral)

	return referral, nil
}

// Accept переводит рекомендацию из pending_acceptance в accepted.
// Доступно только получателю рекомендации.
func (s *ReferralService) Accept(ctx context.Context, actorID, referralID uuid.UUID) (*models.Referral, error) {
	referral, err := s.repo.GetByID(ctx, referralID)
	if err != nil {
		if errors.Is(err, repository.ErrReferralNotFound) {
			return nil, apperror.ErrReferralNotFound
		}
		return nil, err
	}

	if referral.RecipientID != actorID {
		return nil, apperror.ErrForbidden
	}
	if referral.Status != models.ReferralStatusPendingAcceptance {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "рекомендация уже обработана")
	}

	if err := s.repo.UpdateStatus(ctx, referralID,
		models.ReferralStatusPendingAcceptance, models.ReferralStatusAccepted); err != nil {
		if errors.Is(err, repository.ErrStaleReferral) {
			return nil, apperror.New(apperror.ErrCodeInvalidState, "рекомендация уже обработана")
		}
		return nil, err
	}

	referral.Status = models.ReferralStatusAccepted
	s.notify(referral.ReferrerID, EventReferralAccepted, referral)

	return referral, nil
}

// ListSent возвращает рекомендации, отправленные пользователем.
func (s *ReferralService) ListSent(ctx context.Context, actorID uuid.UUID) ([]models.ReferralListItem, error) {
	return s.repo.ListSent(ctx, actorID)
}

// ListReceived возвращает рекомендации, полученные пользователем.
func (s *ReferralService) ListReceived(ctx context.Context, actorID uuid.UUID) ([]models.ReferralListItem, error) {
	return s.repo.ListReceived(ctx, actorID)
}

// EligibleClients возвращает клиентов, доступных пользователю для рекомендации.
func (s *ReferralService) EligibleClients(ctx context.Context, actorID uuid.UUID) ([]models.User, error) {
	return s.repo.ListEligibleClients(ctx, actorID)
}

// CreateLead сохраняет входящий лид пользователя.
func (s *ReferralService) CreateLead(ctx context.Context, actorID uuid.UUID, name string, email, phone, source *string) (*models.Lead, error) {
	if err := validation.ValidateNonEmpty("имя лида", name); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if email != nil && *email != "" {
		if err := validation.ValidateEmail(*email); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	lead := &models.Lead{
		OwnerID: actorID,
		Name:    name,
		Email:   email,
		Phone:   phone,
		Source:  source,
	}

	if err := s.repo.CreateLead(ctx, lead); err != nil {
		return nil, err
	}

	return lead, nil
}

// ListLeads возвращает лиды пользователя.
func (s *ReferralService) ListLeads(ctx context.Context, actorID uuid.UUID) ([]models.Lead, error) {
	return s.repo.ListLeads(ctx, actorID)
}

func (s *ReferralService) notify(userID uuid.UUID, event string, data any) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.BroadcastToUser(userID, event, data)
}
