package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/realty-backend/internal/models"
	"github.com/ignatzorin/realty-backend/internal/payments"
	"github.com/ignatzorin/realty-backend/internal/pkg/apperror"
	"github.com/ignatzorin/realty-backend/internal/repository"
	"github.com/ignatzorin/realty-backend/internal/validation"
)

// События уведомлений по офферам
const (
	EventOfferReceived            = "offer.received"
	EventOfferAccepted            = "offer.accepted"
	EventOfferDeclined            = "offer.declined"
	EventOfferWithdrawn           = "offer.withdrawn"
	EventOfferCompletionRequested = "offer.completion_requested"
	EventOfferCompleted           = "offer.completed"
	EventOfferCompletionRejected  = "offer.completion_rejected"
)

// OfferRepository описывает зависимости сервиса офферов.
type OfferRepository interface {
	Create(ctx context.Context, offer *models.Offer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OfferStatus) error
	SetPaymentIntent(ctx context.Context, id uuid.UUID, intentID string) error
	ListSent(ctx context.Context, senderID uuid.UUID) ([]models.OfferListItem, error)
	ListReceived(ctx context.Context, recipientID uuid.UUID) ([]models.OfferListItem, error)
	SumCompletedForSender(ctx context.Context, senderID uuid.UUID) (int64, error)
}

// PaymentGateway описывает используемую часть платёжного шлюза.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency, reference string) (*payments.Intent, error)
	ConfirmIntent(ctx context.Context, intentID string) (*payments.Intent, error)
	CancelIntent(ctx context.Context, intentID string) (*payments.Intent, error)
}

// OfferService содержит бизнес-логику жизненного цикла офферов.
type OfferService struct {
	repo        OfferRepository
	users       UserDirectory
	commissions CommissionRepository
	gateway     PaymentGateway
	notifier    Notifier
	log         *logrus.Logger
}

// NewOfferService создаёт сервис офферов. gateway может быть nil:
// тогда офферы создаются и отклоняются, но принять оффер нельзя,
// пока оплата не резервируется.
func NewOfferService(repo OfferRepository, users UserDirectory, commissions CommissionRepository, gateway PaymentGateway, log *logrus.Logger) *OfferService {
	return &OfferService{repo: repo, users: users, commissions: commissions, gateway: gateway, log: log}
}

// SetNotifier устанавливает канал доставки уведомлений.
func (s *OfferService) SetNotifier(n Notifier) {
	s.notifier = n
}

// CreateOfferInput данные для создания оффера.
type CreateOfferInput struct {
	RecipientID  uuid.UUID
	Title        string
	Description  string
	AmountCents  int64
	DeliveryDays *int
}

// Create создаёт оффер в статусе pending от имени отправителя.
// Отправлять офферы могут только пользователи с ролью service_provider.
func (s *OfferService) Create(ctx context.Context, actorID uuid.UUID, in CreateOfferInput) (*models.Offer, error) {
	if err := validation.ValidateOfferTitle(in.Title); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateOfferDescription(in.Description); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateAmountCents("сумма оффера", in.AmountCents, false); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateDeliveryDays(in.DeliveryDays); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.RecipientID == actorID {
		return nil, apperror.New(apperror.ErrCodeValidation, "нельзя отправить оффер самому себе")
	}

	sender, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}
	if sender.Role != models.RoleServiceProvider {
		return nil, apperror.New(apperror.ErrCodeForbidden, "отправлять офферы может только пользователь с ролью service_provider")
	}

	if _, err := s.users.GetByID(ctx, in.RecipientID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}

	offer := &models.Offer{
		SenderID:     actorID,
		RecipientID:  in.RecipientID,
		Title:        in.Title,
		Description:  in.Description,
		AmountCents:  in.AmountCents,
		DeliveryDays: in.DeliveryDays,
		Status:       models.OfferStatusPending,
	}

	if err := s.repo.Create(ctx, offer); err != nil {
		return nil, err
	}

	s.notify(offer.RecipientID, EventOfferReceived, offer)

	return offer, nil
}

// GetByID возвращает оффер. Видно только его сторонам.
func (s *OfferService) GetByID(ctx context.Context, actorID, offerID uuid.UUID) (*models.Offer, error) {
	return s.getForParticipant(ctx, actorID, offerID)
}

// CreatePaymentIntent резервирует оплату по офферу на платёжном шлюзе.
// Доступно получателю оффера (плательщику), пока оффер в статусе pending.
func (s *OfferService) CreatePaymentIntent(ctx context.Context, actorID, offerID uuid.UUID) (*models.Offer, error) {
	offer, err := s.getForParticipant(ctx, actorID, offerID)
	if err != nil {
		return nil, err
	}
	if offer.RecipientID != actorID {
		return nil, apperror.ErrForbidden
	}
	if offer.Status != models.OfferStatusPending {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "резервировать оплату можно только по ожидающему офферу")
	}
	if offer.PaymentIntentID != nil {
		return nil, apperror.New(apperror.ErrCodeConflict, "оплата по офферу уже зарезервирована")
	}
	if s.gateway == nil {
		return nil, apperror.New(apperror.ErrCodeExternalService, "платёжный шлюз не настроен")
	}

	intent, err := s.gateway.CreateIntent(ctx, offer.AmountCents, "RUB", offer.ID.String())
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeExternalService, "платёжный шлюз недоступен")
	}

	if err := s.repo.SetPaymentIntent(ctx, offer.ID, intent.ID); err != nil {
		if errors.Is(err, repository.ErrStaleOffer) {
			// Оффер успел сменить статус: снимаем резервирование.
			s.cancelIntent(ctx, intent.ID)
			return nil, apperror.New(apperror.ErrCodeInvalidState, "оффер уже обработан")
		}
		return nil, err
	}

	offer.PaymentIntentID = &intent.ID
	return offer, nil
}

// Respond принимает или отклоняет оффер. Доступно только получателю,
// только из статуса pending. Принятие требует зарезервированной оплаты
// и подтверждает её на шлюзе; при отказе резервирование снимается.
func (s *OfferService) Respond(ctx context.Context, actorID, offerID uuid.UUID, accept bool) (*models.Offer, error) {
	offer, err := s.getForParticipant(ctx, actorID, offerID)
	if err != nil {
		return nil, err
	}
	if offer.RecipientID != actorID {
		return nil, apperror.ErrForbidden
	}

	target := models.OfferStatusDeclined
	event := EventOfferDeclined
	if accept {
		target = models.OfferStatusAccepted
		event = EventOfferAccepted
	}

	if !offer.Status.CanTransitionTo(target) {
		return nil, apperror.New(apperror.ErrCodeInvalidState,
			fmt.Sprintf("переход из статуса %s невозможен", offer.Status))
	}

	// Принять оффер без зарезервированной оплаты нельзя; оплата
	// подтверждается до смены статуса, чтобы при отказе шлюза
	// оффер остался в pending.
	if accept {
		if offer.PaymentIntentID == nil {
			return nil, apperror.New(apperror.ErrCodeInvalidState, "оплата по офферу не зарезервирована")
		}
		if s.gateway == nil {
			return nil, apperror.New(apperror.ErrCodeExternalService, "платёжный шлюз не настроен")
		}
		if _, err := s.gateway.ConfirmIntent(ctx, *offer.PaymentIntentID); err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeExternalService, "не удалось подтвердить оплату")
		}
	}

	if err := s.repo.UpdateStatus(ctx, offer.ID, models.OfferStatusPending, target); err != nil {
		if errors.Is(err, repository.ErrStaleOffer) {
			return nil, apperror.New(apperror.ErrCodeInvalidState, "оффер уже обработан")
		}
		return nil, err
	}

	if !accept && offer.PaymentIntentID != nil {
		s.cancelIntent(ctx, *offer.PaymentIntentID)
	}

	offer.Status = target
	s.notify(offer.SenderID, event, offer)

	return offer, nil
}

// Withdraw отзывает оффер. Доступно только отправителю из статусов
// pending и accepted.
func (s *OfferService) Withdraw(ctx context.Context, actorID, offerID uuid.UUID) (*models.Offer, error) {
	offer, err := s.getForParticipant(ctx, actorID, offerID)
	if err != nil {
		return nil, err
	}
	if offer.SenderID != actorID {
		return nil, apperror.ErrForbidden
	}
	if !offer.Status.CanTransitionTo(models.OfferStatusWithdrawn) {
		return nil, apperror.New(apperror.ErrCodeInvalidState,
			fmt.Sprintf("отозвать оффер из статуса %s нельзя", offer.Status))
	}

	if err := s.repo.UpdateStatus(ctx, offer.ID, offer.Status, models.OfferStatusWithdrawn); err != nil {
		if errors.Is(err, repository.ErrStaleOffer) {
			return nil, apperror.New(apperror.ErrCodeInvalidState, "оффер уже обработан")
		}
		return nil, err
	}

	if offer.PaymentIntentID != nil {
		s.cancelIntent(ctx, *offer.PaymentIntentID)
	}

	offer.Status = models.OfferStatusWithdrawn
	s.notify(offer.RecipientID, EventOfferWithdrawn, offer)

	return offer, nil
}

// RequestCompletion помечает работу по офферу выполненной со стороны
// отправителя: accepted -> completion_requested.
func (s *OfferService) RequestCompletion(ctx context.Context, actorID, offerID uuid.UUID) (*models.Offer, error) {
	offer, err := s.getForParticipant(ctx, actorID, offerID)
	if err != nil {
		return nil, err
	}
	if offer.SenderID != actorID {
		return nil, apperror.ErrForbidden
	}
	if !offer.Status.CanTransitionTo(models.OfferStatusCompletionRequested) {
		return nil, apperror.New(apperror.ErrCodeInvalidState,
			fmt.Sprintf("запросить завершение из статуса %s нельзя", offer.Status))
	}

	if err := s.repo.UpdateStatus(ctx, offer.ID, models.OfferStatusAccepted, models.OfferStatusCompletionRequested); err != nil {
		if errors.Is(err, repository.ErrStaleOffer) {
			return nil, apperror.New(apperror.ErrCodeInvalidState, "оффер уже обработан")
		}
		return nil, err
	}

	offer.Status = models.OfferStatusCompletionRequested
	s.notify(offer.RecipientID, EventOfferCompletionRequested, offer)

	return offer, nil
}

// RespondToCompletion подтверждает или отклоняет запрос на завершение.
// Доступно только получателю. Подтверждение переводит оффер в completed,
// отклонение возвращает его в accepted (отметка о запросе очищается).
func (s *OfferService) RespondToCompletion(ctx context.Context, actorID, offerID uuid.UUID, approve bool) (*models.Offer, error) {
	offer, err := s.getForParticipant(ctx, actorID, offerID)
	if err != nil {
		return nil, err
	}
	if offer.RecipientID != actorID {
		return nil, apperror.ErrForbidden
	}

	target := models.OfferStatusAccepted
	event := EventOfferCompletionRejected
	if approve {
		target = models.OfferStatusCompleted
		event = EventOfferCompleted
	}

	if offer.Status != models.OfferStatusCompletionRequested || !offer.Status.CanTransitionTo(target) {
		return nil, apperror.New(apperror.ErrCodeInvalidState,
			fmt.Sprintf("запрос на завершение не найден: оффер в статусе %s", offer.Status))
	}

	if err := s.repo.UpdateStatus(ctx, offer.ID, models.OfferStatusCompletionRequested, target); err != nil {
		if errors.Is(err, repository.ErrStaleOffer) {
			return nil, apperror.New(apperror.ErrCodeInvalidState, "оффер уже обработан")
		}
		return nil, err
	}

	offer.Status = target
	if !approve {
		offer.CompletionRequestedAt = nil
	}
	s.notify(offer.SenderID, event, offer)

	return offer, nil
}

// ListSent возвращает офферы, отправленные пользователем.
func (s *OfferService) ListSent(ctx context.Context, actorID uuid.UUID) ([]models.OfferListItem, error) {
	return s.repo.ListSent(ctx, actorID)
}

// ListReceived возвращает офферы, полученные пользователем.
func (s *OfferService) ListReceived(ctx context.Context, actorID uuid.UUID) ([]models.OfferListItem, error) {
	return s.repo.ListReceived(ctx, actorID)
}

// Earnings возвращает сводку заработка пользователя: сумма завершённых
// офферов плюс комиссии по рекомендациям.
func (s *OfferService) Earnings(ctx context.Context, actorID uuid.UUID) (*models.EarningsSummary, error) {
	completed, err := s.repo.SumCompletedForSender(ctx, actorID)
	if err != nil {
		return nil, err
	}

	summary, err := s.commissions.SummaryForReferrer(ctx, actorID)
	if err != nil {
		return nil, err
	}

	return &models.EarningsSummary{
		CompletedOffersCents:   completed,
		CommissionPaidCents:    summary.TotalPaidCents,
		CommissionPendingCents: summary.TotalPendingCents,
	}, nil
}

// getForParticipant возвращает оффер, если пользователь — одна из его сторон.
func (s *OfferService) getForParticipant(ctx context.Context, actorID, offerID uuid.UUID) (*models.Offer, error) {
	offer, err := s.repo.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repository.ErrOfferNotFound) {
			return nil, apperror.ErrOfferNotFound
		}
		return nil, err
	}
	if offer.SenderID != actorID && offer.RecipientID != actorID {
		return nil, apperror.ErrForbidden
	}
	return offer, nil
}

// cancelIntent снимает резервирование оплаты. Ошибка шлюза не прерывает
// бизнес-операцию, только логируется.
func (s *OfferService) cancelIntent(ctx context.Context, intentID string) {
	if s.gateway == nil {
		return
	}
	if _, err := s.gateway.CancelIntent(ctx, intentID); err != nil && s.log != nil {
		s.log.WithError(err).WithField("intent_id", intentID).Warn("не удалось отменить платёжное намерение")
	}
}

func (s *OfferService) notify(userID uuid.UUID, event string, data any) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.BroadcastToUser(userID, event, data)
}
