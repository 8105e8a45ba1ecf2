package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/realty-backend/internal/models"
	"github.com/ignatzorin/realty-backend/internal/payments"
	"github.com/ignatzorin/realty-backend/internal/pkg/apperror"
	"github.com/ignatzorin/realty-backend/internal/repository"
)

type mockOfferRepo struct {
	mock.Mock
}

func (m *mockOfferRepo) Create(ctx context.Context, offer *models.Offer) error {
	args := m.Called(ctx, offer)
	if args.Error(0) == nil {
		offer.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockOfferRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *mockOfferRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to models.OfferStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *mockOfferRepo) SetPaymentIntent(ctx context.Context, id uuid.UUID, intentID string) error {
	args := m.Called(ctx, id, intentID)
	return args.Error(0)
}

func (m *mockOfferRepo) ListSent(ctx context.Context, senderID uuid.UUID) ([]models.OfferListItem, error) {
	args := m.Called(ctx, senderID)
	return args.Get(0).([]models.OfferListItem), args.Error(1)
}

func (m *mockOfferRepo) ListReceived(ctx context.Context, recipientID uuid.UUID) ([]models.OfferListItem, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).([]models.OfferListItem), args.Error(1)
}

func (m *mockOfferRepo) SumCompletedForSender(ctx context.Context, senderID uuid.UUID) (int64, error) {
	args := m.Called(ctx, senderID)
	return args.Get(0).(int64), args.Error(1)
}

type mockCommissionRepo struct {
	mock.Mock
}

func (m *mockCommissionRepo) GetByReferralID(ctx context.Context, referralID uuid.UUID) (*models.Commission, error) {
	args := m.Called(ctx, referralID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Commission), args.Error(1)
}

func (m *mockCommissionRepo) ListForReferrer(ctx context.Context, referrerID uuid.UUID) ([]models.CommissionListItem, error) {
	args := m.Called(ctx, referrerID)
	return args.Get(0).([]models.CommissionListItem), args.Error(1)
}

func (m *mockCommissionRepo) SummaryForReferrer(ctx context.Context, referrerID uuid.UUID) (*models.CommissionSummary, error) {
	args := m.Called(ctx, referrerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CommissionSummary), args.Error(1)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateIntent(ctx context.Context, amountCents int64, currency, reference string) (*payments.Intent, error) {
	args := m.Called(ctx, amountCents, currency, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Intent), args.Error(1)
}

func (m *mockGateway) ConfirmIntent(ctx context.Context, intentID string) (*payments.Intent, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Intent), args.Error(1)
}

func (m *mockGateway) CancelIntent(ctx context.Context, intentID string) (*payments.Intent, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Intent), args.Error(1)
}

func newOfferServiceForTest(repo *mockOfferRepo, users *mockUserDirectory, gateway PaymentGateway) *OfferService {
	return NewOfferService(repo, users, new(mockCommissionRepo), gateway, nil)
}

func TestOfferService_Create_Success(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	svc := newOfferServiceForTest(repo, users, nil)
	ctx := context.Background()

	senderID := uuid.New()
	recipientID := uuid.New()

	users.On("GetByID", ctx, senderID).Return(&models.User{ID: senderID, Role: models.RoleServiceProvider}, nil)
	users.On("GetByID", ctx, recipientID).Return(&models.User{ID: recipientID, Role: models.RoleCustomer}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Offer")).Return(nil)

	offer, err := svc.Create(ctx, senderID, CreateOfferInput{
		RecipientID: recipientID,
		Title:       "Сопровождение сделки",
		Description: "Полное сопровождение сделки купли-продажи квартиры",
		AmountCents: 1_500_000,
	})

	assert.NoError(t, err)
	assert.NotNil(t, offer)
	assert.Equal(t, models.OfferStatusPending, offer.Status)
}

func TestOfferService_Create_SelfOfferForbidden(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	svc := newOfferServiceForTest(repo, users, nil)
	ctx := context.Background()

	actorID := uuid.New()
	_, err := svc.Create(ctx, actorID, CreateOfferInput{
		RecipientID: actorID,
		Title:       "Сопровождение сделки",
		Description: "Полное сопровождение сделки купли-продажи квартиры",
		AmountCents: 1_500_000,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "самому себе")
}

func TestOfferService_Create_SenderMustBeServiceProvider(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	svc := newOfferServiceForTest(repo, users, nil)
	ctx := context.Background()

	senderID := uuid.New()

	users.On("GetByID", ctx, senderID).Return(&models.User{ID: senderID, Role: models.RoleCustomer}, nil)

	_, err := svc.Create(ctx, senderID, CreateOfferInput{
		RecipientID: uuid.New(),
		Title:       "Сопровождение сделки",
		Description: "Полное сопровождение сделки купли-продажи квартиры",
		AmountCents: 1_500_000,
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
	assert.Contains(t, err.Error(), "service_provider")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOfferService_Create_InvalidAmount(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	svc := newOfferServiceForTest(repo, users, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.New(), CreateOfferInput{
		RecipientID: uuid.New(),
		Title:       "Сопровождение сделки",
		Description: "Полное сопровождение сделки купли-продажи квартиры",
		AmountCents: 0,
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestOfferService_Respond_Accept(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	gateway := new(mockGateway)
	svc := newOfferServiceForTest(repo, users, gateway)
	ctx := context.Background()

	senderID := uuid.New()
	recipientID := uuid.New()
	offerID := uuid.New()
	intentID := "pi_42"

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:              offerID,
		SenderID:        senderID,
		RecipientID:     recipientID,
		Status:          models.OfferStatusPending,
		PaymentIntentID: &intentID,
	}, nil)
	gateway.On("ConfirmIntent", ctx, intentID).Return(&payments.Intent{ID: intentID, Status: payments.IntentStatusConfirmed}, nil)
	repo.On("UpdateStatus", ctx, offerID, models.OfferStatusPending, models.OfferStatusAccepted).Return(nil)

	offer, err := svc.Respond(ctx, recipientID, offerID, true)

	assert.NoError(t, err)
	assert.Equal(t, models.OfferStatusAccepted, offer.Status)
}

func TestOfferService_Respond_AcceptWithoutIntentRejected(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	gateway := new(mockGateway)
	svc := newOfferServiceForTest(repo, users, gateway)
	ctx := context.Background()

	recipientID := uuid.New()
	offerID := uuid.New()

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:          offerID,
		SenderID:    uuid.New(),
		RecipientID: recipientID,
		Status:      models.OfferStatusPending,
	}, nil)

	_, err := svc.Respond(ctx, recipientID, offerID, true)

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
	assert.Contains(t, err.Error(), "не зарезервирована")
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	gateway.AssertNotCalled(t, "ConfirmIntent", mock.Anything, mock.Anything)
}

func TestOfferService_Respond_AcceptWithoutGatewayRejected(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	svc := newOfferServiceForTest(repo, users, nil)
	ctx := context.Background()

	recipientID := uuid.New()
	offerID := uuid.New()
	intentID := "pi_42"

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:              offerID,
		SenderID:        uuid.New(),
		RecipientID:     recipientID,
		Status:          models.OfferStatusPending,
		PaymentIntentID: &intentID,
	}, nil)

	_, err := svc.Respond(ctx, recipientID, offerID, true)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "не настроен")
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOfferService_Respond_OnlyRecipient(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	svc := newOfferServiceForTest(repo, users, nil)
	ctx := context.Background()

	senderID := uuid.New()
	offerID := uuid.New()

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:          offerID,
		SenderID:    senderID,
		RecipientID: uuid.New(),
		Status:      models.OfferStatusPending,
	}, nil)

	_, err := svc.Respond(ctx, senderID, offerID, true)

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestOfferService_Respond_TerminalStatus(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	svc := newOfferServiceForTest(repo, users, nil)
	ctx := context.Background()

	recipientID := uuid.New()
	offerID := uuid.New()

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:          offerID,
		SenderID:    uuid.New(),
		RecipientID: recipientID,
		Status:      models.OfferStatusDeclined,
	}, nil)

	_, err := svc.Respond(ctx, recipientID, offerID, true)

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestOfferService_Respond_AcceptConfirmsPayment(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	gateway := new(mockGateway)
	svc := newOfferServiceForTest(repo, users, gateway)
	ctx := context.Background()

	recipientID := uuid.New()
	offerID := uuid.New()
	intentID := "pi_123"

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:              offerID,
		SenderID:        uuid.New(),
		RecipientID:     recipientID,
		Status:          models.OfferStatusPending,
		PaymentIntentID: &intentID,
	}, nil)
	gateway.On("ConfirmIntent", ctx, intentID).Return(&payments.Intent{ID: intentID, Status: payments.IntentStatusConfirmed}, nil)
	repo.On("UpdateStatus", ctx, offerID, models.OfferStatusPending, models.OfferStatusAccepted).Return(nil)

	offer, err := svc.Respond(ctx, recipientID, offerID, true)

	assert.NoError(t, err)
	assert.Equal(t, models.OfferStatusAccepted, offer.Status)
	gateway.AssertExpectations(t)
}

func TestOfferService_Respond_GatewayFailureKeepsOfferPending(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	gateway := new(mockGateway)
	svc := newOfferServiceForTest(repo, users, gateway)
	ctx := context.Background()

	recipientID := uuid.New()
	offerID := uuid.New()
	intentID := "pi_123"

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:              offerID,
		SenderID:        uuid.New(),
		RecipientID:     recipientID,
		Status:          models.OfferStatusPending,
		PaymentIntentID: &intentID,
	}, nil)
	gateway.On("ConfirmIntent", ctx, intentID).Return(nil, errors.New("gateway down"))

	_, err := svc.Respond(ctx, recipientID, offerID, true)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOfferService_Respond_DeclineCancelsPayment(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	gateway := new(mockGateway)
	svc := newOfferServiceForTest(repo, users, gateway)
	ctx := context.Background()

	recipientID := uuid.New()
	offerID := uuid.New()
	intentID := "pi_123"

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:              offerID,
		SenderID:        uuid.New(),
		RecipientID:     recipientID,
		Status:          models.OfferStatusPending,
		PaymentIntentID: &intentID,
	}, nil)
	repo.On("UpdateStatus", ctx, offerID, models.OfferStatusPending, models.OfferStatusDeclined).Return(nil)
	gateway.On("CancelIntent", ctx, intentID).Return(&payments.Intent{ID: intentID, Status: payments.IntentStatusCancelled}, nil)

	offer, err := svc.Respond(ctx, recipientID, offerID, false)

	assert.NoError(t, err)
	assert.Equal(t, models.OfferStatusDeclined, offer.Status)
	gateway.AssertExpectations(t)
}

func TestOfferService_CreatePaymentIntent_Success(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	gateway := new(mockGateway)
	svc := newOfferServiceForTest(repo, users, gateway)
	ctx := context.Background()

	recipientID := uuid.New()
	offerID := uuid.New()

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:          offerID,
		SenderID:    uuid.New(),
		RecipientID: recipientID,
		Status:      models.OfferStatusPending,
		AmountCents: 1_500_000,
	}, nil)
	gateway.On("CreateIntent", ctx, int64(1_500_000), "RUB", offerID.String()).
		Return(&payments.Intent{ID: "pi_777", Status: payments.IntentStatusRequiresConfirmation}, nil)
	repo.On("SetPaymentIntent", ctx, offerID, "pi_777").Return(nil)

	offer, err := svc.CreatePaymentIntent(ctx, recipientID, offerID)

	assert.NoError(t, err)
	assert.NotNil(t, offer.PaymentIntentID)
	assert.Equal(t, "pi_777", *offer.PaymentIntentID)
}

func TestOfferService_CreatePaymentIntent_OnlyRecipient(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	gateway := new(mockGateway)
	svc := newOfferServiceForTest(repo, users, gateway)
	ctx := context.Background()

	senderID := uuid.New()
	offerID := uuid.New()

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:          offerID,
		SenderID:    senderID,
		RecipientID: uuid.New(),
		Status:      models.OfferStatusPending,
	}, nil)

	_, err := svc.CreatePaymentIntent(ctx, senderID, offerID)

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestOfferService_CreatePaymentIntent_StaleOfferCancelsIntent(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	gateway := new(mockGateway)
	svc := newOfferServiceForTest(repo, users, gateway)
	ctx := context.Background()

	recipientID := uuid.New()
	offerID := uuid.New()

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:          offerID,
		SenderID:    uuid.New(),
		RecipientID: recipientID,
		Status:      models.OfferStatusPending,
		AmountCents: 100,
	}, nil)
	gateway.On("CreateIntent", ctx, int64(100), "RUB", offerID.String()).
		Return(&payments.Intent{ID: "pi_999"}, nil)
	repo.On("SetPaymentIntent", ctx, offerID, "pi_999").Return(repository.ErrStaleOffer)
	gateway.On("CancelIntent", ctx, "pi_999").Return(&payments.Intent{ID: "pi_999", Status: payments.IntentStatusCancelled}, nil)

	_, err := svc.CreatePaymentIntent(ctx, recipientID, offerID)

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
	gateway.AssertExpectations(t)
}

func TestOfferService_CreatePaymentIntent_NoGateway(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	svc := newOfferServiceForTest(repo, users, nil)
	ctx := context.Background()

	recipientID := uuid.New()
	offerID := uuid.New()

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:          offerID,
		SenderID:    uuid.New(),
		RecipientID: recipientID,
		Status:      models.OfferStatusPending,
	}, nil)

	_, err := svc.CreatePaymentIntent(ctx, recipientID, offerID)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "не настроен")
}

func TestOfferService_Withdraw_FromAccepted(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	svc := newOfferServiceForTest(repo, users, nil)
	ctx := context.Background()

	senderID := uuid.New()
	offerID := uuid.New()

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:          offerID,
		SenderID:    senderID,
		RecipientID: uuid.New(),
		Status:      models.OfferStatusAccepted,
	}, nil)
	repo.On("UpdateStatus", ctx, offerID, models.OfferStatusAccepted, models.OfferStatusWithdrawn).Return(nil)

	offer, err := svc.Withdraw(ctx, senderID, offerID)

	assert.NoError(t, err)
	assert.Equal(t, models.OfferStatusWithdrawn, offer.Status)
}

func TestOfferService_Withdraw_OnlySender(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	svc := newOfferServiceForTest(repo, users, nil)
	ctx := context.Background()

	recipientID := uuid.New()
	offerID := uuid.New()

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:          offerID,
		SenderID:    uuid.New(),
		RecipientID: recipientID,
		Status:      models.OfferStatusPending,
	}, nil)

	_, err := svc.Withdraw(ctx, recipientID, offerID)

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestOfferService_Withdraw_FromCompletionRequestedForbidden(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	svc := newOfferServiceForTest(repo, users, nil)
	ctx := context.Background()

	senderID := uuid.New()
	offerID := uuid.New()

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:          offerID,
		SenderID:    senderID,
		RecipientID: uuid.New(),
		Status:      models.OfferStatusCompletionRequested,
	}, nil)

	_, err := svc.Withdraw(ctx, senderID, offerID)

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestOfferService_RequestCompletion_Success(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	svc := newOfferServiceForTest(repo, users, nil)
	ctx := context.Background()

	senderID := uuid.New()
	offerID := uuid.New()

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:          offerID,
		SenderID:    senderID,
		RecipientID: uuid.New(),
		Status:      models.OfferStatusAccepted,
	}, nil)
	repo.On("UpdateStatus", ctx, offerID, models.OfferStatusAccepted, models.OfferStatusCompletionRequested).Return(nil)

	offer, err := svc.RequestCompletion(ctx, senderID, offerID)

	assert.NoError(t, err)
	assert.Equal(t, models.OfferStatusCompletionRequested, offer.Status)
}

func TestOfferService_RequestCompletion_OnlyFromAccepted(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	svc := newOfferServiceForTest(repo, users, nil)
	ctx := context.Background()

	senderID := uuid.New()
	offerID := uuid.New()

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:          offerID,
		SenderID:    senderID,
		RecipientID: uuid.New(),
		Status:      models.OfferStatusPending,
	}, nil)

	_, err := svc.RequestCompletion(ctx, senderID, offerID)

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestOfferService_RespondToCompletion_Approve(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	svc := newOfferServiceForTest(repo, users, nil)
	ctx := context.Background()

	recipientID := uuid.New()
	offerID := uuid.New()

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:          offerID,
		SenderID:    uuid.New(),
		RecipientID: recipientID,
		Status:      models.OfferStatusCompletionRequested,
	}, nil)
	repo.On("UpdateStatus", ctx, offerID, models.OfferStatusCompletionRequested, models.OfferStatusCompleted).Return(nil)

	offer, err := svc.RespondToCompletion(ctx, recipientID, offerID, true)

	assert.NoError(t, err)
	assert.Equal(t, models.OfferStatusCompleted, offer.Status)
}

func TestOfferService_RespondToCompletion_RejectReturnsToAccepted(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	svc := newOfferServiceForTest(repo, users, nil)
	ctx := context.Background()

	recipientID := uuid.New()
	offerID := uuid.New()
	requestedAt := time.Now()

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:                    offerID,
		SenderID:              uuid.New(),
		RecipientID:           recipientID,
		Status:                models.OfferStatusCompletionRequested,
		CompletionRequestedAt: &requestedAt,
	}, nil)
	repo.On("UpdateStatus", ctx, offerID, models.OfferStatusCompletionRequested, models.OfferStatusAccepted).Return(nil)

	offer, err := svc.RespondToCompletion(ctx, recipientID, offerID, false)

	assert.NoError(t, err)
	assert.Equal(t, models.OfferStatusAccepted, offer.Status)
	assert.Nil(t, offer.CompletionRequestedAt)
}

func TestOfferService_RespondToCompletion_NoPendingRequest(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	svc := newOfferServiceForTest(repo, users, nil)
	ctx := context.Background()

	recipientID := uuid.New()
	offerID := uuid.New()

	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:          offerID,
		SenderID:    uuid.New(),
		RecipientID: recipientID,
		Status:      models.OfferStatusAccepted,
	}, nil)

	_, err := svc.RespondToCompletion(ctx, recipientID, offerID, true)

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestOfferService_Earnings(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	commissions := new(mockCommissionRepo)
	svc := NewOfferService(repo, users, commissions, nil, nil)
	ctx := context.Background()

	actorID := uuid.New()
	repo.On("SumCompletedForSender", ctx, actorID).Return(int64(300_000), nil)
	commissions.On("SummaryForReferrer", ctx, actorID).Return(&models.CommissionSummary{
		TotalPaidCents:    5000,
		TotalPendingCents: 2500,
	}, nil)

	earnings, err := svc.Earnings(ctx, actorID)

	assert.NoError(t, err)
	assert.Equal(t, int64(300_000), earnings.CompletedOffersCents)
	assert.Equal(t, int64(5000), earnings.CommissionPaidCents)
	assert.Equal(t, int64(2500), earnings.CommissionPendingCents)
}

func TestOfferService_GetByID_ThirdPartyForbidden(t *testing.T) {
	repo := new(mockOfferRepo)
	users := new(mockUserDirectory)
	svc := newOfferServiceForTest(repo, users, nil)
	ctx := context.Background()

	offerID := uuid.New()
	repo.On("GetByID", ctx, offerID).Return(&models.Offer{
		ID:          offerID,
		SenderID:    uuid.New(),
		RecipientID: uuid.New(),
		Status:      models.OfferStatusPending,
	}, nil)

	_, err := svc.GetByID(ctx, uuid.New(), offerID)

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}
