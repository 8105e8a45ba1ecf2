package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/realty-backend/internal/models"
	"github.com/ignatzorin/realty-backend/internal/pkg/apperror"
	"github.com/ignatzorin/realty-backend/internal/repository"
)

type mockReferralRepo struct {
	mock.Mock
}

func (m *mockReferralRepo) Create(ctx context.Context, referral *models.Referral) error {
	args := m.Called(ctx, referral)
	if args.Error(0) == nil {
		referral.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockReferralRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Referral, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Referral), args.Error(1)
}

func (m *mockReferralRepo) UpdateStatus(ctx context.Context, id uuid.UUID, fromStatus, toStatus string) error {
	args := m.Called(ctx, id, fromStatus, toStatus)
	return args.Error(0)
}

func (m *mockReferralRepo) ListSent(ctx context.Context, referrerID uuid.UUID) ([]models.ReferralListItem, error) {
	args := m.Called(ctx, referrerID)
	return args.Get(0).([]models.ReferralListItem), args.Error(1)
}

func (m *mockReferralRepo) ListReceived(ctx context.Context, recipientID uuid.UUID) ([]models.ReferralListItem, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).([]models.ReferralListItem), args.Error(1)
}

func (m *mockReferralRepo) ListEligibleClients(ctx context.Context, referrerID uuid.UUID) ([]models.User, error) {
	args := m.Called(ctx, referrerID)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *mockReferralRepo) HasMessaged(ctx context.Context, clientID, referrerID uuid.UUID) (bool, error) {
	args := m.Called(ctx, clientID, referrerID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReferralRepo) CreateLead(ctx context.Context, lead *models.Lead) error {
	args := m.Called(ctx, lead)
	if args.Error(0) == nil {
		lead.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockReferralRepo) GetLeadByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

func (m *mockReferralRepo) ListLeads(ctx context.Context, ownerID uuid.UUID) ([]models.Lead, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]models.Lead), args.Error(1)
}

type mockUserDirectory struct {
	mock.Mock
}

func (m *mockUserDirectory) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func TestReferralService_Create_ClientPath_Success(t *testing.T) {
	repo := new(mockReferralRepo)
	users := new(mockUserDirectory)
	svc := NewReferralService(repo, users)
	ctx := context.Background()

	referrerID := uuid.New()
	recipientID := uuid.New()
	clientID := uuid.New()

	users.On("GetByID", ctx, recipientID).Return(&models.User{ID: recipientID, Role: models.RoleAgent}, nil)
	users.On("GetByID", ctx, clientID).Return(&models.User{ID: clientID, Role: models.RoleCustomer}, nil)
	repo.On("HasMessaged", ctx, clientID, referrerID).Return(true, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Referral")).Return(nil)

	referral, err := svc.Create(ctx, referrerID, CreateReferralInput{
		RecipientID: recipientID,
		ClientID:    &clientID,
		Notes:       "Ищет двушку в новостройке до 12 млн",
	})

	assert.NoError(t, err)
	assert.NotNil(t, referral)
	assert.Equal(t, models.ReferralStatusPendingAcceptance, referral.Status)
	assert.Equal(t, referrerID, referral.ReferrerID)
}

func TestReferralService_Create_RequiresExactlyOneTarget(t *testing.T) {
	repo := new(mockReferralRepo)
	users := new(mockUserDirectory)
	svc := NewReferralService(repo, users)
	ctx := context.Background()

	clientID := uuid.New()
	leadID := uuid.New()

	_, err := svc.Create(ctx, uuid.New(), CreateReferralInput{
		RecipientID: uuid.New(),
		Notes:       "комментарий достаточной длины",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "либо клиента, либо лид")

	_, err = svc.Create(ctx, uuid.New(), CreateReferralInput{
		RecipientID: uuid.New(),
		ClientID:    &clientID,
		LeadID:      &leadID,
		Notes:       "комментарий достаточной длины",
	})
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestReferralService_Create_ClientMustHaveMessaged(t *testing.T) {
	repo := new(mockReferralRepo)
	users := new(mockUserDirectory)
	svc := NewReferralService(repo, users)
	ctx := context.Background()

	referrerID := uuid.New()
	recipientID := uuid.New()
	clientID := uuid.New()

	users.On("GetByID", ctx, recipientID).Return(&models.User{ID: recipientID, Role: models.RoleServiceProvider}, nil)
	users.On("GetByID", ctx, clientID).Return(&models.User{ID: clientID, Role: models.RoleCustomer}, nil)
	repo.On("HasMessaged", ctx, clientID, referrerID).Return(false, nil)

	_, err := svc.Create(ctx, referrerID, CreateReferralInput{
		RecipientID: recipientID,
		ClientID:    &clientID,
		Notes:       "Ищет трёшку в центре города",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "который вам писал")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReferralService_Create_ClientMustBeCustomer(t *testing.T) {
	repo := new(mockReferralRepo)
	users := new(mockUserDirectory)
	svc := NewReferralService(repo, users)
	ctx := context.Background()

	referrerID := uuid.New()
	recipientID := uuid.New()
	clientID := uuid.New()

	users.On("GetByID", ctx, recipientID).Return(&models.User{ID: recipientID, Role: models.RoleAgent}, nil)
	users.On("GetByID", ctx, clientID).Return(&models.User{ID: clientID, Role: models.RoleAgent}, nil)

	_, err := svc.Create(ctx, referrerID, CreateReferralInput{
		RecipientID: recipientID,
		ClientID:    &clientID,
		Notes:       "Ищет трёшку в центре города",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ролью customer")
}

func TestReferralService_Create_RecipientMustBeSpecialist(t *testing.T) {
	repo := new(mockReferralRepo)
	users := new(mockUserDirectory)
	svc := NewReferralService(repo, users)
	ctx := context.Background()

	recipientID := uuid.New()
	clientID := uuid.New()

	users.On("GetByID", ctx, recipientID).Return(&models.User{ID: recipientID, Role: models.RoleCustomer}, nil)

	_, err := svc.Create(ctx, uuid.New(), CreateReferralInput{
		RecipientID: recipientID,
		ClientID:    &clientID,
		Notes:       "Ищет трёшку в центре города",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "специалистом")
}

func TestReferralService_Create_SelfReferralForbidden(t *testing.T) {
	repo := new(mockReferralRepo)
	users := new(mockUserDirectory)
	svc := NewReferralService(repo, users)
	ctx := context.Background()

	actorID := uuid.New()
	clientID := uuid.New()

	_, err := svc.Create(ctx, actorID, CreateReferralInput{
		RecipientID: actorID,
		ClientID:    &clientID,
		Notes:       "комментарий достаточной длины",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "самому себе")
}

func TestReferralService_Create_LeadPath_Success(t *testing.T) {
	repo := new(mockReferralRepo)
	users := new(mockUserDirectory)
	svc := NewReferralService(repo, users)
	ctx := context.Background()

	referrerID := uuid.New()
	recipientID := uuid.New()
	leadID := uuid.New()

	users.On("GetByID", ctx, recipientID).Return(&models.User{ID: recipientID, Role: models.RoleAgent}, nil)
	repo.On("GetLeadByID", ctx, leadID).Return(&models.Lead{ID: leadID, OwnerID: referrerID}, nil)
	repo.On("Create", ctx, mock.AnythingOfType("*models.Referral")).Return(nil)

	referral, err := svc.Create(ctx, referrerID, CreateReferralInput{
		RecipientID: recipientID,
		LeadID:      &leadID,
		Notes:       "лид",
	})

	assert.NoError(t, err)
	assert.NotNil(t, referral)
	assert.Equal(t, &leadID, referral.LeadID)
}

func TestReferralService_Create_LeadOwnedByAnother(t *testing.T) {
	repo := new(mockReferralRepo)
	users := new(mockUserDirectory)
	svc := NewReferralService(repo, users)
	ctx := context.Background()

	recipientID := uuid.New()
	leadID := uuid.New()

	users.On("GetByID", ctx, recipientID).Return(&models.User{ID: recipientID, Role: models.RoleAgent}, nil)
	repo.On("GetLeadByID", ctx, leadID).Return(&models.Lead{ID: leadID, OwnerID: uuid.New()}, nil)

	_, err := svc.Create(ctx, uuid.New(), CreateReferralInput{
		RecipientID: recipientID,
		LeadID:      &leadID,
		Notes:       "лид",
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestReferralService_Accept_Success(t *testing.T) {
	repo := new(mockReferralRepo)
	users := new(mockUserDirectory)
	svc := NewReferralService(repo, users)
	ctx := context.Background()

	recipientID := uuid.New()
	referralID := uuid.New()
	clientID := uuid.New()

	repo.On("GetByID", ctx, referralID).Return(&models.Referral{
		ID:          referralID,
		ReferrerID:  uuid.New(),
		RecipientID: recipientID,
		ClientID:    &clientID,
		Status:      models.ReferralStatusPendingAcceptance,
	}, nil)
	repo.On("UpdateStatus", ctx, referralID,
		models.ReferralStatusPendingAcceptance, models.ReferralStatusAccepted).Return(nil)

	referral, err := svc.Accept(ctx, recipientID, referralID)

	assert.NoError(t, err)
	assert.Equal(t, models.ReferralStatusAccepted, referral.Status)
}

func TestReferralService_Accept_OnlyRecipient(t *testing.T) {
	repo := new(mockReferralRepo)
	users := new(mockUserDirectory)
	svc := NewReferralService(repo, users)
	ctx := context.Background()

	referralID := uuid.New()
	clientID := uuid.New()

	repo.On("GetByID", ctx, referralID).Return(&models.Referral{
		ID:          referralID,
		RecipientID: uuid.New(),
		ClientID:    &clientID,
		Status:      models.ReferralStatusPendingAcceptance,
	}, nil)

	_, err := svc.Accept(ctx, uuid.New(), referralID)

	assert.Error(t, err)
	assert.True(t, apperror.IsForbidden(err))
}

func TestReferralService_Accept_AlreadyProcessed(t *testing.T) {
	repo := new(mockReferralRepo)
	users := new(mockUserDirectory)
	svc := NewReferralService(repo, users)
	ctx := context.Background()

	recipientID := uuid.New()
	referralID := uuid.New()
	clientID := uuid.New()

	repo.On("GetByID", ctx, referralID).Return(&models.Referral{
		ID:          referralID,
		RecipientID: recipientID,
		ClientID:    &clientID,
		Status:      models.ReferralStatusAccepted,
	}, nil)

	_, err := svc.Accept(ctx, recipientID, referralID)

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestReferralService_Accept_StaleUpdate(t *testing.T) {
	repo := new(mockReferralRepo)
	users := new(mockUserDirectory)
	svc := NewReferralService(repo, users)
	ctx := context.Background()

	recipientID := uuid.New()
	referralID := uuid.New()
	clientID := uuid.New()

	repo.On("GetByID", ctx, referralID).Return(&models.Referral{
		ID:          referralID,
		RecipientID: recipientID,
		ClientID:    &clientID,
		Status:      models.ReferralStatusPendingAcceptance,
	}, nil)
	repo.On("UpdateStatus", ctx, referralID,
		models.ReferralStatusPendingAcceptance, models.ReferralStatusAccepted).Return(repository.ErrStaleReferral)

	_, err := svc.Accept(ctx, recipientID, referralID)

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestReferralService_Accept_NotFound(t *testing.T) {
	repo := new(mockReferralRepo)
	users := new(mockUserDirectory)
	svc := NewReferralService(repo, users)
	ctx := context.Background()

	referralID := uuid.New()
	repo.On("GetByID", ctx, referralID).Return(nil, repository.ErrReferralNotFound)

	_, err := svc.Accept(ctx, uuid.New(), referralID)

	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestReferralService_CreateLead_RequiresName(t *testing.T) {
	repo := new(mockReferralRepo)
	users := new(mockUserDirectory)
	svc := NewReferralService(repo, users)
	ctx := context.Background()

	_, err := svc.CreateLead(ctx, uuid.New(), "", nil, nil, nil)
	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestReferralService_CreateLead_Success(t *testing.T) {
	repo := new(mockReferralRepo)
	users := new(mockUserDirectory)
	svc := NewReferralService(repo, users)
	ctx := context.Background()

	ownerID := uuid.New()
	repo.On("CreateLead", ctx, mock.AnythingOfType("*models.Lead")).Return(nil)

	email := "ivan@example.com"
	lead, err := svc.CreateLead(ctx, ownerID, "Иван Петров", &email, nil, nil)

	assert.NoError(t, err)
	assert.NotNil(t, lead)
	assert.Equal(t, ownerID, lead.OwnerID)
}
