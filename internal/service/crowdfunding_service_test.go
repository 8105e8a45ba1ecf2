package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ignatzorin/realty-backend/internal/models"
	"github.com/ignatzorin/realty-backend/internal/pkg/apperror"
	"github.com/ignatzorin/realty-backend/internal/repository"
)

type mockCrowdfundingRepo struct {
	mock.Mock
}

func (m *mockCrowdfundingRepo) CreateProject(ctx context.Context, project *models.Project) error {
	args := m.Called(ctx, project)
	if args.Error(0) == nil {
		project.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockCrowdfundingRepo) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *mockCrowdfundingRepo) ListProjects(ctx context.Context, status string, limit, offset int) ([]models.Project, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]models.Project), args.Error(1)
}

func (m *mockCrowdfundingRepo) UpsertPledge(ctx context.Context, pledge *models.Pledge) error {
	args := m.Called(ctx, pledge)
	if args.Error(0) == nil {
		pledge.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockCrowdfundingRepo) GetPledge(ctx context.Context, projectID, userID uuid.UUID) (*models.Pledge, error) {
	args := m.Called(ctx, projectID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Pledge), args.Error(1)
}

func (m *mockCrowdfundingRepo) CancelPledge(ctx context.Context, projectID, userID uuid.UUID) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func (m *mockCrowdfundingRepo) UpsertVote(ctx context.Context, vote *models.Vote) error {
	args := m.Called(ctx, vote)
	if args.Error(0) == nil {
		vote.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockCrowdfundingRepo) DeleteVote(ctx context.Context, projectID, userID uuid.UUID) error {
	args := m.Called(ctx, projectID, userID)
	return args.Error(0)
}

func (m *mockCrowdfundingRepo) GetSummary(ctx context.Context, projectID uuid.UUID) (*models.ProjectSummary, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProjectSummary), args.Error(1)
}

func TestCrowdfundingService_CreateProject_Success(t *testing.T) {
	repo := new(mockCrowdfundingRepo)
	svc := NewCrowdfundingService(repo)
	ctx := context.Background()

	creatorID := uuid.New()
	repo.On("CreateProject", ctx, mock.AnythingOfType("*models.Project")).Return(nil)

	project, err := svc.CreateProject(ctx, creatorID, CreateProjectInput{
		Title:              "ЖК Северная Долина, корпус 3",
		Description:        "Строительство жилого корпуса на 240 квартир",
		Category:           "residential",
		TargetAmountCents:  50_000_000_00,
		MinInvestmentCents: 100_000_00,
		Allocation:         json.RawMessage(`{"construction": 80, "marketing": 20}`),
	})

	assert.NoError(t, err)
	assert.NotNil(t, project)
	assert.Equal(t, models.ProjectStatusActive, project.Status)
	assert.Equal(t, creatorID, project.CreatorID)
}

func TestCrowdfundingService_CreateProject_MinAboveTarget(t *testing.T) {
	repo := new(mockCrowdfundingRepo)
	svc := NewCrowdfundingService(repo)
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, uuid.New(), CreateProjectInput{
		Title:              "ЖК Северная Долина",
		Description:        "Описание проекта",
		TargetAmountCents:  100,
		MinInvestmentCents: 200,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "не может превышать целевую сумму")
}

func TestCrowdfundingService_CreateProject_InvalidAllocation(t *testing.T) {
	repo := new(mockCrowdfundingRepo)
	svc := NewCrowdfundingService(repo)
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, uuid.New(), CreateProjectInput{
		Title:             "ЖК Северная Долина",
		Description:       "Описание проекта",
		TargetAmountCents: 1000,
		Allocation:        json.RawMessage(`{не json`),
	})

	assert.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestCrowdfundingService_Pledge_Success(t *testing.T) {
	repo := new(mockCrowdfundingRepo)
	svc := NewCrowdfundingService(repo)
	ctx := context.Background()

	userID := uuid.New()
	projectID := uuid.New()

	repo.On("GetProject", ctx, projectID).Return(&models.Project{
		ID:                 projectID,
		Status:             models.ProjectStatusActive,
		MinInvestmentCents: 100_000_00,
	}, nil)
	repo.On("UpsertPledge", ctx, mock.MatchedBy(func(p *models.Pledge) bool {
		return p.ProjectID == projectID && p.UserID == userID && p.Status == models.PledgeStatusPledged
	})).Return(nil)

	pledge, err := svc.Pledge(ctx, userID, projectID, 250_000_00)

	assert.NoError(t, err)
	assert.NotNil(t, pledge)
	assert.Equal(t, int64(250_000_00), pledge.AmountCents)
}

func TestCrowdfundingService_Pledge_BelowMinimum(t *testing.T) {
	repo := new(mockCrowdfundingRepo)
	svc := NewCrowdfundingService(repo)
	ctx := context.Background()

	projectID := uuid.New()
	repo.On("GetProject", ctx, projectID).Return(&models.Project{
		ID:                 projectID,
		Status:             models.ProjectStatusActive,
		MinInvestmentCents: 100_000_00,
	}, nil)

	_, err := svc.Pledge(ctx, uuid.New(), projectID, 50_000_00)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "меньше минимальной инвестиции")
	repo.AssertNotCalled(t, "UpsertPledge", mock.Anything, mock.Anything)
}

func TestCrowdfundingService_Pledge_InactiveProject(t *testing.T) {
	repo := new(mockCrowdfundingRepo)
	svc := NewCrowdfundingService(repo)
	ctx := context.Background()

	projectID := uuid.New()
	repo.On("GetProject", ctx, projectID).Return(&models.Project{
		ID:     projectID,
		Status: models.ProjectStatusClosed,
	}, nil)

	_, err := svc.Pledge(ctx, uuid.New(), projectID, 100)

	assert.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestCrowdfundingService_Pledge_ProjectNotFound(t *testing.T) {
	repo := new(mockCrowdfundingRepo)
	svc := NewCrowdfundingService(repo)
	ctx := context.Background()

	projectID := uuid.New()
	repo.On("GetProject", ctx, projectID).Return(nil, repository.ErrProjectNotFound)

	_, err := svc.Pledge(ctx, uuid.New(), projectID, 100)

	assert.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCrowdfundingService_Vote_InvalidType(t *testing.T) {
	repo := new(mockCrowdfundingRepo)
	svc := NewCrowdfundingService(repo)
	ctx := context.Background()

	_, err := svc.Vote(ctx, uuid.New(), uuid.New(), "maybe")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "недопустимый тип голоса")
}

func TestCrowdfundingService_Vote_Success(t *testing.T) {
	repo := new(mockCrowdfundingRepo)
	svc := NewCrowdfundingService(repo)
	ctx := context.Background()

	userID := uuid.New()
	projectID := uuid.New()

	repo.On("GetProject", ctx, projectID).Return(&models.Project{ID: projectID, Status: models.ProjectStatusActive}, nil)
	repo.On("UpsertVote", ctx, mock.MatchedBy(func(v *models.Vote) bool {
		return v.VoteType == models.VoteTypeInterested && v.UserID == userID
	})).Return(nil)

	vote, err := svc.Vote(ctx, userID, projectID, models.VoteTypeInterested)

	assert.NoError(t, err)
	assert.NotNil(t, vote)
}

func TestCrowdfundingService_RemoveVote(t *testing.T) {
	repo := new(mockCrowdfundingRepo)
	svc := NewCrowdfundingService(repo)
	ctx := context.Background()

	userID := uuid.New()
	projectID := uuid.New()

	repo.On("DeleteVote", ctx, projectID, userID).Return(nil)

	err := svc.RemoveVote(ctx, userID, projectID)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCrowdfundingService_Summary(t *testing.T) {
	repo := new(mockCrowdfundingRepo)
	svc := NewCrowdfundingService(repo)
	ctx := context.Background()

	projectID := uuid.New()
	repo.On("GetProject", ctx, projectID).Return(&models.Project{ID: projectID, Status: models.ProjectStatusActive}, nil)
	repo.On("GetSummary", ctx, projectID).Return(&models.ProjectSummary{
		TotalPledgedCents: 350_000_00,
		BackerCount:       3,
		VotesUp:           5,
		VotesDown:         1,
		VotesInterested:   2,
	}, nil)

	summary, err := svc.Summary(ctx, projectID)

	assert.NoError(t, err)
	assert.Equal(t, projectID, summary.ProjectID)
	assert.Equal(t, int64(350_000_00), summary.TotalPledgedCents)
	assert.Equal(t, 3, summary.BackerCount)
}

func TestCrowdfundingService_ListProjects_ClampsLimit(t *testing.T) {
	repo := new(mockCrowdfundingRepo)
	svc := NewCrowdfundingService(repo)
	ctx := context.Background()

	repo.On("ListProjects", ctx, "", 20, 0).Return([]models.Project{}, nil)

	_, err := svc.ListProjects(ctx, "", 0, -5)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
