package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/ignatzorin/realty-backend/internal/models"
	"github.com/ignatzorin/realty-backend/internal/pkg/apperror"
	"github.com/ignatzorin/realty-backend/internal/repository"
	"github.com/ignatzorin/realty-backend/internal/validation"
)

// CrowdfundingRepository описывает зависимости сервиса краудфандинга.
type CrowdfundingRepository interface {
	CreateProject(ctx context.Context, project *models.Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListProjects(ctx context.Context, status string, limit, offset int) ([]models.Project, error)
	UpsertPledge(ctx context.Context, pledge *models.Pledge) error
	GetPledge(ctx context.Context, projectID, userID uuid.UUID) (*models.Pledge, error)
	CancelPledge(ctx context.Context, projectID, userID uuid.UUID) error
	UpsertVote(ctx context.Context, vote *models.Vote) error
	DeleteVote(ctx context.Context, projectID, userID uuid.UUID) error
	GetSummary(ctx context.Context, projectID uuid.UUID) (*models.ProjectSummary, error)
}

// CrowdfundingService содержит бизнес-логику краудфандинговых проектов:
// заявки на инвестиции и голоса с агрегацией на чтении.
type CrowdfundingService struct {
	repo CrowdfundingRepository
}

// NewCrowdfundingService создаёт сервис краудфандинга.
func NewCrowdfundingService(repo CrowdfundingRepository) *CrowdfundingService {
	return &CrowdfundingService{repo: repo}
}

// CreateProjectInput данные для создания проекта.
type CreateProjectInput struct {
	Title              string
	Description        string
	Category           string
	TargetAmountCents  int64
	MinInvestmentCents int64
	Allocation         json.RawMessage
}

// CreateProject создаёт проект в статусе active.
func (s *CrowdfundingService) CreateProject(ctx context.Context, actorID uuid.UUID, in CreateProjectInput) (*models.Project, error) {
	if err := validation.ValidateLength("название проекта", in.Title, 3, 200); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateNonEmpty("описание проекта", in.Description); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateAmountCents("целевая сумма", in.TargetAmountCents, false); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateAmountCents("минимальная инвестиция", in.MinInvestmentCents, true); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if in.MinInvestmentCents > in.TargetAmountCents {
		return nil, apperror.New(apperror.ErrCodeValidation, "минимальная инвестиция не может превышать целевую сумму")
	}
	if len(in.Allocation) > 0 && !json.Valid(in.Allocation) {
		return nil, apperror.New(apperror.ErrCodeValidation, "распределение средств должно быть корректным JSON")
	}

	project := &models.Project{
		CreatorID:          actorID,
		Title:              in.Title,
		Description:        in.Description,
		Category:           in.Category,
		TargetAmountCents:  in.TargetAmountCents,
		MinInvestmentCents: in.MinInvestmentCents,
		Allocation:         in.Allocation,
		Status:             models.ProjectStatusActive,
	}

	if err := s.repo.CreateProject(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// GetProject возвращает проект по идентификатору.
func (s *CrowdfundingService) GetProject(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	project, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, apperror.ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// ListProjects возвращает страницу проектов, опционально по статусу.
func (s *CrowdfundingService) ListProjects(ctx context.Context, status string, limit, offset int) ([]models.Project, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListProjects(ctx, status, limit, offset)
}

// Pledge создаёт или заменяет заявку пользователя на инвестицию в проект.
// Повторная заявка перезаписывает сумму и возвращает заявку в статус pledged.
func (s *CrowdfundingService) Pledge(ctx context.Context, actorID, projectID uuid.UUID, amountCents int64) (*models.Pledge, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.Status != models.ProjectStatusActive {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "проект не принимает заявки")
	}
	if err := validation.ValidateAmountCents("сумма заявки", amountCents, false); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}
	if amountCents < project.MinInvestmentCents {
		return nil, apperror.New(apperror.ErrCodeValidation,
			"сумма заявки меньше минимальной инвестиции "+validation.FormatCents(project.MinInvestmentCents))
	}

	pledge := &models.Pledge{
		ProjectID:   projectID,
		UserID:      actorID,
		AmountCents: amountCents,
		Status:      models.PledgeStatusPledged,
	}

	if err := s.repo.UpsertPledge(ctx, pledge); err != nil {
		return nil, err
	}

	return pledge, nil
}

// GetPledge возвращает заявку пользователя по проекту.
func (s *CrowdfundingService) GetPledge(ctx context.Context, actorID, projectID uuid.UUID) (*models.Pledge, error) {
	pledge, err := s.repo.GetPledge(ctx, projectID, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrPledgeNotFound) {
			return nil, apperror.New(apperror.ErrCodeNotFound, "заявка не найдена")
		}
		return nil, err
	}
	return pledge, nil
}

// CancelPledge отменяет заявку пользователя. Отменённая заявка не учитывается
// в агрегатах, но повторная заявка на тот же проект возможна.
func (s *CrowdfundingService) CancelPledge(ctx context.Context, actorID, projectID uuid.UUID) error {
	if err := s.repo.CancelPledge(ctx, projectID, actorID); err != nil {
		if errors.Is(err, repository.ErrPledgeNotFound) {
			return apperror.New(apperror.ErrCodeNotFound, "заявка не найдена")
		}
		return err
	}
	return nil
}

// Vote создаёт или заменяет голос пользователя за проект.
func (s *CrowdfundingService) Vote(ctx context.Context, actorID, projectID uuid.UUID, voteType string) (*models.Vote, error) {
	if _, ok := models.ValidVoteTypes[voteType]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, "недопустимый тип голоса")
	}

	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	vote := &models.Vote{
		ProjectID: projectID,
		UserID:    actorID,
		VoteType:  voteType,
	}

	if err := s.repo.UpsertVote(ctx, vote); err != nil {
		return nil, err
	}

	return vote, nil
}

// RemoveVote удаляет голос пользователя за проект, если он был.
func (s *CrowdfundingService) RemoveVote(ctx context.Context, actorID, projectID uuid.UUID) error {
	return s.repo.DeleteVote(ctx, projectID, actorID)
}

// Summary возвращает агрегаты по проекту: сумма активных заявок,
// число инвесторов и голоса по типам. Считается на чтении.
func (s *CrowdfundingService) Summary(ctx context.Context, projectID uuid.UUID) (*models.ProjectSummary, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	summary, err := s.repo.GetSummary(ctx, projectID)
	if err != nil {
		return nil, err
	}
	summary.ProjectID = projectID
	return summary, nil
}
