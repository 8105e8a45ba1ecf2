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

// Ошибки уровня репозитория.
var (
	ErrProjectNotFound = errors.New("project not found")
	ErrPledgeNotFound  = errors.New("pledge not found")
)

// CrowdfundingRepository отвечает за проекты, заявки и голоса.
type CrowdfundingRepository struct {
	db *sqlx.DB
}

// NewCrowdfundingRepository создаёт новый экземпляр.
func NewCrowdfundingRepository(db *sqlx.DB) *CrowdfundingRepository {
	return &CrowdfundingRepository{db: db}
}

// CreateProject сохраняет новый проект.
func (r *CrowdfundingRepository) CreateProject(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO crowdfunding_projects
			(creator_id, title, description, category, target_amount_cents, min_investment_cents, allocation, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, raised_amount_cents, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		project.CreatorID, project.Title, project.Description, project.Category,
		project.TargetAmountCents, project.MinInvestmentCents, project.Allocation, project.Status,
	).Scan(&project.ID, &project.RaisedAmountCents, &project.CreatedAt, &project.UpdatedAt); err != nil {
		return fmt.Errorf("crowdfunding repository: create project %w", err)
	}

	return nil
}

// GetProject возвращает проект по идентификатору.
func (r *CrowdfundingRepository) GetProject(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	if err := r.db.GetContext(ctx, &project, `SELECT * FROM crowdfunding_projects WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("crowdfunding repository: get project %w", err)
	}
	return &project, nil
}

// ListProjects возвращает проекты, опционально фильтруя по статусу.
func (r *CrowdfundingRepository) ListProjects(ctx context.Context, status string, limit, offset int) ([]models.Project, error) {
	query := `SELECT * FROM crowdfunding_projects`
	args := []interface{}{}
	argIndex := 1

	if status != "" {
		query += fmt.Sprintf(" WHERE status = $%d", argIndex)
		args = append(args, status)
		argIndex++
	}

	query += " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	var projects []models.Project
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, fmt.Errorf("crowdfunding repository: list projects %w", err)
	}
	return projects, nil
}

// UpsertPledge создаёт или заменяет заявку пары (проект, пользователь).
// Повторная заявка перезаписывает сумму и возвращает статус в pledged.
func (r *CrowdfundingRepository) UpsertPledge(ctx context.Context, pledge *models.Pledge) error {
	query := `
		INSERT INTO pledges (project_id, user_id, amount_cents, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (project_id, user_id) DO UPDATE
		SET amount_cents = EXCLUDED.amount_cents,
			status = EXCLUDED.status,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		pledge.ProjectID, pledge.UserID, pledge.AmountCents, pledge.Status,
	).Scan(&pledge.ID, &pledge.CreatedAt, &pledge.UpdatedAt); err != nil {
		return fmt.Errorf("crowdfunding repository: upsert pledge %w", err)
	}

	return nil
}

// GetPledge возвращает заявку пары (проект, пользователь).
func (r *CrowdfundingRepository) GetPledge(ctx context.Context, projectID, userID uuid.UUID) (*models.Pledge, error) {
	var pledge models.Pledge
	query := `SELECT * FROM pledges WHERE project_id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &pledge, query, projectID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPledgeNotFound
		}
		return nil, fmt.Errorf("crowdfunding repository: get pledge %w", err)
	}
	return &pledge, nil
}

// CancelPledge мягко отменяет заявку: строка сохраняется со статусом cancelled.
func (r *CrowdfundingRepository) CancelPledge(ctx context.Context, projectID, userID uuid.UUID) error {
	result, err := r.db.ExecContext(
		ctx,
		`UPDATE pledges SET status = $1, updated_at = NOW() WHERE project_id = $2 AND user_id = $3`,
		models.PledgeStatusCancelled, projectID, userID,
	)
	if err != nil {
		return fmt.Errorf("crowdfunding repository: cancel pledge %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("crowdfunding repository: rows affected %w", err)
	}
	if affected == 0 {
		return ErrPledgeNotFound
	}

	return nil
}

// UpsertVote создаёт или заменяет голос пары (проект, пользователь).
func (r *CrowdfundingRepository) UpsertVote(ctx context.Context, vote *models.Vote) error {
	query := `
		INSERT INTO project_votes (project_id, user_id, vote_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (project_id, user_id) DO UPDATE
		SET vote_type = EXCLUDED.vote_type
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		vote.ProjectID, vote.UserID, vote.VoteType,
	).Scan(&vote.ID, &vote.CreatedAt); err != nil {
		return fmt.Errorf("crowdfunding repository: upsert vote %w", err)
	}

	return nil
}

// DeleteVote удаляет голос пары (проект, пользователь).
func (r *CrowdfundingRepository) DeleteVote(ctx context.Context, projectID, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(
		ctx,
		`DELETE FROM project_votes WHERE project_id = $1 AND user_id = $2`,
		projectID, userID,
	); err != nil {
		return fmt.Errorf("crowdfunding repository: delete vote %w", err)
	}
	return nil
}

// GetSummary возвращает агрегаты проекта одним запросом: сумму действующих
// заявок, число инвесторов и голоса по типам. Счётчики вычисляются на чтении,
// денормализованные поля не поддерживаются.
func (r *CrowdfundingRepository) GetSummary(ctx context.Context, projectID uuid.UUID) (*models.ProjectSummary, error) {
	var summary models.ProjectSummary
	query := `
		SELECT
			COALESCE((SELECT SUM(amount_cents) FROM pledges
				WHERE project_id = $1 AND status IN ($2, $3)), 0) AS total_pledged_cents,
			COALESCE((SELECT COUNT(*) FROM pledges
				WHERE project_id = $1 AND status IN ($2, $3)), 0) AS backer_count,
			COALESCE((SELECT COUNT(*) FROM project_votes WHERE project_id = $1 AND vote_type = 'up'), 0) AS votes_up,
			COALESCE((SELECT COUNT(*) FROM project_votes WHERE project_id = $1 AND vote_type = 'down'), 0) AS votes_down,
			COALESCE((SELECT COUNT(*) FROM project_votes WHERE project_id = $1 AND vote_type = 'interested'), 0) AS votes_interested
	`
	if err := r.db.GetContext(ctx, &summary, query, projectID,
		models.PledgeStatusPledged, models.PledgeStatusConfirmed); err != nil {
		return nil, fmt.Errorf("crowdfunding repository: get summary %w", err)
	}

	summary.ProjectID = projectID
	return &summary, nil
}
