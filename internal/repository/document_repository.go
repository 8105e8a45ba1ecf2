package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/realty-backend/internal/models"
	"github.com/ignatzorin/realty-backend/internal/repository/common"
)

// ErrDocumentNotFound возвращается, когда документ не найден.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentRepository отвечает за метаданные загруженных документов.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository создаёт экземпляр репозитория.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create сохраняет метаданные документа.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (user_id, file_path, file_type, file_size, is_public)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		doc.UserID, doc.FilePath, doc.FileType, doc.FileSize, doc.IsPublic,
	).Scan(&doc.ID, &doc.CreatedAt); err != nil {
		return fmt.Errorf("document repository: create %w", err)
	}

	return nil
}

// GetByID возвращает документ по идентификатору.
func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	return common.GetByID[models.Document](ctx, r.db, "documents", id, ErrDocumentNotFound)
}

// ListByUser возвращает документы пользователя.
func (r *DocumentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Document, error) {
	var docs []models.Document
	query := `SELECT * FROM documents WHERE user_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &docs, query, userID); err != nil {
		return nil, fmt.Errorf("document repository: list by user %w", err)
	}
	return docs, nil
}

// Delete удаляет метаданные документа.
func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("document repository: delete %w", err)
	}
	return nil
}
