package canon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avelkins/canonkeeper/internal/common"
	"github.com/avelkins/canonkeeper/internal/dbx"
	"github.com/avelkins/canonkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.CanonEntry) (*models.CanonEntry, error) {

	query :=
		`INSERT INTO canon_entries (project_id, submission_id, added_by_id, notes)
         VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		entry.ProjectID, entry.SubmissionID, entry.AddedByID, entry.Notes).
		Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return entry, nil
}

func (r *PostgresRepository) GetBySubmission(ctx context.Context, submissionID string) (*models.CanonEntry, error) {
	query :=
		`SELECT id, project_id, submission_id, added_by_id, notes, created_at FROM canon_entries
		 WHERE submission_id = $1
		 `

	e := &models.CanonEntry{}
	err := r.db.QueryRowContext(ctx, query, submissionID).
		Scan(&e.ID, &e.ProjectID, &e.SubmissionID, &e.AddedByID, &e.Notes, &e.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return e, nil
}

func (r *PostgresRepository) ListByProject(ctx context.Context, projectID string) ([]models.CanonEntry, error) {
	query :=
		`SELECT id, project_id, submission_id, added_by_id, notes, created_at FROM canon_entries
		 WHERE project_id = $1
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.CanonEntry
	for rows.Next() {
		var e models.CanonEntry
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.SubmissionID, &e.AddedByID, &e.Notes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
