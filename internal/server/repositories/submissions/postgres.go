package submissions

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

func (r *PostgresRepository) Create(ctx context.Context, submission *models.Submission) (*models.Submission, error) {

	query :=
		`INSERT INTO submissions (project_id, author_id, title, content, status)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		submission.ProjectID, submission.AuthorID, submission.Title, submission.Content, submission.Status).
		Scan(&submission.ID, &submission.CreatedAt, &submission.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return submission, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	query :=
		`SELECT id, project_id, author_id, title, content, status, created_at, updated_at
		 FROM submissions
		 WHERE id = $1
		 `

	s := &models.Submission{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&s.ID, &s.ProjectID, &s.AuthorID, &s.Title, &s.Content, &s.Status, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) UpdateContent(ctx context.Context, id, title, content string) error {
	query :=
		`UPDATE submissions SET title = $1, content = $2, updated_at = now()
		 WHERE id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, title, content, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, from, to models.SubmissionStatus) (bool, error) {
	query :=
		`UPDATE submissions SET status = $1, updated_at = now()
		 WHERE id = $2 AND status = $3
		 `

	res, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return affected > 0, nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id string, to models.SubmissionStatus) error {
	query :=
		`UPDATE submissions SET status = $1, updated_at = now()
		 WHERE id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, to, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}

func (r *PostgresRepository) ListByProject(ctx context.Context, projectID string, filter Filter) ([]*models.Submission, error) {
	query :=
		`SELECT id, project_id, author_id, title, content, status, created_at, updated_at
		 FROM submissions
		 WHERE project_id = $1
		   AND ($2 = '' OR status = $2)
		   AND ($3 = '' OR author_id::text = $3)
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, projectID, string(filter.Status), filter.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Submission
	for rows.Next() {
		s := &models.Submission{}
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.AuthorID, &s.Title, &s.Content, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
