package projects

import (
	"context"
	"database/sql"
	"encoding/json"
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

func (r *PostgresRepository) Create(ctx context.Context, project *models.Project) (*models.Project, error) {

	tags, err := json.Marshal(project.Tags)
	if err != nil {
		return nil, fmt.Errorf("tags marshal error: %w", err)
	}

	query :=
		`INSERT INTO projects (slug, title, description, tags, visibility)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		project.Slug, project.Title, project.Description, tags, project.Visibility).
		Scan(&project.ID, &project.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return project, nil
}

func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	query :=
		`SELECT id, slug, title, description, tags, visibility, created_at FROM projects
		 WHERE slug = $1
		 `

	return scanProject(r.db.QueryRowContext(ctx, query, slug))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	query :=
		`SELECT id, slug, title, description, tags, visibility, created_at FROM projects
		 WHERE id = $1
		 `

	return scanProject(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]*models.Project, error) {
	query :=
		`SELECT id, slug, title, description, tags, visibility, created_at FROM projects
		 ORDER BY created_at DESC
		 LIMIT $1
		 `

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Project
	for rows.Next() {
		p := &models.Project{}
		var tags []byte
		if err := rows.Scan(&p.ID, &p.Slug, &p.Title, &p.Description, &tags, &p.Visibility, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if err := json.Unmarshal(tags, &p.Tags); err != nil {
			return nil, fmt.Errorf("tags unmarshal error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) AddOwner(ctx context.Context, owner *models.ProjectOwner) error {
	query :=
		`INSERT INTO project_owners (project_id, user_id, role)
         VALUES ($1, $2, $3)
		 `

	_, err := r.db.ExecContext(ctx, query, owner.ProjectID, owner.UserID, owner.Role)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorConflict
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) ListOwners(ctx context.Context, projectID string) ([]models.ProjectOwner, error) {
	query :=
		`SELECT project_id, user_id, role FROM project_owners
		 WHERE project_id = $1
		 `

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.ProjectOwner
	for rows.Next() {
		var o models.ProjectOwner
		if err := rows.Scan(&o.ProjectID, &o.UserID, &o.Role); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func scanProject(row *sql.Row) (*models.Project, error) {
	p := &models.Project{}
	var tags []byte
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Description, &tags, &p.Visibility, &p.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(tags, &p.Tags); err != nil {
		return nil, fmt.Errorf("tags unmarshal error: %w", err)
	}

	return p, nil
}
