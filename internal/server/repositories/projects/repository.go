// Package projects declares the repository contract for projects and
// their owner relations.
package projects

import (
	"context"

	"github.com/avelkins/canonkeeper/internal/server/models"
)

type Repository interface {
	// Create stores a new project. A duplicate slug yields
	// common.ErrorConflict.
	Create(ctx context.Context, project *models.Project) (*models.Project, error)
	GetBySlug(ctx context.Context, slug string) (*models.Project, error)
	GetByID(ctx context.Context, id string) (*models.Project, error)
	// List returns the most recently created projects, newest first.
	List(ctx context.Context, limit int) ([]*models.Project, error)
	// AddOwner inserts an owner relation. Adding the same (project, user)
	// pair twice yields common.ErrorConflict.
	AddOwner(ctx context.Context, owner *models.ProjectOwner) error
	ListOwners(ctx context.Context, projectID string) ([]models.ProjectOwner, error)
}
