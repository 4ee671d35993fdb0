// Package canon declares the repository contract for immutable canon
// entries.
package canon

import (
	"context"

	"github.com/avelkins/canonkeeper/internal/server/models"
)

type Repository interface {
	// Create inserts a canon entry. The store enforces at most one entry
	// per submission; a second insert for the same submission yields
	// common.ErrorConflict regardless of any application-level pre-check.
	Create(ctx context.Context, entry *models.CanonEntry) (*models.CanonEntry, error)
	GetBySubmission(ctx context.Context, submissionID string) (*models.CanonEntry, error)
	// ListByProject returns a project's canon in insertion order.
	ListByProject(ctx context.Context, projectID string) ([]models.CanonEntry, error)
}
