// Package reviews declares the repository contract for the append-only
// review log.
package reviews

import (
	"context"

	"github.com/avelkins/canonkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	// ListBySubmission returns reviews in insertion (chronological) order.
	ListBySubmission(ctx context.Context, submissionID string) ([]models.Review, error)
}
