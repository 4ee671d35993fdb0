// Package submissions declares the repository contract for story
// submissions.
package submissions

import (
	"context"

	"github.com/avelkins/canonkeeper/internal/server/models"
)

// Filter narrows ListByProject results. Zero values mean "no filter".
type Filter struct {
	Status   models.SubmissionStatus
	AuthorID string
}

type Repository interface {
	Create(ctx context.Context, submission *models.Submission) (*models.Submission, error)
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	// UpdateContent replaces title/content and bumps updated_at.
	UpdateContent(ctx context.Context, id, title, content string) error
	// UpdateStatus performs a compare-and-swap: the status is written only
	// if the current status equals from. It reports whether a row changed,
	// which is how callers distinguish a lost race or wrong state from
	// success.
	UpdateStatus(ctx context.Context, id string, from, to models.SubmissionStatus) (bool, error)
	// SetStatus writes the status unconditionally. Used when the new
	// status is a pure function of the review decision, independent of
	// the current value.
	SetStatus(ctx context.Context, id string, to models.SubmissionStatus) error
	ListByProject(ctx context.Context, projectID string, filter Filter) ([]*models.Submission, error)
}
