package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avelkins/canonkeeper/internal/common"
	"github.com/avelkins/canonkeeper/internal/dbx"
	"github.com/avelkins/canonkeeper/internal/server/models"
	"github.com/avelkins/canonkeeper/internal/server/repositories/repomanager"
)

// ReviewService appends reviews and recomputes the submission status
// from the review's decision. The append and the status write happen in
// one transaction so no partial state is ever visible.
type ReviewService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewReviewService(db *sql.DB, m repomanager.RepositoryManager) *ReviewService {
	return &ReviewService{db: db, repomanager: m}
}

// Record appends a review by actor to the submission and derives the new
// status. Reviews may only be recorded while the submission is SUBMITTED
// or UNDER_REVIEW; anything else is InvalidState. Only project owners
// and admins may review.
func (s *ReviewService) Record(ctx context.Context, actor *models.User, submissionID, feedback string, decision *models.ReviewDecision) (*models.Review, error) {
	if decision != nil && !decision.Valid() {
		return nil, fmt.Errorf("%w: unknown decision %q", common.ErrorValidation, *decision)
	}

	submission, err := s.repomanager.Submissions(s.db).GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	owners, err := s.repomanager.Projects(s.db).ListOwners(ctx, submission.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("error loading owners: %w", err)
	}
	if !canReview(actor, owners) {
		return nil, common.ErrorForbidden
	}

	var review *models.Review
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		// re-read inside the transaction; the pre-check above may be stale
		current, err := s.repomanager.Submissions(tx).GetByID(ctx, submissionID)
		if err != nil {
			return err
		}
		if current.Status != models.StatusSubmitted && current.Status != models.StatusUnderReview {
			return common.ErrorInvalidState
		}

		review = &models.Review{
			SubmissionID: submissionID,
			ReviewerID:   actor.ID,
			Feedback:     feedback,
			Decision:     decision,
		}
		if _, err := s.repomanager.Reviews(tx).Create(ctx, review); err != nil {
			return fmt.Errorf("error creating review: %w", err)
		}

		next := deriveStatus(current.Status, decision)
		if next == current.Status {
			return nil
		}

		ok, err := s.repomanager.Submissions(tx).UpdateStatus(ctx, submissionID, current.Status, next)
		if err != nil {
			return fmt.Errorf("error updating status: %w", err)
		}
		if !ok {
			// lost a race with a concurrent transition; roll the review back
			return common.ErrorInvalidState
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return review, nil
}
