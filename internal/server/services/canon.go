package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avelkins/canonkeeper/internal/common"
	"github.com/avelkins/canonkeeper/internal/server/models"
	"github.com/avelkins/canonkeeper/internal/server/repositories/repomanager"
)

// CanonService promotes approved submissions into a project's immutable
// canon. Canonization is a one-time event per submission; the unique
// index on canon_entries.submission_id is the correctness backstop when
// two canonize calls race past the pre-check.
type CanonService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCanonService(db *sql.DB, m repomanager.RepositoryManager) *CanonService {
	return &CanonService{db: db, repomanager: m}
}

// CanonDetail pairs a canon entry with the submission it canonizes.
type CanonDetail struct {
	Entry      models.CanonEntry
	Submission *models.Submission
}

// Canonize attaches a CanonEntry to an APPROVED submission. Check order:
// missing submission -> NotFound; actor without review authority ->
// Forbidden; existing entry -> Conflict; non-APPROVED status ->
// InvalidState. The submission status itself is left untouched.
func (s *CanonService) Canonize(ctx context.Context, actor *models.User, submissionID, notes string) (*models.CanonEntry, error) {
	submission, err := s.repomanager.Submissions(s.db).GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	owners, err := s.repomanager.Projects(s.db).ListOwners(ctx, submission.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("error loading owners: %w", err)
	}
	if !canCanonize(actor, owners) {
		return nil, common.ErrorForbidden
	}

	_, err = s.repomanager.Canon(s.db).GetBySubmission(ctx, submissionID)
	if err == nil {
		return nil, common.ErrorConflict
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking canon entry: %w", err)
	}

	if submission.Status != models.StatusApproved {
		return nil, common.ErrorInvalidState
	}

	entry := &models.CanonEntry{
		ProjectID:    submission.ProjectID,
		SubmissionID: submissionID,
		AddedByID:    actor.ID,
		Notes:        notes,
	}

	// the insert itself re-checks via the unique index: a concurrent
	// canonize that won the race surfaces here as Conflict
	created, err := s.repomanager.Canon(s.db).Create(ctx, entry)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating canon entry: %w", err)
	}

	return created, nil
}

// List returns a project's canon with the canonized submissions,
// subject to project visibility masking. actor may be nil (anonymous).
func (s *CanonService) List(ctx context.Context, actor *models.User, slug string) ([]CanonDetail, error) {
	project, err := s.repomanager.Projects(s.db).GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	owners, err := s.repomanager.Projects(s.db).ListOwners(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading owners: %w", err)
	}
	if !canViewProject(actor, project, owners) {
		return nil, common.ErrorNotFound
	}

	entries, err := s.repomanager.Canon(s.db).ListByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading canon: %w", err)
	}

	details := make([]CanonDetail, 0, len(entries))
	for _, e := range entries {
		submission, err := s.repomanager.Submissions(s.db).GetByID(ctx, e.SubmissionID)
		if err != nil {
			return nil, fmt.Errorf("error loading canonized submission: %w", err)
		}
		details = append(details, CanonDetail{Entry: e, Submission: submission})
	}

	return details, nil
}
