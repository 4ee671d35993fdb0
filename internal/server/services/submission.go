package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avelkins/canonkeeper/internal/common"
	"github.com/avelkins/canonkeeper/internal/server/models"
	"github.com/avelkins/canonkeeper/internal/server/repositories/repomanager"
	"github.com/avelkins/canonkeeper/internal/server/repositories/submissions"
)

// SubmissionService is the submission lifecycle engine: creation,
// editing, submission for review, reads and listings. Status transitions
// triggered by reviews live in ReviewService; both share deriveStatus.
type SubmissionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewSubmissionService(db *sql.DB, m repomanager.RepositoryManager) *SubmissionService {
	return &SubmissionService{db: db, repomanager: m}
}

// SubmissionEdit carries a partial update; nil fields are left untouched.
type SubmissionEdit struct {
	Title   *string
	Content *string
}

// Create starts a new DRAFT submission in the project named by slug.
// A missing project — or a private one the actor may not see — is
// reported as NotFound.
func (s *SubmissionService) Create(ctx context.Context, actor *models.User, slug, title, content string) (*models.Submission, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}

	project, owners, err := s.loadProject(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !canViewProject(actor, project, owners) {
		return nil, common.ErrorNotFound
	}

	submission := &models.Submission{
		ProjectID: project.ID,
		AuthorID:  actor.ID,
		Title:     title,
		Content:   content,
		Status:    models.StatusDraft,
	}

	created, err := s.repomanager.Submissions(s.db).Create(ctx, submission)
	if err != nil {
		return nil, fmt.Errorf("error creating submission: %w", err)
	}
	return created, nil
}

// Edit updates title/content. The author may edit while the submission
// is DRAFT, SUBMITTED, or UNDER_REVIEW; approved or declined text is
// closed to authors (InvalidState and Forbidden respectively). Project
// owners and admins may make moderation edits in any status.
func (s *SubmissionService) Edit(ctx context.Context, actor *models.User, id string, edit SubmissionEdit) (*models.Submission, error) {
	submission, err := s.repomanager.Submissions(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	owners, err := s.repomanager.Projects(s.db).ListOwners(ctx, submission.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("error loading owners: %w", err)
	}

	moderator := isOwner(actor, owners) || isPrivileged(actor)
	if !moderator {
		if actor.ID != submission.AuthorID {
			return nil, common.ErrorForbidden
		}
		switch submission.Status {
		case models.StatusDraft, models.StatusSubmitted, models.StatusUnderReview:
			// author edits allowed
		case models.StatusApproved:
			// approved (possibly canonical) text must stay stable for
			// ordinary authors
			return nil, common.ErrorInvalidState
		case models.StatusDeclined:
			return nil, common.ErrorForbidden
		}
	}

	if edit.Title != nil {
		if *edit.Title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", common.ErrorValidation)
		}
		submission.Title = *edit.Title
	}
	if edit.Content != nil {
		submission.Content = *edit.Content
	}

	if err := s.repomanager.Submissions(s.db).UpdateContent(ctx, id, submission.Title, submission.Content); err != nil {
		return nil, fmt.Errorf("error updating submission: %w", err)
	}

	return s.repomanager.Submissions(s.db).GetByID(ctx, id)
}

// SubmitForReview transitions DRAFT -> SUBMITTED. Only the author may
// submit, and only from DRAFT; there is no resubmission path out of
// DECLINED. The transition is a compare-and-swap so concurrent submits
// cannot double-fire.
func (s *SubmissionService) SubmitForReview(ctx context.Context, actor *models.User, id string) (*models.Submission, error) {
	submission, err := s.repomanager.Submissions(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID != submission.AuthorID {
		return nil, common.ErrorForbidden
	}

	ok, err := s.repomanager.Submissions(s.db).UpdateStatus(ctx, id, models.StatusDraft, models.StatusSubmitted)
	if err != nil {
		return nil, fmt.Errorf("error updating status: %w", err)
	}
	if !ok {
		return nil, common.ErrorInvalidState
	}

	return s.repomanager.Submissions(s.db).GetByID(ctx, id)
}

// Get returns the submission with its review history. Visible to the
// author, project owners, and admins only.
func (s *SubmissionService) Get(ctx context.Context, actor *models.User, id string) (*models.Submission, []models.Review, error) {
	submission, err := s.repomanager.Submissions(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	owners, err := s.repomanager.Projects(s.db).ListOwners(ctx, submission.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading owners: %w", err)
	}
	if actor.ID != submission.AuthorID && !canReview(actor, owners) {
		return nil, nil, common.ErrorForbidden
	}

	reviewList, err := s.repomanager.Reviews(s.db).ListBySubmission(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading reviews: %w", err)
	}

	return submission, reviewList, nil
}

// List returns a project's submissions, optionally filtered by status.
// Non-owners only see their own submissions.
func (s *SubmissionService) List(ctx context.Context, actor *models.User, slug string, status string) ([]*models.Submission, error) {
	if status != "" && !models.SubmissionStatus(status).Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", common.ErrorValidation, status)
	}

	project, owners, err := s.loadProject(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !canViewProject(actor, project, owners) {
		return nil, common.ErrorNotFound
	}

	filter := submissions.Filter{Status: models.SubmissionStatus(status)}
	if !canReview(actor, owners) {
		filter.AuthorID = actor.ID
	}

	return s.repomanager.Submissions(s.db).ListByProject(ctx, project.ID, filter)
}

func (s *SubmissionService) loadProject(ctx context.Context, slug string) (*models.Project, []models.ProjectOwner, error) {
	project, err := s.repomanager.Projects(s.db).GetBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	owners, err := s.repomanager.Projects(s.db).ListOwners(ctx, project.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading owners: %w", err)
	}
	return project, owners, nil
}
