package services

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/avelkins/canonkeeper/internal/common"
	"github.com/avelkins/canonkeeper/internal/dbx"
	"github.com/avelkins/canonkeeper/internal/server/models"
	"github.com/avelkins/canonkeeper/internal/server/repositories/repomanager"
)

const projectListLimit = 50

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a project title: lowercase,
// non-alphanumeric runs collapsed to "-", leading/trailing "-" trimmed.
func Slugify(title string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

// ProjectService manages project metadata and ownership.
type ProjectService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewProjectService(db *sql.DB, m repomanager.RepositoryManager) *ProjectService {
	return &ProjectService{db: db, repomanager: m}
}

// Create stores a new project and makes the creator its OWNER in the
// same transaction — every project has at least one owner from birth.
// A title whose slug collides with an existing project yields Conflict.
func (s *ProjectService) Create(ctx context.Context, actor *models.User, title, description string, tags []string, visibility models.Visibility) (*models.Project, error) {
	if len(title) < 3 {
		return nil, fmt.Errorf("%w: title must be at least 3 characters", common.ErrorValidation)
	}
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	if visibility != models.VisibilityPublic && visibility != models.VisibilityPrivate {
		return nil, fmt.Errorf("%w: unknown visibility %q", common.ErrorValidation, visibility)
	}
	slug := Slugify(title)
	if slug == "" {
		return nil, fmt.Errorf("%w: title must contain letters or digits", common.ErrorValidation)
	}
	if tags == nil {
		tags = []string{}
	}

	project := &models.Project{
		Slug:        slug,
		Title:       title,
		Description: description,
		Tags:        tags,
		Visibility:  visibility,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Projects(tx).Create(ctx, project)
		if err != nil {
			return err
		}
		owner := &models.ProjectOwner{
			ProjectID: created.ID,
			UserID:    actor.ID,
			Role:      models.OwnerRoleOwner,
		}
		return s.repomanager.Projects(tx).AddOwner(ctx, owner)
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}

// Get returns the project named by slug. A private project the actor
// may not see is reported as NotFound, never Forbidden. actor may be
// nil (anonymous).
func (s *ProjectService) Get(ctx context.Context, actor *models.User, slug string) (*models.Project, error) {
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
	return project, nil
}

// List returns the newest projects, skipping private ones the actor may
// not see.
func (s *ProjectService) List(ctx context.Context, actor *models.User) ([]*models.Project, error) {
	all, err := s.repomanager.Projects(s.db).List(ctx, projectListLimit)
	if err != nil {
		return nil, err
	}

	visible := make([]*models.Project, 0, len(all))
	for _, p := range all {
		if p.Visibility == models.VisibilityPublic {
			visible = append(visible, p)
			continue
		}
		owners, err := s.repomanager.Projects(s.db).ListOwners(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("error loading owners: %w", err)
		}
		if canViewPrivateProject(actor, owners) {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

// AddCollaborator grants review/canonization authority on a project.
// Only existing owners and admins may invite; duplicate invitations
// yield Conflict.
func (s *ProjectService) AddCollaborator(ctx context.Context, actor *models.User, slug, userID string) error {
	project, err := s.repomanager.Projects(s.db).GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	owners, err := s.repomanager.Projects(s.db).ListOwners(ctx, project.ID)
	if err != nil {
		return fmt.Errorf("error loading owners: %w", err)
	}
	if !canViewProject(actor, project, owners) {
		return common.ErrorNotFound
	}
	if !isOwner(actor, owners) && !isPrivileged(actor) {
		return common.ErrorForbidden
	}

	if _, err := s.repomanager.Users(s.db).GetByID(ctx, userID); err != nil {
		return err
	}

	owner := &models.ProjectOwner{
		ProjectID: project.ID,
		UserID:    userID,
		Role:      models.OwnerRoleCollaborator,
	}
	return s.repomanager.Projects(s.db).AddOwner(ctx, owner)
}
