package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/avelkins/canonkeeper/internal/common"
	"github.com/avelkins/canonkeeper/internal/dbx"
	"github.com/avelkins/canonkeeper/internal/server/models"
	canonrepo "github.com/avelkins/canonkeeper/internal/server/repositories/canon"
	projectsrepo "github.com/avelkins/canonkeeper/internal/server/repositories/projects"
	refreshtokensrepo "github.com/avelkins/canonkeeper/internal/server/repositories/refreshtokens"
	reviewsrepo "github.com/avelkins/canonkeeper/internal/server/repositories/reviews"
	submissionsrepo "github.com/avelkins/canonkeeper/internal/server/repositories/submissions"
	usersrepo "github.com/avelkins/canonkeeper/internal/server/repositories/users"
)

// In-memory repository fakes. They ignore the DBTX handle, so service
// transactions are satisfied with a sqlmock Begin/Commit pair.

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fakeUsersRepo struct {
	seq   int
	users map[string]*models.User
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, common.ErrorConflict
		}
	}
	f.seq++
	user.ID = fmt.Sprintf("u%d", f.seq)
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

type fakeProjectsRepo struct {
	seq      int
	projects []*models.Project
	owners   map[string][]models.ProjectOwner
}

func newFakeProjectsRepo() *fakeProjectsRepo {
	return &fakeProjectsRepo{owners: map[string][]models.ProjectOwner{}}
}

func (f *fakeProjectsRepo) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	for _, p := range f.projects {
		if p.Slug == project.Slug {
			return nil, common.ErrorConflict
		}
	}
	f.seq++
	project.ID = fmt.Sprintf("p%d", f.seq)
	project.CreatedAt = time.Now()
	f.projects = append(f.projects, project)
	return project, nil
}

func (f *fakeProjectsRepo) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	for _, p := range f.projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeProjectsRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	for _, p := range f.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeProjectsRepo) List(ctx context.Context, limit int) ([]*models.Project, error) {
	var result []*models.Project
	for i := len(f.projects) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, f.projects[i])
	}
	return result, nil
}

func (f *fakeProjectsRepo) AddOwner(ctx context.Context, owner *models.ProjectOwner) error {
	for _, o := range f.owners[owner.ProjectID] {
		if o.UserID == owner.UserID {
			return common.ErrorConflict
		}
	}
	f.owners[owner.ProjectID] = append(f.owners[owner.ProjectID], *owner)
	return nil
}

func (f *fakeProjectsRepo) ListOwners(ctx context.Context, projectID string) ([]models.ProjectOwner, error) {
	return f.owners[projectID], nil
}

type fakeSubmissionsRepo struct {
	seq         int
	submissions map[string]*models.Submission
}

func newFakeSubmissionsRepo() *fakeSubmissionsRepo {
	return &fakeSubmissionsRepo{submissions: map[string]*models.Submission{}}
}

func (f *fakeSubmissionsRepo) add(s *models.Submission) *models.Submission {
	f.seq++
	s.ID = fmt.Sprintf("s%d", f.seq)
	f.submissions[s.ID] = s
	return s
}

func (f *fakeSubmissionsRepo) Create(ctx context.Context, submission *models.Submission) (*models.Submission, error) {
	submission.CreatedAt = time.Now()
	submission.UpdatedAt = submission.CreatedAt
	return f.add(submission), nil
}

func (f *fakeSubmissionsRepo) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	if s, ok := f.submissions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeSubmissionsRepo) UpdateContent(ctx context.Context, id, title, content string) error {
	s, ok := f.submissions[id]
	if !ok {
		return common.ErrorNotFound
	}
	s.Title = title
	s.Content = content
	return nil
}

func (f *fakeSubmissionsRepo) UpdateStatus(ctx context.Context, id string, from, to models.SubmissionStatus) (bool, error) {
	s, ok := f.submissions[id]
	if !ok || s.Status != from {
		return false, nil
	}
	s.Status = to
	return true, nil
}

func (f *fakeSubmissionsRepo) SetStatus(ctx context.Context, id string, to models.SubmissionStatus) error {
	s, ok := f.submissions[id]
	if !ok {
		return common.ErrorNotFound
	}
	s.Status = to
	return nil
}

func (f *fakeSubmissionsRepo) ListByProject(ctx context.Context, projectID string, filter submissionsrepo.Filter) ([]*models.Submission, error) {
	var result []*models.Submission
	for i := 1; i <= f.seq; i++ {
		s, ok := f.submissions[fmt.Sprintf("s%d", i)]
		if !ok || s.ProjectID != projectID {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		if filter.AuthorID != "" && s.AuthorID != filter.AuthorID {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

type fakeReviewsRepo struct {
	seq     int
	reviews []models.Review
}

func (f *fakeReviewsRepo) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	f.seq++
	review.ID = fmt.Sprintf("r%d", f.seq)
	review.CreatedAt = time.Now()
	f.reviews = append(f.reviews, *review)
	return review, nil
}

func (f *fakeReviewsRepo) ListBySubmission(ctx context.Context, submissionID string) ([]models.Review, error) {
	var result []models.Review
	for _, r := range f.reviews {
		if r.SubmissionID == submissionID {
			result = append(result, r)
		}
	}
	return result, nil
}

type fakeCanonRepo struct {
	seq       int
	entries   map[string]*models.CanonEntry // keyed by submission id
	createErr error
}

func newFakeCanonRepo() *fakeCanonRepo {
	return &fakeCanonRepo{entries: map[string]*models.CanonEntry{}}
}

func (f *fakeCanonRepo) Create(ctx context.Context, entry *models.CanonEntry) (*models.CanonEntry, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.entries[entry.SubmissionID]; ok {
		return nil, common.ErrorConflict
	}
	f.seq++
	entry.ID = fmt.Sprintf("c%d", f.seq)
	entry.CreatedAt = time.Now()
	f.entries[entry.SubmissionID] = entry
	return entry, nil
}

func (f *fakeCanonRepo) GetBySubmission(ctx context.Context, submissionID string) (*models.CanonEntry, error) {
	if e, ok := f.entries[submissionID]; ok {
		return e, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCanonRepo) ListByProject(ctx context.Context, projectID string) ([]models.CanonEntry, error) {
	var result []models.CanonEntry
	for i := 1; i <= f.seq; i++ {
		for _, e := range f.entries {
			if e.ProjectID == projectID && e.ID == fmt.Sprintf("c%d", i) {
				result = append(result, *e)
			}
		}
	}
	return result, nil
}

type fakeRefreshRepo struct {
	tokens map[string]*models.RefreshToken
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	f.tokens[token] = &models.RefreshToken{
		UserID:  userID,
		Token:   token,
		Expires: time.Now().Add(validity),
	}
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := f.tokens[token]; ok {
		return t, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	delete(f.tokens, token)
	return nil
}

type fakeRepoManager struct {
	users       *fakeUsersRepo
	projects    *fakeProjectsRepo
	submissions *fakeSubmissionsRepo
	reviews     *fakeReviewsRepo
	canon       *fakeCanonRepo
	refresh     *fakeRefreshRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:       newFakeUsersRepo(),
		projects:    newFakeProjectsRepo(),
		submissions: newFakeSubmissionsRepo(),
		reviews:     &fakeReviewsRepo{},
		canon:       newFakeCanonRepo(),
		refresh:     newFakeRefreshRepo(),
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error               { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                     { return m.users }
func (m *fakeRepoManager) Projects(db dbx.DBTX) projectsrepo.Repository               { return m.projects }
func (m *fakeRepoManager) Submissions(db dbx.DBTX) submissionsrepo.Repository         { return m.submissions }
func (m *fakeRepoManager) Reviews(db dbx.DBTX) reviewsrepo.Repository                 { return m.reviews }
func (m *fakeRepoManager) Canon(db dbx.DBTX) canonrepo.Repository                     { return m.canon }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository     { return m.refresh }

// Test fixtures shared across service tests.

func seedProject(rm *fakeRepoManager, slug string, visibility models.Visibility, ownerID string) *models.Project {
	project := &models.Project{
		Slug:       slug,
		Title:      slug,
		Visibility: visibility,
		Tags:       []string{},
	}
	project, _ = rm.projects.Create(context.Background(), project)
	_ = rm.projects.AddOwner(context.Background(), &models.ProjectOwner{
		ProjectID: project.ID,
		UserID:    ownerID,
		Role:      models.OwnerRoleOwner,
	})
	return project
}

func seedSubmission(rm *fakeRepoManager, projectID, authorID string, status models.SubmissionStatus) *models.Submission {
	return rm.submissions.add(&models.Submission{
		ProjectID: projectID,
		AuthorID:  authorID,
		Title:     "Chapter",
		Content:   "Once upon a time",
		Status:    status,
	})
}
