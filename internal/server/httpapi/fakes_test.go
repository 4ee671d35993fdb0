package httpapi

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/avelkins/canonkeeper/internal/common"
	"github.com/avelkins/canonkeeper/internal/dbx"
	"github.com/avelkins/canonkeeper/internal/logging"
	"github.com/avelkins/canonkeeper/internal/server/config"
	"github.com/avelkins/canonkeeper/internal/server/models"
	canonrepo "github.com/avelkins/canonkeeper/internal/server/repositories/canon"
	projectsrepo "github.com/avelkins/canonkeeper/internal/server/repositories/projects"
	refreshtokensrepo "github.com/avelkins/canonkeeper/internal/server/repositories/refreshtokens"
	reviewsrepo "github.com/avelkins/canonkeeper/internal/server/repositories/reviews"
	submissionsrepo "github.com/avelkins/canonkeeper/internal/server/repositories/submissions"
	usersrepo "github.com/avelkins/canonkeeper/internal/server/repositories/users"
	"github.com/avelkins/canonkeeper/internal/server/services"
)

const testSecret = "http-test-secret"

// memStore backs real services with in-memory state in handler tests.
// The per-repository views below ignore the DBTX handle, so transactional
// flows only need sqlmock Begin/Commit expectations.
type memStore struct {
	seq         int
	users       map[string]*models.User
	projects    []*models.Project
	owners      map[string][]models.ProjectOwner
	submissions map[string]*models.Submission
	reviews     []models.Review
	canon       map[string]*models.CanonEntry
	tokens      map[string]*models.RefreshToken
}

func newMemStore() *memStore {
	return &memStore{
		users:       map[string]*models.User{},
		owners:      map[string][]models.ProjectOwner{},
		submissions: map[string]*models.Submission{},
		canon:       map[string]*models.CanonEntry{},
		tokens:      map[string]*models.RefreshToken{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s%d", prefix, m.seq)
}

func (m *memStore) RunMigrations(context.Context, *sql.DB) error               { return nil }
func (m *memStore) Users(db dbx.DBTX) usersrepo.Repository                     { return memUsers{m} }
func (m *memStore) Projects(db dbx.DBTX) projectsrepo.Repository               { return memProjects{m} }
func (m *memStore) Submissions(db dbx.DBTX) submissionsrepo.Repository         { return memSubmissions{m} }
func (m *memStore) Reviews(db dbx.DBTX) reviewsrepo.Repository                 { return memReviews{m} }
func (m *memStore) Canon(db dbx.DBTX) canonrepo.Repository                     { return memCanon{m} }
func (m *memStore) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository     { return memTokens{m} }

type memUsers struct{ s *memStore }

func (m memUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	for _, u := range m.s.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, common.ErrorConflict
		}
	}
	user.ID = m.s.nextID("u")
	user.CreatedAt = time.Now()
	m.s.users[user.ID] = user
	return user, nil
}

func (m memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.s.users[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

type memProjects struct{ s *memStore }

func (m memProjects) Create(ctx context.Context, project *models.Project) (*models.Project, error) {
	for _, p := range m.s.projects {
		if p.Slug == project.Slug {
			return nil, common.ErrorConflict
		}
	}
	project.ID = m.s.nextID("p")
	project.CreatedAt = time.Now()
	m.s.projects = append(m.s.projects, project)
	return project, nil
}

func (m memProjects) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	for _, p := range m.s.projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m memProjects) GetByID(ctx context.Context, id string) (*models.Project, error) {
	for _, p := range m.s.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m memProjects) List(ctx context.Context, limit int) ([]*models.Project, error) {
	var result []*models.Project
	for i := len(m.s.projects) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.s.projects[i])
	}
	return result, nil
}

func (m memProjects) AddOwner(ctx context.Context, owner *models.ProjectOwner) error {
	for _, o := range m.s.owners[owner.ProjectID] {
		if o.UserID == owner.UserID {
			return common.ErrorConflict
		}
	}
	m.s.owners[owner.ProjectID] = append(m.s.owners[owner.ProjectID], *owner)
	return nil
}

func (m memProjects) ListOwners(ctx context.Context, projectID string) ([]models.ProjectOwner, error) {
	return m.s.owners[projectID], nil
}

type memSubmissions struct{ s *memStore }

func (m memSubmissions) Create(ctx context.Context, submission *models.Submission) (*models.Submission, error) {
	submission.ID = m.s.nextID("s")
	submission.CreatedAt = time.Now()
	submission.UpdatedAt = submission.CreatedAt
	m.s.submissions[submission.ID] = submission
	return submission, nil
}

func (m memSubmissions) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	if s, ok := m.s.submissions[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (m memSubmissions) UpdateContent(ctx context.Context, id, title, content string) error {
	s, ok := m.s.submissions[id]
	if !ok {
		return common.ErrorNotFound
	}
	s.Title = title
	s.Content = content
	return nil
}

func (m memSubmissions) UpdateStatus(ctx context.Context, id string, from, to models.SubmissionStatus) (bool, error) {
	s, ok := m.s.submissions[id]
	if !ok || s.Status != from {
		return false, nil
	}
	s.Status = to
	return true, nil
}

func (m memSubmissions) SetStatus(ctx context.Context, id string, to models.SubmissionStatus) error {
	s, ok := m.s.submissions[id]
	if !ok {
		return common.ErrorNotFound
	}
	s.Status = to
	return nil
}

func (m memSubmissions) ListByProject(ctx context.Context, projectID string, filter submissionsrepo.Filter) ([]*models.Submission, error) {
	var result []*models.Submission
	for _, s := range m.s.submissions {
		if s.ProjectID != projectID {
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

type memReviews struct{ s *memStore }

func (m memReviews) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	review.ID = m.s.nextID("r")
	review.CreatedAt = time.Now()
	m.s.reviews = append(m.s.reviews, *review)
	return review, nil
}

func (m memReviews) ListBySubmission(ctx context.Context, submissionID string) ([]models.Review, error) {
	var result []models.Review
	for _, r := range m.s.reviews {
		if r.SubmissionID == submissionID {
			result = append(result, r)
		}
	}
	return result, nil
}

type memCanon struct{ s *memStore }

func (m memCanon) Create(ctx context.Context, entry *models.CanonEntry) (*models.CanonEntry, error) {
	if _, ok := m.s.canon[entry.SubmissionID]; ok {
		return nil, common.ErrorConflict
	}
	entry.ID = m.s.nextID("c")
	entry.CreatedAt = time.Now()
	m.s.canon[entry.SubmissionID] = entry
	return entry, nil
}

func (m memCanon) GetBySubmission(ctx context.Context, submissionID string) (*models.CanonEntry, error) {
	if e, ok := m.s.canon[submissionID]; ok {
		return e, nil
	}
	return nil, common.ErrorNotFound
}

func (m memCanon) ListByProject(ctx context.Context, projectID string) ([]models.CanonEntry, error) {
	var result []models.CanonEntry
	for _, e := range m.s.canon {
		if e.ProjectID == projectID {
			result = append(result, *e)
		}
	}
	return result, nil
}

type memTokens struct{ s *memStore }

func (m memTokens) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	m.s.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (m memTokens) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := m.s.tokens[token]; ok {
		return t, nil
	}
	return nil, common.ErrorNotFound
}

func (m memTokens) Delete(ctx context.Context, token string) error {
	delete(m.s.tokens, token)
	return nil
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newTestServer wires real services over the in-memory store and returns
// the server plus the sqlmock driving transaction Begin/Commit calls.
func newTestServer(t *testing.T) (*Server, *memStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	mock.MatchExpectationsInOrder(false)

	store := newMemStore()
	cfg := &config.Config{
		SecretKey:                    testSecret,
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 24 * time.Hour,
	}

	srv := NewServer(
		":0",
		testLogger(),
		services.NewUserService(db, store, cfg),
		services.NewProjectService(db, store),
		services.NewSubmissionService(db, store),
		services.NewReviewService(db, store),
		services.NewCanonService(db, store),
		services.NewUploadService(cfg),
		testSecret,
	)
	return srv, store, mock
}
