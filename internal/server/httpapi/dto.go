package httpapi

import (
	"time"

	"github.com/avelkins/canonkeeper/internal/server/models"
	"github.com/avelkins/canonkeeper/internal/server/services"
)

// JSON views of the persisted records. Field names match what the web
// client expects; password hashes never leave the server.

type userView struct {
	ID        string      `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

func toUserView(u *models.User) userView {
	return userView{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

type projectView struct {
	ID          string            `json:"id"`
	Slug        string            `json:"slug"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Tags        []string          `json:"tags"`
	Visibility  models.Visibility `json:"visibility"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func toProjectView(p *models.Project) projectView {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return projectView{
		ID: p.ID, Slug: p.Slug, Title: p.Title, Description: p.Description,
		Tags: tags, Visibility: p.Visibility, CreatedAt: p.CreatedAt,
	}
}

type submissionView struct {
	ID        string                  `json:"id"`
	ProjectID string                  `json:"projectId"`
	AuthorID  string                  `json:"authorId"`
	Title     string                  `json:"title"`
	Content   string                  `json:"content"`
	Status    models.SubmissionStatus `json:"status"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

func toSubmissionView(s *models.Submission) submissionView {
	return submissionView{
		ID: s.ID, ProjectID: s.ProjectID, AuthorID: s.AuthorID,
		Title: s.Title, Content: s.Content, Status: s.Status,
		CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

type reviewView struct {
	ID           string                 `json:"id"`
	SubmissionID string                 `json:"submissionId"`
	ReviewerID   string                 `json:"reviewerId"`
	Feedback     string                 `json:"feedback"`
	Decision     *models.ReviewDecision `json:"decision"`
	CreatedAt    time.Time              `json:"createdAt"`
}

func toReviewView(r *models.Review) reviewView {
	return reviewView{
		ID: r.ID, SubmissionID: r.SubmissionID, ReviewerID: r.ReviewerID,
		Feedback: r.Feedback, Decision: r.Decision, CreatedAt: r.CreatedAt,
	}
}

type canonEntryView struct {
	ID           string          `json:"id"`
	ProjectID    string          `json:"projectId"`
	SubmissionID string          `json:"submissionId"`
	AddedByID    string          `json:"addedById"`
	Notes        string          `json:"notes"`
	CreatedAt    time.Time       `json:"createdAt"`
	Submission   *submissionView `json:"submission,omitempty"`
}

func toCanonEntryView(e *models.CanonEntry) canonEntryView {
	return canonEntryView{
		ID: e.ID, ProjectID: e.ProjectID, SubmissionID: e.SubmissionID,
		AddedByID: e.AddedByID, Notes: e.Notes, CreatedAt: e.CreatedAt,
	}
}

func toCanonDetailView(d services.CanonDetail) canonEntryView {
	v := toCanonEntryView(&d.Entry)
	if d.Submission != nil {
		sv := toSubmissionView(d.Submission)
		v.Submission = &sv
	}
	return v
}
