package httpapi

import (
	"net/http"

	"github.com/avelkins/canonkeeper/internal/server/models"
	"github.com/avelkins/canonkeeper/internal/server/services"
)

type createSubmissionRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type editSubmissionRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type recordReviewRequest struct {
	Feedback string                 `json:"feedback"`
	Decision *models.ReviewDecision `json:"decision"`
}

type canonizeRequest struct {
	Notes string `json:"notes"`
}

type submissionWithReviews struct {
	Submission submissionView `json:"submission"`
	Reviews    []reviewView   `json:"reviews"`
}

func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	slug := r.PathValue("slug")

	var req createSubmissionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	submission, err := s.submissions.Create(r.Context(), actor, slug, req.Title, req.Content)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusOK, map[string]submissionView{"submission": toSubmissionView(submission)})
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	slug := r.PathValue("slug")
	status := r.URL.Query().Get("status")

	list, err := s.submissions.List(r.Context(), actor, slug, status)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	views := make([]submissionView, 0, len(list))
	for _, sub := range list {
		views = append(views, toSubmissionView(sub))
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string][]submissionView{"submissions": views})
}

func (s *Server) handleEditSubmission(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	id := r.PathValue("id")

	var req editSubmissionRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	submission, err := s.submissions.Edit(r.Context(), actor, id, services.SubmissionEdit{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusOK, map[string]submissionView{"submission": toSubmissionView(submission)})
}

func (s *Server) handleSubmitForReview(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	id := r.PathValue("id")

	submission, err := s.submissions.SubmitForReview(r.Context(), actor, id)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.logger.Info(r.Context(), "submission submitted for review", "submission_id", id)
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]submissionView{"submission": toSubmissionView(submission)})
}

func (s *Server) handleRecordReview(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	id := r.PathValue("id")

	var req recordReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	review, err := s.reviews.Record(r.Context(), actor, id, req.Feedback, req.Decision)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusOK, map[string]reviewView{"review": toReviewView(review)})
}

func (s *Server) handleCanonize(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	id := r.PathValue("id")

	var req canonizeRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(r.Context(), w, err)
			return
		}
	}

	entry, err := s.canon.Canonize(r.Context(), actor, id, req.Notes)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.logger.Info(r.Context(), "submission canonized", "submission_id", id)
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]canonEntryView{"canonEntry": toCanonEntryView(entry)})
}

func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	id := r.PathValue("id")

	submission, reviews, err := s.submissions.Get(r.Context(), actor, id)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	views := make([]reviewView, 0, len(reviews))
	for i := range reviews {
		views = append(views, toReviewView(&reviews[i]))
	}
	s.writeJSON(r.Context(), w, http.StatusOK, submissionWithReviews{
		Submission: toSubmissionView(submission),
		Reviews:    views,
	})
}
