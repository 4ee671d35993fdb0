package httpapi

import (
	"net/http"

	"github.com/avelkins/canonkeeper/internal/server/models"
)

type createProjectRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Tags        []string          `json:"tags"`
	Visibility  models.Visibility `json:"visibility"`
}

type addCollaboratorRequest struct {
	UserID string `json:"userId"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	var req createProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	project, err := s.projects.Create(r.Context(), actor, req.Title, req.Description, req.Tags, req.Visibility)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.logger.Info(r.Context(), "project created", "slug", project.Slug)
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]projectView{"project": toProjectView(project)})
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())

	projects, err := s.projects.List(r.Context(), actor)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	views := make([]projectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, toProjectView(p))
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string][]projectView{"projects": views})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	slug := r.PathValue("slug")

	project, err := s.projects.Get(r.Context(), actor, slug)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusOK, map[string]projectView{"project": toProjectView(project)})
}

func (s *Server) handleListCanon(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	slug := r.PathValue("slug")

	details, err := s.canon.List(r.Context(), actor, slug)
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	views := make([]canonEntryView, 0, len(details))
	for _, d := range details {
		views = append(views, toCanonDetailView(d))
	}
	s.writeJSON(r.Context(), w, http.StatusOK, map[string][]canonEntryView{"canon": views})
}

func (s *Server) handleAddCollaborator(w http.ResponseWriter, r *http.Request) {
	actor := actorFromContext(r.Context())
	slug := r.PathValue("slug")

	var req addCollaboratorRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	if err := s.projects.AddCollaborator(r.Context(), actor, slug, req.UserID); err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusOK, map[string]bool{"ok": true})
}
