// Package httpapi exposes the JSON/HTTP surface of the Canonkeeper
// server: account endpoints, project CRUD, the submission lifecycle,
// canonization, and upload presigning.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/avelkins/canonkeeper/internal/logging"
	"github.com/avelkins/canonkeeper/internal/server/services"
)

type Server struct {
	address     string
	logger      logging.Logger
	users       *services.UserService
	projects    *services.ProjectService
	submissions *services.SubmissionService
	reviews     *services.ReviewService
	canon       *services.CanonService
	uploads     *services.UploadService
	jwtSecret   []byte
}

func NewServer(
	address string,
	logger logging.Logger,
	users *services.UserService,
	projects *services.ProjectService,
	submissions *services.SubmissionService,
	reviews *services.ReviewService,
	canon *services.CanonService,
	uploads *services.UploadService,
	secretKey string,
) *Server {
	return &Server{
		address:     address,
		logger:      logger.With("module", "http_server"),
		users:       users,
		projects:    projects,
		submissions: submissions,
		reviews:     reviews,
		canon:       canon,
		uploads:     uploads,
		jwtSecret:   []byte(secretKey),
	}
}

// Handler builds the route table. Split out of Run so tests can drive
// the mux through httptest without binding a socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("POST /auth/refresh", s.handleRefresh)
	mux.Handle("GET /auth/me", s.requireAuth(s.handleMe))

	mux.Handle("POST /projects", s.requireAuth(s.handleCreateProject))
	mux.Handle("GET /projects", s.optionalAuth(s.handleListProjects))
	mux.Handle("GET /projects/{slug}", s.optionalAuth(s.handleGetProject))
	mux.Handle("GET /projects/{slug}/canon", s.optionalAuth(s.handleListCanon))
	mux.Handle("POST /projects/{slug}/owners", s.requireAuth(s.handleAddCollaborator))

	mux.Handle("POST /projects/{slug}/submissions", s.requireAuth(s.handleCreateSubmission))
	mux.Handle("GET /projects/{slug}/submissions", s.requireAuth(s.handleListSubmissions))
	mux.Handle("PATCH /submissions/{id}", s.requireAuth(s.handleEditSubmission))
	mux.Handle("POST /submissions/{id}/submit", s.requireAuth(s.handleSubmitForReview))
	mux.Handle("POST /submissions/{id}/reviews", s.requireAuth(s.handleRecordReview))
	mux.Handle("POST /submissions/{id}/canonize", s.requireAuth(s.handleCanonize))
	mux.Handle("GET /submissions/{id}", s.requireAuth(s.handleGetSubmission))

	mux.Handle("POST /uploads/presign", s.requireAuth(s.handlePresignUpload))

	return mux
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
