package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/avelkins/canonkeeper/internal/common"
	"github.com/avelkins/canonkeeper/internal/server/auth"
	"github.com/avelkins/canonkeeper/internal/server/models"
)

type ctxKey string

const userKey ctxKey = "user"

// actorFromContext returns the authenticated user, or nil for anonymous
// requests that passed through optionalAuth.
func actorFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// bearerToken extracts the access token from the Authorization header or
// the accessToken cookie (the browser client uses cookies).
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	if c, err := r.Cookie("accessToken"); err == nil {
		return c.Value
	}
	return ""
}

// requireAuth rejects requests without a valid access token. The user
// record is re-read on every request so role changes apply immediately,
// not at token refresh.
func (s *Server) requireAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			s.writeError(r.Context(), w, common.ErrorUnauthenticated)
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			s.writeError(r.Context(), w, common.ErrorUnauthenticated)
			return
		}

		user, err := s.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			s.writeError(r.Context(), w, common.ErrorUnauthenticated)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next(w, r.WithContext(ctx))
	})
}

// optionalAuth resolves an identity when a valid token is present and
// passes the request through as anonymous otherwise. Used on public
// read endpoints where owners see more (private projects).
func (s *Server) optionalAuth(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next(w, r)
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			next(w, r)
			return
		}

		user, err := s.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			next(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next(w, r.WithContext(ctx))
	})
}
