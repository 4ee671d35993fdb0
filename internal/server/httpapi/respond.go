package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avelkins/canonkeeper/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(ctx, "response encode error", "error", err.Error())
	}
}

// writeError maps the shared error taxonomy onto HTTP status codes.
// Anything unrecognized is treated as internal and its detail withheld
// from the client.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var status int
	var message string

	switch {
	case errors.Is(err, common.ErrorUnauthenticated),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		status, message = http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, common.ErrorForbidden):
		status, message = http.StatusForbidden, "forbidden"
	case errors.Is(err, common.ErrorNotFound):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrorConflict):
		status, message = http.StatusConflict, "conflict"
	case errors.Is(err, common.ErrorInvalidState):
		status, message = http.StatusBadRequest, "invalid state"
	case errors.Is(err, common.ErrorValidation):
		status, message = http.StatusBadRequest, err.Error()
	default:
		s.logger.Error(ctx, "internal error", "error", err.Error())
		status, message = http.StatusInternalServerError, "internal error"
	}

	s.writeJSON(ctx, w, status, errorResponse{Error: message})
}

// decodeJSON reads a request body into v. A malformed body is a
// validation error.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.ErrorValidation
	}
	return nil
}
