package httpapi

import "net/http"

type presignResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (s *Server) handlePresignUpload(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.uploads.PresignPut(r.Context())
	if err != nil {
		s.writeError(r.Context(), w, err)
		return
	}

	s.writeJSON(r.Context(), w, http.StatusOK, presignResponse{Key: key, URL: url})
}
