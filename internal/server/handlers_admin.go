package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/career-mentor/internal/types"
)

// handleListSignups lists every registered user with their latest quiz result.
func (s *Server) handleListSignups(w http.ResponseWriter, r *http.Request) {
	signups, err := s.store.ListSignups(r.Context())
	if err != nil {
		s.logger.Error("failed to fetch signups", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to fetch signups"})
		return
	}
	if signups == nil {
		signups = []types.Signup{}
	}
	writeJSON(w, http.StatusOK, signups)
}
