package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/career-mentor/internal/career"
	"github.com/jonathan/career-mentor/internal/server/middleware"
)

// handleGetCareerPath returns the caller's latest career path, generating one from
// their last quiz answers when none is stored.
func (s *Server) handleGetCareerPath(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
		return
	}

	record, err := s.careers.CareerPath(r.Context(), userID)
	if errors.Is(err, career.ErrNoQuiz) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "No career path found. Please complete the quiz first."})
		return
	}
	if err != nil {
		s.generationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// handleCreateCareerPath generates and stores a career path from submitted answers.
func (s *Server) handleCreateCareerPath(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
		return
	}

	sub, ok := decodeSubmission(w, r)
	if !ok {
		return
	}

	record, err := s.careers.GenerateCareerPath(r.Context(), userID, sub.Answers())
	if err != nil {
		s.generationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// handleRegenerateCareerPath replaces the caller's career path using their most
// recent quiz answers.
func (s *Server) handleRegenerateCareerPath(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
		return
	}

	record, err := s.careers.Regenerate(r.Context(), userID)
	if errors.Is(err, career.ErrNoQuiz) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "No quiz answers found. Please complete the quiz first."})
		return
	}
	if err != nil {
		s.generationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}
