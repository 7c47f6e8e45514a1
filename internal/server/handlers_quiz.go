package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/jonathan/career-mentor/internal/server/middleware"
	"github.com/jonathan/career-mentor/internal/types"
)

type submitQuizResponse struct {
	Success  bool   `json:"success"`
	AIResult string `json:"aiResult"`
}

type quizHistoryResponse struct {
	History []types.QuizResult `json:"history"`
}

// handleSubmitQuiz generates a free-form recommendation for the submitted answers.
func (s *Server) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
		return
	}

	sub, ok := decodeSubmission(w, r)
	if !ok {
		return
	}

	aiResult, err := s.careers.SubmitQuiz(r.Context(), userID, sub.Answers())
	if err != nil {
		s.generationError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, submitQuizResponse{Success: true, AIResult: aiResult})
}

// handleQuizHistory lists the caller's past submissions, newest first.
func (s *Server) handleQuizHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "Unauthorized"})
		return
	}

	history, err := s.careers.QuizHistory(r.Context(), userID)
	if err != nil {
		s.logger.Error("failed to fetch quiz history", zap.String("user_id", userID.String()), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to fetch quiz history"})
		return
	}
	if history == nil {
		history = []types.QuizResult{}
	}

	writeJSON(w, http.StatusOK, quizHistoryResponse{History: history})
}

// decodeSubmission reads q1..q5 and writes a 400 with an empty aiResult on failure.
func decodeSubmission(w http.ResponseWriter, r *http.Request) (*types.QuizSubmission, bool) {
	var sub types.QuizSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body", AIResult: new(string)})
		return nil, false
	}
	if err := sub.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Please complete the quiz first.", AIResult: new(string)})
		return nil, false
	}
	return &sub, true
}

// generationError maps a pipeline failure to its status with user-facing guidance.
func (s *Server) generationError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	message, guidance := generationFailure(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("generation request failed",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
	}
	writeJSON(w, status, errorBody{Error: message, AIResult: &guidance})
}
