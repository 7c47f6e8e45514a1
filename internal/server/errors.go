// Package server provides the HTTP REST API for the career mentor.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/career-mentor/internal/career"
	"github.com/jonathan/career-mentor/internal/llm"
	"github.com/jonathan/career-mentor/internal/normalize"
	"github.com/jonathan/career-mentor/internal/types"
)

// User-facing guidance returned in aiResult when generation fails.
const (
	guidanceConfigure = "Please configure Ollama or Hugging Face to generate AI recommendations. See setup instructions in the README."
	guidanceRetry     = "Unable to generate recommendations. Please try again."
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailExists      *ErrEmailAlreadyExists
		invalidCreds     *ErrInvalidCredentials
		passwordMismatch *ErrPasswordMismatch
		userNotFound     *ErrUserNotFound
		validation       *ErrValidation
		fieldErrors      validator.ValidationErrors
	)

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &emailExists):
		return http.StatusConflict
	case errors.As(err, &invalidCreds), errors.As(err, &passwordMismatch):
		return http.StatusUnauthorized
	case errors.As(err, &userNotFound), errors.Is(err, career.ErrNoQuiz):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &fieldErrors), errors.Is(err, types.ErrIncompleteAnswers):
		return http.StatusBadRequest
	case errors.Is(err, llm.ErrGenerationUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, normalize.ErrEmptyGeneration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// generationFailure returns the public error text and aiResult guidance for a
// failed quiz or career-path request. Internal details never reach the client.
func generationFailure(err error) (message, guidance string) {
	switch status := HTTPStatus(err); {
	case status == http.StatusServiceUnavailable:
		return "Generation service unavailable", guidanceConfigure
	case status == http.StatusBadGateway:
		return "Generation service returned an empty response. Please try again.", guidanceRetry
	case status < http.StatusInternalServerError:
		return publicMessage(err), ""
	default:
		return "Failed to process request", guidanceRetry
	}
}

// publicMessage is the client-safe text for a 4xx error.
func publicMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	switch {
	case errors.As(err, &fieldErrors):
		return extractValidationErrors(err)
	case errors.Is(err, types.ErrIncompleteAnswers):
		return "Please answer all questions"
	case errors.Is(err, career.ErrNoQuiz):
		return "No quiz answers found. Please complete the quiz first."
	default:
		return err.Error()
	}
}
