package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-mentor/internal/db"
	"github.com/jonathan/career-mentor/internal/server/middleware"
	"github.com/jonathan/career-mentor/internal/types"
)

func setupTestAuthHandler(t *testing.T) *AuthHandler {
	userSvc := NewUserService(db.NewMemoryStore(), testPasswordConfig(), nil)
	return NewAuthHandler(userSvc, setupTestJWTService(t, 24), nil)
}

func postJSON(path string, body any) *http.Request {
	var raw []byte
	switch b := body.(type) {
	case string:
		raw = []byte(b)
	default:
		raw, _ = json.Marshal(b)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandler_InvalidJSON(t *testing.T) {
	handler := setupTestAuthHandler(t)

	for name, fn := range map[string]http.HandlerFunc{"register": handler.Register, "login": handler.Login} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			fn(w, postJSON("/api/auth/"+name, "invalid json"))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, `{"error":"Invalid request body"}`, w.Body.String())
		})
	}
}

func TestAuthHandler_Register_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		reqBody map[string]string
	}{
		{name: "missing name", reqBody: map[string]string{"email": "test@example.com", "password": "password123"}},
		{name: "invalid email", reqBody: map[string]string{"name": "Test User", "email": "invalid-email", "password": "password123"}},
		{name: "missing email", reqBody: map[string]string{"name": "Test User", "password": "password123"}},
		{name: "password too short", reqBody: map[string]string{"name": "Test User", "email": "test@example.com", "password": "short"}},
		{name: "missing password", reqBody: map[string]string{"name": "Test User", "email": "test@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := setupTestAuthHandler(t)
			w := httptest.NewRecorder()
			handler.Register(w, postJSON("/api/auth/register", tt.reqBody))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "validation error")
		})
	}
}

func TestAuthHandler_RegisterThenLogin(t *testing.T) {
	handler := setupTestAuthHandler(t)
	creds := map[string]string{"name": "Test User", "email": "test@example.com", "password": "password123"}

	w := httptest.NewRecorder()
	handler.Register(w, postJSON("/api/auth/register", creds))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var registered types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "test@example.com", registered.User.Email)
	assert.NotContains(t, w.Body.String(), "password_hash")

	w = httptest.NewRecorder()
	handler.Register(w, postJSON("/api/auth/register", creds))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = httptest.NewRecorder()
	handler.Login(w, postJSON("/api/auth/login", map[string]string{"email": "test@example.com", "password": "password123"}))
	require.Equal(t, http.StatusOK, w.Code)

	var loggedIn types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loggedIn))
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)

	w = httptest.NewRecorder()
	handler.Login(w, postJSON("/api/auth/login", map[string]string{"email": "test@example.com", "password": "wrong-password"}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"invalid email or password"}`, w.Body.String())
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	handler := setupTestAuthHandler(t)

	w := httptest.NewRecorder()
	handler.Register(w, postJSON("/api/auth/register", map[string]string{"name": "U", "email": "u@example.com", "password": "password123"}))
	require.Equal(t, http.StatusCreated, w.Code)
	var registered types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &registered))

	withUser := func(id uuid.UUID, body any) *http.Request {
		req := postJSON("/api/auth/password", body)
		req.Method = http.MethodPut
		return req.WithContext(middleware.WithPrincipal(req.Context(), id, "u@example.com"))
	}

	t.Run("missing principal", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.UpdatePassword(w, postJSON("/api/auth/password", map[string]string{}))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong current password", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.UpdatePassword(w, withUser(registered.User.ID, map[string]string{
			"current_password": "nope", "new_password": "another-password",
		}))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("new password too short", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.UpdatePassword(w, withUser(registered.User.ID, map[string]string{
			"current_password": "password123", "new_password": "short",
		}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("success", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.UpdatePassword(w, withUser(registered.User.ID, map[string]string{
			"current_password": "password123", "new_password": "another-password",
		}))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Password updated successfully"}`, w.Body.String())
	})
}

func TestExtractValidationErrors(t *testing.T) {
	err := types.NewValidator().Struct(types.LoginRequest{Email: "bad"})
	require.Error(t, err)
	assert.Equal(t, "validation error: Email - email", extractValidationErrors(err))
	assert.Equal(t, "validation error: invalid request", extractValidationErrors(assert.AnError))
}
