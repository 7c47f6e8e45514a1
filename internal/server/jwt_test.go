package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-mentor/internal/config"
)

const testJWTSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func setupTestJWTService(_ *testing.T, expirationHours int) *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:          testJWTSecret,
		ExpirationHours: expirationHours,
		Issuer:          "career-mentor",
	})
}

func TestJWTService_GenerateToken(t *testing.T) {
	service := setupTestJWTService(t, 24)

	token, err := service.GenerateToken(uuid.New(), "user@example.com")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3, "JWT should have 3 parts separated by dots")
}

func TestJWTService_RoundTripClaims(t *testing.T) {
	service := setupTestJWTService(t, 24)
	userID := uuid.New()

	token, err := service.GenerateToken(userID, "user@example.com")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.GetUserID())
	assert.Equal(t, "user@example.com", claims.GetEmail())
	assert.Equal(t, "career-mentor", claims.Issuer)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestJWTService_ValidateToken_Errors(t *testing.T) {
	service := setupTestJWTService(t, 1)
	userID := uuid.New()

	valid, err := service.GenerateToken(userID, "user@example.com")
	require.NoError(t, err)

	other := NewJWTService(&config.JWTConfig{Secret: "another-secret-key-that-is-long", ExpirationHours: 1, Issuer: "career-mentor"})
	foreign, err := other.GenerateToken(userID, "user@example.com")
	require.NoError(t, err)

	otherIssuer := NewJWTService(&config.JWTConfig{Secret: testJWTSecret, ExpirationHours: 1, Issuer: "someone-else"})
	wrongIssuer, err := otherIssuer.GenerateToken(userID, "user@example.com")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: userID})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr string
	}{
		{name: "empty", token: "", wantErr: "empty"},
		{name: "malformed", token: "not.a.jwt", wantErr: "malformed"},
		{name: "wrong secret", token: foreign, wantErr: "signature"},
		{name: "wrong issuer", token: wrongIssuer, wantErr: "failed to parse"},
		{name: "alg none", token: unsigned, wantErr: "token"},
		{name: "truncated", token: valid[:len(valid)-4], wantErr: "signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	service := setupTestJWTService(t, 1)
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return issued }

	token, err := service.GenerateToken(uuid.New(), "user@example.com")
	require.NoError(t, err)

	service.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = service.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func TestJWTService_AsTokenValidator(t *testing.T) {
	service := setupTestJWTService(t, 24)
	userID := uuid.New()

	token, err := service.GenerateToken(userID, "admin@example.com")
	require.NoError(t, err)

	principal, err := service.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, principal.GetUserID())
	assert.Equal(t, "admin@example.com", principal.GetEmail())

	_, err = service.AsTokenValidator().ValidateToken("garbage")
	assert.Error(t, err)
}
