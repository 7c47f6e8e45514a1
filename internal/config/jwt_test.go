package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantHours int
		wantErr   string
	}{
		{
			name:      "defaults",
			env:       map[string]string{"JWT_SECRET": "test-secret-key-123"},
			wantHours: 24,
		},
		{
			name:      "custom expiration",
			env:       map[string]string{"JWT_SECRET": "test-secret-key-123", "JWT_EXPIRATION_HOURS": "48"},
			wantHours: 48,
		},
		{
			name:    "missing secret",
			env:     map[string]string{},
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "short secret",
			env:     map[string]string{"JWT_SECRET": "short"},
			wantErr: "at least 16 characters",
		},
		{
			name:    "invalid expiration",
			env:     map[string]string{"JWT_SECRET": "test-secret-key-123", "JWT_EXPIRATION_HOURS": "abc"},
			wantErr: "invalid JWT_EXPIRATION_HOURS",
		},
		{
			name:    "zero expiration",
			env:     map[string]string{"JWT_SECRET": "test-secret-key-123", "JWT_EXPIRATION_HOURS": "0"},
			wantErr: "at least 1 hour",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewJWTConfig(envMap(tt.env))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHours, cfg.ExpirationHours)
			assert.Equal(t, time.Duration(tt.wantHours)*time.Hour, cfg.Expiration())
			assert.Equal(t, "career-mentor", cfg.Issuer)
		})
	}
}
