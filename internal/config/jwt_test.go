package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_DefaultValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-123456")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	assert.Equal(t, "test-secret-key-123456", cfg.Secret)
	assert.Equal(t, 12, cfg.ExpirationHours, "should use default expiration of 12 hours")
	assert.Equal(t, TokenIssuer, cfg.Issuer)
	assert.Equal(t, 12*time.Hour, cfg.TTL())
}

func TestNewJWTConfig_Validation(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		expiration string
		wantHours  int
		wantErr    string
	}{
		{"custom expiration", "test-secret-key-123456", "48", 48, ""},
		{"missing secret", "", "", 0, "JWT_SECRET is required"},
		{"short secret", "short", "", 0, "at least 16 characters"},
		{"non-numeric expiration", "test-secret-key-123456", "soon", 0, "invalid JWT_EXPIRATION_HOURS"},
		{"zero expiration", "test-secret-key-123456", "0", 0, "between 1 and 168"},
		{"too long", "test-secret-key-123456", "169", 0, "between 1 and 168"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", tt.secret)
			t.Setenv("JWT_EXPIRATION_HOURS", tt.expiration)

			cfg, err := NewJWTConfig()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHours, cfg.ExpirationHours)
		})
	}
}
