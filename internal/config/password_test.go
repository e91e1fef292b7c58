package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name       string
		bcryptCost string
		wantCost   int
		wantErr    bool
	}{
		{"default cost", "", 12, false},
		{"valid cost", "10", 10, false},
		{"cost too low", "9", 0, true},
		{"cost too high", "15", 0, true},
		{"invalid cost", "abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BCRYPT_COST", tt.bcryptCost)
			t.Setenv("PASSWORD_PEPPER", "")

			cfg, err := NewPasswordConfig()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, cfg.BcryptCost)
		})
	}
}

func TestHashAndVerify(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}

	hash, err := cfg.HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"))
	assert.True(t, cfg.VerifyPassword("correct horse", hash))
	assert.False(t, cfg.VerifyPassword("wrong horse", hash))
	assert.False(t, cfg.VerifyPassword("correct horse", "not-a-hash"))
}

func TestHashAndVerify_Pepper(t *testing.T) {
	peppered := &PasswordConfig{BcryptCost: 10, Pepper: "pepper"}
	plain := &PasswordConfig{BcryptCost: 10}

	hash, err := peppered.HashPassword("secret")
	require.NoError(t, err)
	assert.True(t, peppered.VerifyPassword("secret", hash))
	assert.False(t, plain.VerifyPassword("secret", hash), "pepper is required to verify")
}

func TestHashPassword_TooLong(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}
	_, err := cfg.HashPassword(strings.Repeat("a", 73))
	assert.Error(t, err)
}
