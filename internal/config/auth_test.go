package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuthConfig_PlainPassword(t *testing.T) {
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("PASSWORD_PEPPER", "")
	t.Setenv("AUTH_USERNAME", "admin")
	t.Setenv("AUTH_PASSWORD_HASH", "")
	t.Setenv("AUTH_PASSWORD", "s3cret")

	cfg, err := NewAuthConfig()
	require.NoError(t, err)
	assert.Equal(t, "admin", cfg.Username)
	assert.NotEqual(t, "s3cret", cfg.PasswordHash)

	assert.True(t, cfg.Check("admin", "s3cret"))
	assert.False(t, cfg.Check("admin", "wrong"))
	assert.False(t, cfg.Check("someone", "s3cret"))
}

func TestNewAuthConfig_Hash(t *testing.T) {
	pw := &PasswordConfig{BcryptCost: 10}
	hash, err := pw.HashPassword("from-hash")
	require.NoError(t, err)

	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("PASSWORD_PEPPER", "")
	t.Setenv("AUTH_USERNAME", "admin")
	t.Setenv("AUTH_PASSWORD_HASH", hash)
	t.Setenv("AUTH_PASSWORD", "ignored")

	cfg, err := NewAuthConfig()
	require.NoError(t, err)
	assert.Equal(t, hash, cfg.PasswordHash)
	assert.True(t, cfg.Check("admin", "from-hash"))
	assert.False(t, cfg.Check("admin", "ignored"))
}

func TestNewAuthConfig_Missing(t *testing.T) {
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("AUTH_USERNAME", "")
	_, err := NewAuthConfig()
	assert.ErrorContains(t, err, "AUTH_USERNAME")

	t.Setenv("AUTH_USERNAME", "admin")
	t.Setenv("AUTH_PASSWORD_HASH", "")
	t.Setenv("AUTH_PASSWORD", "")
	_, err = NewAuthConfig()
	assert.ErrorContains(t, err, "AUTH_PASSWORD")
}

func TestAuthConfig_NilSafe(t *testing.T) {
	var cfg *AuthConfig
	assert.False(t, cfg.Check("admin", "pw"))
}
