package config

import (
	"crypto/subtle"
	"fmt"
	"os"
	"strings"
)

// AuthConfig is the single static login the server accepts.
type AuthConfig struct {
	Username     string
	PasswordHash string
	Password     *PasswordConfig
}

// NewAuthConfig reads AUTH_USERNAME with either AUTH_PASSWORD_HASH (bcrypt)
// or AUTH_PASSWORD (plain text, hashed once at startup).
func NewAuthConfig() (*AuthConfig, error) {
	pw, err := NewPasswordConfig()
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(os.Getenv("AUTH_USERNAME"))
	if username == "" {
		return nil, fmt.Errorf("AUTH_USERNAME is required but not set")
	}

	hash := strings.TrimSpace(os.Getenv("AUTH_PASSWORD_HASH"))
	if hash == "" {
		plain := os.Getenv("AUTH_PASSWORD")
		if plain == "" {
			return nil, fmt.Errorf("AUTH_PASSWORD_HASH or AUTH_PASSWORD is required")
		}
		hash, err = pw.HashPassword(plain)
		if err != nil {
			return nil, err
		}
	}

	return &AuthConfig{Username: username, PasswordHash: hash, Password: pw}, nil
}

// Check reports whether the credentials match the configured login.
func (a *AuthConfig) Check(username, password string) bool {
	if a == nil || a.Password == nil {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) == 1
	// Always run bcrypt so a wrong username costs the same as a wrong password
	passOK := a.Password.VerifyPassword(password, a.PasswordHash)
	return userOK && passOK
}
