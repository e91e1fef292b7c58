package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/jonathan/training-report/internal/config"
	"github.com/jonathan/training-report/internal/server/middleware"
	"github.com/jonathan/training-report/internal/types"
)

// LoginResponse is returned by POST /auth/login
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
}

// AuthHandler exchanges the static credentials for a bearer token.
type AuthHandler struct {
	auth *config.AuthConfig
	jwt  *JWTService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(auth *config.AuthConfig, jwtService *JWTService) *AuthHandler {
	return &AuthHandler{auth: auth, jwt: jwtService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.jwt == nil {
		http.Error(w, "token login is not enabled", http.StatusNotFound)
		return
	}

	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, errorMessage(err), http.StatusBadRequest)
		return
	}

	if !h.auth.Check(req.Username, req.Password) {
		log.Printf("[auth] failed login for %q from %s", req.Username, r.RemoteAddr)
		err := &ErrInvalidCredentials{}
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	principal := middleware.PrincipalFor(req.Username)
	token, expiresAt, err := h.jwt.GenerateToken(principal)
	if err != nil {
		log.Printf("[auth] failed to generate token: %v", err)
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		UserID:    principal.UserID.String(),
		Username:  principal.Username,
	})
}
