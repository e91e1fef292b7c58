// Package middleware provides HTTP middleware for authentication.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// principalKey is the context key for the authenticated principal.
const principalKey ContextKey = "principal"

// Realm is advertised in WWW-Authenticate challenges
const Realm = "training-report"

// Principal identifies the authenticated caller.
type Principal struct {
	UserID   uuid.UUID
	Username string
}

// PrincipalFor derives a stable principal for a username. The same login
// always maps to the same user id.
func PrincipalFor(username string) Principal {
	return Principal{
		UserID:   uuid.NewSHA1(uuid.NameSpaceOID, []byte(username)),
		Username: username,
	}
}

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (Principal, error)
}

// CredentialChecker validates HTTP Basic credentials.
type CredentialChecker interface {
	Check(username, password string) bool
}

// AuthMiddleware accepts either "Basic" credentials or a "Bearer" token and
// stores the principal in the request context. Either checker may be nil to
// disable that scheme.
func AuthMiddleware(tokens TokenValidator, creds CredentialChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := authenticate(r, tokens, creds)
			if !ok {
				unauthorized(w, creds != nil)
				return
			}
			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(r *http.Request, tokens TokenValidator, creds CredentialChecker) (Principal, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return Principal{}, false
	}

	// Handle case-insensitive scheme
	scheme, _, _ := strings.Cut(strings.TrimSpace(authHeader), " ")
	switch {
	case strings.EqualFold(scheme, "Basic"):
		if creds == nil {
			return Principal{}, false
		}
		username, password, ok := r.BasicAuth()
		if !ok || username == "" || !creds.Check(username, password) {
			return Principal{}, false
		}
		return PrincipalFor(username), true

	case strings.EqualFold(scheme, "Bearer"):
		if tokens == nil {
			return Principal{}, false
		}
		parts := strings.Fields(authHeader)
		if len(parts) != 2 {
			return Principal{}, false
		}
		principal, err := tokens.ValidateToken(parts[1])
		if err != nil {
			return Principal{}, false
		}
		return principal, true
	}
	return Principal{}, false
}

func unauthorized(w http.ResponseWriter, basic bool) {
	if basic {
		w.Header().Set("WWW-Authenticate", fmt.Sprintf("Basic realm=%q, charset=\"UTF-8\"", Realm))
	}
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

// GetPrincipal returns the authenticated principal from the request context.
func GetPrincipal(r *http.Request) (Principal, error) {
	p, ok := r.Context().Value(principalKey).(Principal)
	if !ok {
		return Principal{}, fmt.Errorf("principal not found in request context")
	}
	return p, nil
}

// WithPrincipal returns a context carrying p (for tests and internal callers).
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
