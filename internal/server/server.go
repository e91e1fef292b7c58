package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/jonathan/training-report/internal/config"
	"github.com/jonathan/training-report/internal/generation"
	"github.com/jonathan/training-report/internal/history"
	"github.com/jonathan/training-report/internal/server/middleware"
	"github.com/jonathan/training-report/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	handler        http.Handler
	history        *history.Service
	sessions       *generation.Manager
	rateLimiter    *ratelimit.Limiter
	jwtService     *JWTService
	authHandler    *AuthHandler
	allowedOrigins []string
}

// Options holds the server's collaborators
type Options struct {
	Addr     string
	History  *history.Service
	Sessions *generation.Manager
	Auth     *config.AuthConfig
	// JWT enables POST /auth/login and bearer tokens; nil leaves Basic only
	JWT            *config.JWTConfig
	RateLimit      *ratelimit.Config
	AllowedOrigins []string
}

// New creates a new server instance
func New(opts Options) (*Server, error) {
	if opts.History == nil || opts.Sessions == nil {
		return nil, fmt.Errorf("history and sessions are required")
	}
	if opts.Auth == nil {
		return nil, fmt.Errorf("auth config is required")
	}
	if opts.Addr == "" {
		opts.Addr = config.DefaultAddr
	}

	s := &Server{
		history:        opts.History,
		sessions:       opts.Sessions,
		rateLimiter:    ratelimit.NewLimiter(opts.RateLimit),
		allowedOrigins: opts.AllowedOrigins,
	}

	var tokens middleware.TokenValidator
	if opts.JWT != nil {
		s.jwtService = NewJWTService(opts.JWT)
		tokens = s.jwtService.AsTokenValidator()
	}
	s.authHandler = NewAuthHandler(opts.Auth, s.jwtService)

	// Authenticated routes
	api := http.NewServeMux()
	api.HandleFunc("GET /catalog", s.handleCatalog)
	api.HandleFunc("GET /catalog/trainings/{training}/learning-points", s.handleLearningPoints)
	api.HandleFunc("POST /drafts", s.handleDraft)

	api.HandleFunc("POST /sessions", s.handleCreateSession)
	api.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	api.HandleFunc("PATCH /sessions/{id}/form", s.handleUpdateForm)
	api.HandleFunc("POST /sessions/{id}/generate", s.handleGenerate)
	api.HandleFunc("PUT /sessions/{id}/text", s.handleSetText)
	api.HandleFunc("PUT /sessions/{id}/tab", s.handleSwitchTab)
	api.HandleFunc("POST /sessions/{id}/refine", s.handleRefine)
	api.HandleFunc("POST /sessions/{id}/undo", s.handleUndo)
	api.HandleFunc("POST /sessions/{id}/save", s.handleSave)
	api.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)

	api.HandleFunc("GET /history", s.handleListHistory)
	api.HandleFunc("GET /history/export", s.handleExportHistory)
	api.HandleFunc("GET /history/{id}", s.handleGetHistory)
	api.HandleFunc("POST /history/{id}/sessions", s.handleResumeHistory)
	api.HandleFunc("PATCH /history/{id}/status", s.handleUpdateStatus)
	api.HandleFunc("DELETE /history", s.handleDeleteHistory)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("/", middleware.AuthMiddleware(tokens, opts.Auth)(api))

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // generation waits on two model calls
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the full middleware chain, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins listening for requests and blocks until SIGINT/SIGTERM
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-stop:
	case err := <-errCh:
		s.Close()
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	log.Println("Server stopped")
	return nil
}

// Close stops background goroutines
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	s.sessions.Stop()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := "*"
		if len(s.allowedOrigins) > 0 {
			origin = ""
			if o := r.Header.Get("Origin"); slices.Contains(s.allowedOrigins, o) {
				origin = o
				w.Header().Add("Vary", "Origin")
			}
		}
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-RateLimit-Remaining, Retry-After")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code for request logs
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %d %s in %v", r.Method, r.URL.Path, rec.status, r.RemoteAddr, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status code and writes it
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[%s] %s failed: %v", r.Method, r.URL.Path, err)
	}
	resp := map[string]any{"error": errorMessage(err)}
	if fields := fieldOf(err); fields != nil {
		resp["fields"] = fields
	}
	s.jsonResponse(w, status, resp)
}

// extractClientID extracts the client identifier from the request.
// X-Forwarded-For is not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Round(time.Second).Seconds())
		response["retry_after"] = secs
		w.Header().Set("Retry-After", fmt.Sprintf("%d", secs))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d", info.Limit, info.Remaining)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// splitList splits a comma-separated query value, dropping blanks
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
