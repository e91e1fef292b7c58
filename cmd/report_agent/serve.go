package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/training-report/internal/config"
	"github.com/jonathan/training-report/internal/generation"
	"github.com/jonathan/training-report/internal/server"
	"github.com/jonathan/training-report/internal/server/ratelimit"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the questionnaire, generation, refinement and history endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Address to listen on (default "+config.DefaultAddr+")")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	ctx := context.Background()

	auth, err := config.NewAuthConfig()
	if err != nil {
		return fmt.Errorf("auth configuration: %w", err)
	}

	// Bearer tokens are optional; Basic auth always works
	var jwtCfg *config.JWTConfig
	if os.Getenv("JWT_SECRET") != "" {
		jwtCfg, err = config.NewJWTConfig()
		if err != nil {
			return fmt.Errorf("jwt configuration: %w", err)
		}
	}

	hist, closeDB, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	orch, closeLLM, err := newOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLLM()

	addr := serveAddr
	if addr == "" {
		addr = cfg.Addr
	}

	srv, err := server.New(server.Options{
		Addr:           addr,
		History:        hist,
		Sessions:       generation.NewManager(orch, cfg.SessionIdleTTL(), config.DefaultCleanupInterval),
		Auth:           auth,
		JWT:            jwtCfg,
		RateLimit:      ratelimit.LoadConfig(),
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
