package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jonathan/training-report/internal/config"
	"github.com/jonathan/training-report/internal/db"
	"github.com/jonathan/training-report/internal/drafting"
	"github.com/jonathan/training-report/internal/form"
	"github.com/jonathan/training-report/internal/gateway"
	"github.com/jonathan/training-report/internal/generation"
	"github.com/jonathan/training-report/internal/history"
	"github.com/jonathan/training-report/internal/llm"
	"github.com/jonathan/training-report/internal/schemas"
	"github.com/jonathan/training-report/internal/types"
)

// loadSettings combines the config file, the environment and global flags.
// Flags beat the environment, which beats the file.
func loadSettings() (config.Config, error) {
	cfg := config.FromEnv()
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
		cfg.Verbose = cfg.Verbose || fileCfg.Verbose
	}
	if apiKeyFlag != "" {
		cfg.APIKey = apiKeyFlag
	}
	if tierFlag != "" {
		cfg.Tier = tierFlag
	}
	if dbTarget != "" {
		cfg.DatabaseURL = dbTarget
	}
	cfg.Verbose = cfg.Verbose || verbose

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openDatabase opens the history database, defaulting to the per-user SQLite file
func openDatabase(ctx context.Context, cfg config.Config) (*db.DB, error) {
	target := cfg.DatabaseURL
	if target == "" {
		target = db.DefaultSQLitePath()
	}
	database, err := db.Open(ctx, target, db.OptionsFromEnv(db.DefaultOptions()))
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return database, nil
}

// openHistory opens the database, applies pending migrations and returns the service
func openHistory(ctx context.Context, cfg config.Config) (*history.Service, func(), error) {
	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, database.Conn, database.Dialect); err != nil {
		_ = database.Close()
		return nil, nil, err
	}
	closeFn := func() {
		if err := database.Close(); err != nil {
			log.Printf("[db] close failed: %v", err)
		}
	}
	return history.NewService(history.NewSQLStore(database)), closeFn, nil
}

// newOrchestrator wires the Gemini gateway. Without an API key every model
// call fails and outputs fall back to the sanitized draft.
func newOrchestrator(ctx context.Context, cfg config.Config) (*generation.Orchestrator, func(), error) {
	rng := drafting.DefaultSource()
	synth := drafting.NewSynthesizer(rng)

	if cfg.APIKey == "" {
		log.Printf("[llm] no API key configured; outputs will be the base draft")
		return generation.NewOrchestrator(synth, gateway.Unavailable{}, rng), func() {}, nil
	}

	client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Printf("[llm] close failed: %v", err)
		}
	}
	gw := gateway.NewGemini(client).WithTier(cfg.ModelTier())
	return generation.NewOrchestrator(synth, gw, rng), closeFn, nil
}

// readForm loads a FormData JSON document from path ("-" reads stdin),
// checks it against the schema and the catalog, and fills CLI defaults.
func readForm(path string, cfg config.Config) (types.FormData, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return types.FormData{}, fmt.Errorf("failed to read form %s: %w", path, err)
	}
	return parseForm(data, cfg)
}

// parseForm decodes a FormData document over the configured defaults
func parseForm(data []byte, cfg config.Config) (types.FormData, error) {
	if err := schemas.ValidateForm(data); err != nil {
		return types.FormData{}, err
	}

	f := types.NewFormData()
	f.UserName = cfg.UserName
	if cfg.Personality != "" {
		f.Personality = cfg.Personality
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return types.FormData{}, fmt.Errorf("failed to decode form: %w", err)
	}
	f = f.Clone()

	if err := form.CheckTools(f); err != nil {
		return types.FormData{}, err
	}
	return f, nil
}

// writeJSON prints v as indented JSON
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
