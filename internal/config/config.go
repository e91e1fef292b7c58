// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonathan/training-report/internal/catalog"
	"github.com/jonathan/training-report/internal/llm"
)

// Defaults applied by MergeWithDefaults and the cobra flags
const (
	DefaultAddr            = ":8080"
	DefaultSessionTTL      = 2 * time.Hour
	DefaultCleanupInterval = 5 * time.Minute
)

// Config represents settings that can be loaded from a JSON file.
// All fields are optional; CLI flags and environment variables fill the rest.
type Config struct {
	// Gemini
	APIKey string `json:"api_key,omitempty"` // Gemini API key
	Tier   string `json:"tier,omitempty"`    // Model tier for polish/refine (lite, standard, advanced)
	Model  string `json:"model,omitempty"`   // Overrides the model name for the chosen tier

	// Storage
	DatabaseURL string `json:"database_url,omitempty"` // postgres:// URL or SQLite file path

	// Server
	Addr           string   `json:"addr,omitempty"`
	SessionTTL     string   `json:"session_ttl,omitempty"` // Idle time before a session is dropped, e.g. "2h"
	AllowedOrigins []string `json:"allowed_origins,omitempty"`

	// Questionnaire defaults for CLI runs
	UserName    string `json:"user_name,omitempty"`
	Personality string `json:"personality,omitempty"`

	Verbose bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configured values are usable.
func (c *Config) Validate() error {
	if c.Tier != "" {
		switch llm.ModelTier(c.Tier) {
		case llm.TierLite, llm.TierStandard, llm.TierAdvanced:
		default:
			return fmt.Errorf("config error: unknown tier %q (want lite, standard or advanced)", c.Tier)
		}
	}

	if c.SessionTTL != "" {
		ttl, err := time.ParseDuration(c.SessionTTL)
		if err != nil {
			return fmt.Errorf("config error: invalid session_ttl: %w", err)
		}
		if ttl <= 0 {
			return fmt.Errorf("config error: 'session_ttl' must be positive")
		}
	}

	if c.Personality != "" && !catalog.IsPersonality(c.Personality) {
		return fmt.Errorf("config error: unknown personality %q", c.Personality)
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Tier == "" {
		result.Tier = defaults.Tier
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Addr == "" {
		result.Addr = defaults.Addr
	}
	if result.SessionTTL == "" {
		result.SessionTTL = defaults.SessionTTL
	}
	if len(result.AllowedOrigins) == 0 {
		result.AllowedOrigins = defaults.AllowedOrigins
	}
	if result.UserName == "" {
		result.UserName = defaults.UserName
	}
	if result.Personality == "" {
		result.Personality = defaults.Personality
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ModelTier returns the configured tier, standard when unset
func (c *Config) ModelTier() llm.ModelTier {
	if c.Tier == "" {
		return llm.TierStandard
	}
	return llm.ModelTier(c.Tier)
}

// LLMConfig returns the model table with the configured override applied
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.DefaultConfig()
	if c.Model != "" {
		cfg = cfg.WithModel(c.ModelTier(), c.Model)
	}
	return cfg
}

// SessionIdleTTL returns the parsed session TTL, falling back to the default
func (c *Config) SessionIdleTTL() time.Duration {
	if ttl, err := time.ParseDuration(c.SessionTTL); err == nil && ttl > 0 {
		return ttl
	}
	return DefaultSessionTTL
}

// FromEnv reads the environment variables the binary understands
func FromEnv() Config {
	return Config{
		APIKey:      firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"),
		Tier:        os.Getenv("LLM_TIER"),
		Model:       os.Getenv("LLM_MODEL"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Addr:        os.Getenv("ADDR"),
		SessionTTL:  os.Getenv("SESSION_TTL"),
		UserName:    os.Getenv("REPORT_USER_NAME"),
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
