package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig is the limit for requests matching one path pattern.
type EndpointConfig struct {
	Path   string        // Path pattern: "*" matches one segment, a trailing "/" matches any suffix
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(getEnvInt("RATE_LIMIT_GENERATE_PER_HOUR", 60)),
	}
}

// DefaultEndpointConfigs returns the per-endpoint limits. generatePerHour
// caps the calls that reach the language model.
func DefaultEndpointConfigs(generatePerHour int) []EndpointConfig {
	return []EndpointConfig{
		// Model calls
		{Path: "/sessions/*/generate", Method: "POST", Limit: generatePerHour, Window: time.Hour, Burst: 5},
		{Path: "/sessions/*/refine", Method: "POST", Limit: generatePerHour, Window: time.Hour, Burst: 5},

		// Login attempts
		{Path: "/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},

		// Writes
		{Path: "/sessions", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/sessions/*/save", Method: "POST", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/history", Method: "DELETE", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/history/*/status", Method: "PATCH", Limit: 60, Window: time.Minute, Burst: 10},
		{Path: "/history/export", Method: "GET", Limit: 30, Window: time.Minute, Burst: 5},

		// Everything else uses the default limit; /health is never limited
	}
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
