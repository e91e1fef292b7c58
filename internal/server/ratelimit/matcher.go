package ratelimit

import (
	"strings"
)

// unlimited is returned for paths that are never limited
var unlimited = EndpointConfig{Path: "/health", Method: "GET"}

// MatchEndpoint returns the first config whose pattern matches path and
// method, or nil. Exact patterns win over wildcard and prefix patterns.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		u := unlimited
		return &u
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && c.Path == path {
			return c
		}
	}

	for i := range configs {
		c := &configs[i]
		if c.Method == method && matchPattern(c.Path, path) {
			return c
		}
	}

	return nil
}

func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/") && !strings.Contains(pattern, "*") {
		return strings.HasPrefix(path, pattern)
	}
	if !strings.Contains(pattern, "*") {
		return false
	}

	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] == "*" {
			if got[i] == "" {
				return false
			}
			continue
		}
		if want[i] != got[i] {
			return false
		}
	}
	return true
}
