package ratelimit

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(cfg *Config) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = clock.now
	return l, clock
}

func TestTokenBucket_Take(t *testing.T) {
	start := time.Now()
	bucket := newTokenBucket(3, 1.0, start)

	for i := 0; i < 3; i++ {
		if ok, _, _ := bucket.take(start); !ok {
			t.Fatalf("expected request %d to be allowed", i+1)
		}
	}
	ok, remaining, reset := bucket.take(start)
	if ok {
		t.Fatal("expected 4th request to be denied")
	}
	if remaining != 0 {
		t.Errorf("expected 0 remaining, got %d", remaining)
	}
	if !reset.Equal(start.Add(3 * time.Second)) {
		t.Errorf("expected reset in 3s, got %v", reset.Sub(start))
	}

	if ok, _, _ := bucket.take(start.Add(1100 * time.Millisecond)); !ok {
		t.Error("expected request to be allowed after refill")
	}
}

func TestLimiter_DefaultLimit(t *testing.T) {
	l, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 2, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 2; i++ {
		if ok, _ := l.Allow("10.0.0.1", "/catalog", "GET"); !ok {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	ok, info := l.Allow("10.0.0.1", "/history", "GET")
	if ok {
		t.Fatal("default bucket is shared across unconfigured paths")
	}
	if info.RetryAfter != 30*time.Second {
		t.Errorf("expected retry after 30s, got %v", info.RetryAfter)
	}

	if ok, _ := l.Allow("10.0.0.2", "/catalog", "GET"); !ok {
		t.Error("other clients have their own bucket")
	}

	clock.advance(31 * time.Second)
	if ok, _ := l.Allow("10.0.0.1", "/catalog", "GET"); !ok {
		t.Error("expected a token after refill")
	}
}

func TestLimiter_WildcardSharesBucket(t *testing.T) {
	cfg := &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/sessions/*/generate", Method: "POST", Limit: 2, Window: time.Hour, Burst: 2},
		},
	}
	l, _ := newTestLimiter(cfg)
	defer l.Stop()

	if ok, _ := l.Allow("c", "/sessions/a/generate", "POST"); !ok {
		t.Fatal("first generate should pass")
	}
	if ok, _ := l.Allow("c", "/sessions/b/generate", "POST"); !ok {
		t.Fatal("second generate should pass")
	}
	ok, info := l.Allow("c", "/sessions/c/generate", "POST")
	if ok {
		t.Fatal("new session ids must not reset the generate limit")
	}
	if info.Limit != 2 {
		t.Errorf("expected limit 2, got %d", info.Limit)
	}

	if ok, _ := l.Allow("c", "/sessions/a", "GET"); !ok {
		t.Error("reads use the default limit")
	}
}

func TestLimiter_Lists(t *testing.T) {
	cfg := &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Hour,
		Whitelist:     map[string]bool{"good": true},
		Blacklist:     map[string]bool{"bad": true},
	}
	l, _ := newTestLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 5; i++ {
		if ok, _ := l.Allow("good", "/history", "GET"); !ok {
			t.Fatal("whitelisted clients are never limited")
		}
	}
	if ok, _ := l.Allow("bad", "/health", "GET"); ok {
		t.Error("blacklisted clients are always refused")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: false})
	defer l.Stop()
	for i := 0; i < 10; i++ {
		if ok, _ := l.Allow("c", "/sessions", "POST"); !ok {
			t.Fatal("disabled limiter allows everything")
		}
	}
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Hour})
	defer l.Stop()
	for i := 0; i < 10; i++ {
		if ok, _ := l.Allow("c", "/health", "GET"); !ok {
			t.Fatal("health is unlimited")
		}
	}
}

func TestLimiter_Sweep(t *testing.T) {
	l, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer l.Stop()

	l.Allow("old", "/catalog", "GET")
	clock.advance(2 * time.Hour)
	l.Allow("new", "/catalog", "GET")

	if n := l.Sweep(clock.now().Add(-time.Hour)); n != 1 {
		t.Errorf("expected 1 bucket removed, got %d", n)
	}
	l.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs(60)
	tests := []struct {
		path, method string
		want         string
	}{
		{"/sessions/abc/generate", "POST", "/sessions/*/generate"},
		{"/sessions/abc/refine", "POST", "/sessions/*/refine"},
		{"/sessions", "POST", "/sessions"},
		{"/history", "DELETE", "/history"},
		{"/history/x/status", "PATCH", "/history/*/status"},
		{"/history/export", "GET", "/history/export"},
		{"/sessions/abc/generate", "GET", ""},
		{"/sessions//generate", "POST", ""},
		{"/sessions/a/b/generate", "POST", ""},
		{"/health", "GET", "/health"},
	}
	for _, tt := range tests {
		got := MatchEndpoint(tt.path, tt.method, configs)
		switch {
		case tt.want == "" && got != nil:
			t.Errorf("%s %s: expected no match, got %s", tt.method, tt.path, got.Path)
		case tt.want != "" && (got == nil || got.Path != tt.want):
			t.Errorf("%s %s: expected %s, got %v", tt.method, tt.path, tt.want, got)
		}
	}
}

func TestMatchPattern_Prefix(t *testing.T) {
	if !matchPattern("/admin/", "/admin/users") {
		t.Error("trailing slash matches any suffix")
	}
	if matchPattern("/admin", "/admin/users") {
		t.Error("plain patterns only match exactly")
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "50")
	t.Setenv("RATE_LIMIT_GENERATE_PER_HOUR", "7")
	t.Setenv("RATE_LIMIT_WHITELIST", " 127.0.0.1 , ,10.0.0.1")

	cfg := LoadConfig()
	if cfg.DefaultLimit != 50 {
		t.Errorf("expected default limit 50, got %d", cfg.DefaultLimit)
	}
	if !cfg.Whitelist["127.0.0.1"] || !cfg.Whitelist["10.0.0.1"] || len(cfg.Whitelist) != 2 {
		t.Errorf("unexpected whitelist %v", cfg.Whitelist)
	}
	if ec := MatchEndpoint("/sessions/x/generate", "POST", cfg.EndpointConfigs); ec == nil || ec.Limit != 7 {
		t.Errorf("expected generate limit 7, got %v", ec)
	}

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	if LoadConfig().Enabled {
		t.Error("expected limiter disabled")
	}
}
