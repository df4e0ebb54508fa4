package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, config *Config) *Limiter {
	t.Helper()
	l := NewLimiter(config)
	t.Cleanup(l.Stop)
	return l
}

func defaultTierConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// Job search is the most expensive route in the API, so its burst budget
// is the smallest: three requests back to back, then a refusal.
func TestAllow_JobSearchBurstIsThree(t *testing.T) {
	l := newTestLimiter(t, defaultTierConfig())

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("10.0.0.1", "/api/jobs/search", "POST")
		if !allowed {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
		if info.Limit != 20 {
			t.Errorf("limit = %d, want 20", info.Limit)
		}
	}

	allowed, info := l.Allow("10.0.0.1", "/api/jobs/search", "POST")
	if allowed {
		t.Error("4th request allowed, want denied")
	}
	if info.RetryAfter <= 0 {
		t.Errorf("retryAfter = %v, want positive", info.RetryAfter)
	}
}

func TestAllow_ChatPrefixCoversMessageRoutes(t *testing.T) {
	l := newTestLimiter(t, defaultTierConfig())

	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("10.0.0.1", "/api/chat/sessions/abc/messages", "POST")
		if !allowed {
			t.Fatalf("request %d denied within chat burst", i+1)
		}
		if info.Limit != 120 {
			t.Errorf("limit = %d, want the chat tier's 120", info.Limit)
		}
	}
	if allowed, _ := l.Allow("10.0.0.1", "/api/chat/sessions/abc/messages", "POST"); allowed {
		t.Error("11th request allowed, want chat burst of 10 exhausted")
	}
}

func TestAllow_HealthIsUnlimited(t *testing.T) {
	l := newTestLimiter(t, defaultTierConfig())

	for i := 0; i < 200; i++ {
		allowed, info := l.Allow("10.0.0.1", "/api/health", "GET")
		if !allowed {
			t.Fatalf("health request %d denied", i+1)
		}
		if info.Limit != 0 {
			t.Fatalf("limit = %d, want 0 (unlimited)", info.Limit)
		}
	}
}

func TestAllow_ClientsHaveIndependentBudgets(t *testing.T) {
	l := newTestLimiter(t, defaultTierConfig())

	for i := 0; i < 3; i++ {
		l.Allow("10.0.0.1", "/api/jobs/search", "POST")
	}
	if allowed, _ := l.Allow("10.0.0.1", "/api/jobs/search", "POST"); allowed {
		t.Fatal("first client should be exhausted")
	}
	if allowed, _ := l.Allow("10.0.0.2", "/api/jobs/search", "POST"); !allowed {
		t.Error("second client denied, budgets must be per client")
	}
}

func TestAllow_RemainingCountsDown(t *testing.T) {
	l := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  5,
		DefaultWindow: time.Minute,
	})

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("10.0.0.1", "/api/profile", "GET")
		if !allowed {
			t.Fatalf("request %d denied", i+1)
		}
		if info.Remaining != 4-i {
			t.Errorf("remaining after request %d = %d, want %d", i+1, info.Remaining, 4-i)
		}
	}

	allowed, info := l.Allow("10.0.0.1", "/api/profile", "GET")
	if allowed || info.Remaining != 0 {
		t.Errorf("allowed = %v remaining = %d, want denied with 0", allowed, info.Remaining)
	}
}

func TestAllow_TokensRefillOverTime(t *testing.T) {
	l := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			// 1 token per second, burst of 1.
			{Path: "/api/recommendation", Method: "POST", Limit: 60, Window: time.Minute, Burst: 1},
		},
	})

	if allowed, _ := l.Allow("10.0.0.1", "/api/recommendation", "POST"); !allowed {
		t.Fatal("first request denied")
	}
	if allowed, _ := l.Allow("10.0.0.1", "/api/recommendation", "POST"); allowed {
		t.Fatal("second immediate request allowed, want denied")
	}

	time.Sleep(1100 * time.Millisecond)

	if allowed, _ := l.Allow("10.0.0.1", "/api/recommendation", "POST"); !allowed {
		t.Error("request after refill denied")
	}
}

func TestAllow_WhitelistBypassesBudgets(t *testing.T) {
	l := newTestLimiter(t, &Config{
		Enabled:         true,
		DefaultLimit:    1,
		DefaultWindow:   time.Minute,
		Whitelist:       map[string]bool{"10.0.0.9": true},
		EndpointConfigs: DefaultEndpointConfigs(),
	})

	for i := 0; i < 50; i++ {
		allowed, info := l.Allow("10.0.0.9", "/api/jobs/search", "POST")
		if !allowed {
			t.Fatalf("whitelisted request %d denied", i+1)
		}
		if info.Limit != 0 {
			t.Fatalf("limit = %d, want 0 for whitelisted client", info.Limit)
		}
	}
}

func TestAllow_BlacklistRejectsOutright(t *testing.T) {
	l := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"10.0.0.66": true},
	})

	if allowed, _ := l.Allow("10.0.0.66", "/api/health", "POST"); allowed {
		t.Error("blacklisted client allowed")
	}
}

func TestAllow_DisabledPassesEverything(t *testing.T) {
	l := newTestLimiter(t, &Config{Enabled: false})

	for i := 0; i < 50; i++ {
		allowed, info := l.Allow("10.0.0.1", "/api/jobs/search", "POST")
		if !allowed || info.Limit != 0 {
			t.Fatalf("allowed = %v limit = %d, want unlimited pass-through", allowed, info.Limit)
		}
	}
}

func TestAllow_ConcurrentRequestsRespectBudget(t *testing.T) {
	l := newTestLimiter(t, &Config{
		Enabled:       true,
		DefaultLimit:  50,
		DefaultWindow: time.Minute,
	})

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if allowed, _ := l.Allow("10.0.0.1", "/api/profile", "GET"); allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowedCount != 50 {
		t.Errorf("allowed = %d, want exactly 50", allowedCount)
	}
}

func TestSweep_DropsIdleBuckets(t *testing.T) {
	l := newTestLimiter(t, defaultTierConfig())

	l.Allow("10.0.0.1", "/api/jobs/search", "POST")
	l.Allow("10.0.0.2", "/api/recommendation", "POST")

	l.sweep(time.Now().Add(2 * bucketIdleTimeout))

	l.mu.Lock()
	n := len(l.buckets)
	l.mu.Unlock()
	if n != 0 {
		t.Errorf("buckets after sweep = %d, want 0", n)
	}
}

func TestNewLimiter_NilConfigUsesDefaults(t *testing.T) {
	l := newTestLimiter(t, nil)

	allowed, info := l.Allow("10.0.0.1", "/api/profile", "GET")
	if !allowed {
		t.Fatal("request denied under default config")
	}
	if info.Limit != 1000 {
		t.Errorf("limit = %d, want default 1000", info.Limit)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		name      string
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{"job search exact", "/api/jobs/search", "POST", 20, false},
		{"roadmap create exact", "/api/roadmaps", "POST", 30, false},
		{"roadmap task update by prefix", "/api/roadmaps/rm-1/tasks", "PATCH", 100, false},
		{"chat message by prefix", "/api/chat/sessions/abc/messages", "POST", 120, false},
		{"auth by prefix", "/api/auth/login", "POST", 20, false},
		{"profile upload by prefix", "/api/profile/picture", "POST", 30, false},
		{"health unlimited", "/api/health", "GET", 0, false},
		{"method mismatch falls through", "/api/jobs/search", "GET", 0, true},
		{"unknown path falls through", "/api/sessions", "GET", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("MatchEndpoint() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("MatchEndpoint() = nil, want a config")
			}
			if got.Limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", got.Limit, tt.wantLimit)
			}
		})
	}
}
