// Package ratelimit provides per-client token-bucket rate limiting, with
// per-endpoint budgets sized around how many model calls each route costs.
package ratelimit

import (
	"sync"
	"time"
)

// Buckets untouched for this long are dropped by the janitor.
const bucketIdleTimeout = time.Hour

// bucket is one client+endpoint token bucket. Tokens refill continuously
// at rate per second up to capacity.
type bucket struct {
	mu       sync.Mutex
	capacity float64
	rate     float64
	tokens   float64
	refilled time.Time
	lastSeen time.Time
}

// take refills the bucket to now, consumes one token if available, and
// reports the remaining budget and when the bucket will be full again.
func (b *bucket) take(now time.Time) (allowed bool, remaining int, reset time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tokens = min(b.capacity, b.tokens+now.Sub(b.refilled).Seconds()*b.rate)
	b.refilled = now
	b.lastSeen = now

	if b.tokens >= 1 {
		b.tokens--
		allowed = true
	}

	reset = now
	if b.tokens < b.capacity {
		reset = now.Add(time.Duration((b.capacity - b.tokens) / b.rate * float64(time.Second)))
	}
	return allowed, int(b.tokens), reset
}

// Info describes the budget state after one Allow decision. Limit is zero
// for unlimited traffic (disabled limiter, whitelisted client, health).
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Limiter holds one bucket per client+endpoint+method and a janitor that
// drops idle buckets.
type Limiter struct {
	config  *Config
	mu      sync.Mutex
	buckets map[string]*bucket
	janitor *time.Ticker
	stop    chan struct{}
}

// NewLimiter creates a rate limiter. A nil config enables limiting with a
// flat default budget and no endpoint tiers.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
		}
	}

	l := &Limiter{
		config:  config,
		buckets: make(map[string]*bucket),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		l.janitor = time.NewTicker(config.CleanupInterval)
		l.stop = make(chan struct{})
		go l.runJanitor()
	}
	return l
}

// Allow decides whether one request from clientID to endpoint+method may
// proceed, and returns the budget state for the response headers.
func (l *Limiter) Allow(clientID, endpoint, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	ec := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if ec == nil {
		ec = &EndpointConfig{Limit: l.config.DefaultLimit, Window: l.config.DefaultWindow}
	}
	if ec.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	b := l.bucket(clientID+":"+endpoint+":"+method, ec)
	allowed, remaining, reset := b.take(time.Now())

	info := Info{
		Allowed:   allowed,
		Limit:     ec.Limit,
		Remaining: remaining,
		ResetTime: reset,
	}
	if !allowed {
		info.RetryAfter = max(time.Until(reset), 0)
	}
	return allowed, info
}

// bucket returns the bucket for the key, creating it full on first use.
func (l *Limiter) bucket(key string, ec *EndpointConfig) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		capacity := ec.Burst
		if capacity <= 0 {
			capacity = ec.Limit
		}
		now := time.Now()
		b = &bucket{
			capacity: float64(capacity),
			rate:     float64(ec.Limit) / ec.Window.Seconds(),
			tokens:   float64(capacity),
			refilled: now,
			lastSeen: now,
		}
		l.buckets[key] = b
	}
	return b
}

func (l *Limiter) runJanitor() {
	for {
		select {
		case <-l.janitor.C:
			l.sweep(time.Now())
		case <-l.stop:
			return
		}
	}
}

// sweep drops buckets idle past the timeout. A dropped bucket that comes
// back starts full again, which only ever errs in the client's favor.
func (l *Limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		b.mu.Lock()
		idle := now.Sub(b.lastSeen)
		b.mu.Unlock()
		if idle > bucketIdleTimeout {
			delete(l.buckets, key)
		}
	}
}

// Stop shuts down the janitor goroutine.
func (l *Limiter) Stop() {
	if l.janitor != nil {
		l.janitor.Stop()
	}
	if l.stop != nil {
		close(l.stop)
	}
}
