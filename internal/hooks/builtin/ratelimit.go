// Package builtin provides the stock hooks shipped with the bridge:
// ratelimit, auth, cache, audit, and timing. Every hook here is built
// through the stateful factory in internal/hooks, so each instantiation
// carries its own private state.
//
// Shared state inside one instance (a limiter's bucket map, for example)
// is guarded by the hook itself - the engine runs hooks sequentially
// within a request but many requests hit the same instance concurrently.
package builtin

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/snrraptopack/auwsomebridge-sub000/internal/config"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/hooks"
)

// MaxRateLimitBuckets caps the limiter map to prevent memory exhaustion
// from client-address churn.
const MaxRateLimitBuckets = 10000

// rateLimiter implements a token bucket rate limiter per client address.
type rateLimiter struct {
	requests   map[string]*bucket
	mu         sync.Mutex
	rate       int
	maxBuckets int
}

// bucket holds rate limiting state for a single client.
type bucket struct {
	tokens    int
	lastCheck time.Time
}

// allow checks if the given client is allowed to make a request.
func (rl *rateLimiter) allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, exists := rl.requests[client]
	if !exists {
		// Enforce max buckets to prevent memory exhaustion
		if len(rl.requests) >= rl.maxBuckets {
			rl.evictOldest()
		}
		rl.requests[client] = &bucket{tokens: rl.rate - 1, lastCheck: now}
		return true
	}

	elapsed := now.Sub(b.lastCheck).Seconds()
	b.tokens += int(elapsed * float64(rl.rate))
	if b.tokens > rl.rate {
		b.tokens = rl.rate
	}
	b.lastCheck = now

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// evictOldest removes the oldest bucket (called with lock held).
func (rl *rateLimiter) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	first := true
	for k, b := range rl.requests {
		if first || b.lastCheck.Before(oldestTime) {
			oldestKey = k
			oldestTime = b.lastCheck
			first = false
		}
	}
	if oldestKey != "" {
		delete(rl.requests, oldestKey)
	}
}

// RateLimit returns a hook instance rejecting clients that exceed the
// configured per-second rate with 429.
func RateLimit(cfg config.RateLimitConfig) (hooks.Hook, error) {
	factory, err := hooks.NewFactory(hooks.Definition{
		Name: "ratelimit",
		Setup: func(cfgValue any) (any, error) {
			c, ok := cfgValue.(config.RateLimitConfig)
			if !ok {
				return nil, fmt.Errorf("ratelimit: config must be config.RateLimitConfig")
			}
			if c.Rate < 1 {
				return nil, fmt.Errorf("ratelimit: rate must be at least 1")
			}
			return &rateLimiter{
				requests:   make(map[string]*bucket),
				rate:       c.Rate,
				maxBuckets: MaxRateLimitBuckets,
			}, nil
		},
		Before: func(c *hooks.Context, state any) hooks.Result {
			rl := state.(*rateLimiter)
			if !rl.allow(clientAddr(c.Req)) {
				return hooks.Reject(429, "rate limit exceeded")
			}
			return hooks.Continue()
		},
	})
	if err != nil {
		return hooks.Hook{}, err
	}
	return factory(cfg)
}

// clientAddr extracts the client address without the port.
func clientAddr(req *hooks.Request) string {
	if req == nil {
		return ""
	}
	if host, _, err := net.SplitHostPort(req.RemoteAddr); err == nil {
		return host
	}
	return req.RemoteAddr
}
