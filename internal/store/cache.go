package store

import (
	"sync"
	"time"
)

// DefaultCacheTTL applies when config leaves the cache TTL unset.
const DefaultCacheTTL = 5 * time.Minute

// Cache is the response cache consumed by the built-in cache hook.
type Cache interface {
	// Get retrieves a cached response if present and unexpired.
	Get(key string) (any, bool)

	// Set stores a response under key.
	Set(key string, value any) error

	// Delete removes a cached response.
	Delete(key string) error

	// Close stops background maintenance.
	Close() error
}

// MemoryCache is a TTL-bound in-memory Cache.
type MemoryCache struct {
	data     map[string]cacheEntry
	mu       sync.RWMutex
	ttl      time.Duration
	stopChan chan struct{}
	stopped  bool
}

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// NewMemoryCache creates an in-memory cache with the given TTL.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	c := &MemoryCache{
		data:     make(map[string]cacheEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	// Start cleanup goroutine
	go c.cleanup()

	return c
}

// Get retrieves a value if it exists and hasn't expired.
func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.data[key]
	if !exists {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores a value with the cache TTL.
func (c *MemoryCache) Set(key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return nil
	}
	c.data[key] = cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
	return nil
}

// Delete removes a value.
func (c *MemoryCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
	return nil
}

// Close stops the cleanup goroutine and clears data.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.stopped {
		c.stopped = true
		close(c.stopChan)
		c.data = nil
	}
	return nil
}

// cleanup periodically removes expired entries.
func (c *MemoryCache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.mu.Lock()
			if !c.stopped {
				now := time.Now()
				for key, e := range c.data {
					if now.After(e.expiresAt) {
						delete(c.data, key)
					}
				}
			}
			c.mu.Unlock()
		}
	}
}

// Ensure MemoryCache implements Cache
var _ Cache = (*MemoryCache)(nil)
