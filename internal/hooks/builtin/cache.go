package builtin

import (
	"fmt"

	"github.com/snrraptopack/auwsomebridge-sub000/internal/hooks"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/store"
)

// cacheKeyValue is the Values key carrying the computed cache key from
// the before phase to the after phase on a miss.
const cacheKeyValue = "cache_key"

// CacheConfig configures one cache hook instance.
type CacheConfig struct {
	Cache store.Cache
	// Routes lists the route ids eligible for caching. Other routes pass
	// through untouched.
	Routes []string
}

// Cache returns a response cache hook instance. On a hit the before
// phase short-circuits with the cached response, skipping the handler
// and every after hook. On a miss the after phase stores the final
// response under the same key.
func Cache(cfg CacheConfig) (hooks.Hook, error) {
	factory, err := hooks.NewFactory(hooks.Definition{
		Name: "cache",
		Setup: func(cfgValue any) (any, error) {
			c, ok := cfgValue.(CacheConfig)
			if !ok {
				return nil, fmt.Errorf("cache: config must be builtin.CacheConfig")
			}
			if c.Cache == nil {
				return nil, fmt.Errorf("cache: a store.Cache is required")
			}
			routes := make(map[string]bool, len(c.Routes))
			for _, r := range c.Routes {
				routes[r] = true
			}
			return &cacheState{cache: c.Cache, routes: routes}, nil
		},
		Before: func(c *hooks.Context, state any) hooks.Result {
			s := state.(*cacheState)
			if !s.routes[c.Route] {
				return hooks.Continue()
			}
			key := cacheKey(c)
			if cached, ok := s.cache.Get(key); ok {
				return hooks.Respond(cached)
			}
			c.Set(cacheKeyValue, key)
			return hooks.Continue()
		},
		After: func(c *hooks.AfterContext, state any) hooks.Result {
			s := state.(*cacheState)
			key, ok := c.Get(cacheKeyValue)
			if !ok {
				return hooks.Continue()
			}
			// Store errors are not worth failing the request over.
			_ = s.cache.Set(key.(string), c.Response)
			return hooks.Continue()
		},
	})
	if err != nil {
		return hooks.Hook{}, err
	}
	return factory(cfg)
}

type cacheState struct {
	cache  store.Cache
	routes map[string]bool
}

// cacheKey keys on route plus query string so parameterized reads don't
// collide.
func cacheKey(c *hooks.Context) string {
	key := c.Route
	if c.Req != nil && len(c.Req.Query) > 0 {
		key += "?" + c.Req.Query.Encode()
	}
	return key
}
