// Registry manages adapter registration and lookup.
//
// DESIGN: Thread-safe map of adapter name → Adapter.
// Built-in adapters (http, websocket) are registered at startup.
package adapters

import (
	"sync"

	"github.com/snrraptopack/auwsomebridge-sub000/internal/lifecycle"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/monitoring"
)

// Registry manages adapter registration.
type Registry struct {
	adapters map[string]Adapter
	mu       sync.RWMutex
}

// NewRegistry creates a new adapter registry with all built-in adapters
// bound to the given engine.
func NewRegistry(engine *lifecycle.Engine, logger *monitoring.Logger) *Registry {
	r := &Registry{
		adapters: make(map[string]Adapter),
	}

	// Register built-in adapters
	r.Register(NewHTTPAdapter(engine, logger))
	r.Register(NewWSAdapter(engine, logger))

	return r
}

// Register adds an adapter to the registry.
func (r *Registry) Register(adapter Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[adapter.Name()] = adapter
}

// Get returns an adapter by name.
func (r *Registry) Get(name string) Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.adapters[name]
}
