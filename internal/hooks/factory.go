// Hook factory - builds hook values from declarative definitions.
//
// DESIGN: A Definition names the hook and supplies either a legacy
// single-phase Handler or any non-empty subset of Before/After/Cleanup.
// Definitions without Setup go through Define and yield a ready hook.
// Definitions with Setup go through NewFactory and yield an instantiation
// function: each call runs Setup(config) exactly once and returns an
// independently-stateful hook whose callbacks close over that state.
//
// State is typed as `any` at this layer; concrete hooks assert their own
// config/state types inside Setup (see internal/hooks/builtin).
package hooks

import "fmt"

// SetupFunc builds per-instance private state from a configuration value.
// It is called once, lazily, when the hook is instantiated.
type SetupFunc func(config any) (any, error)

// Definition declares a hook. Name is required and used for diagnostics
// only. Exactly one of Handler (legacy) or the lifecycle fields may be
// populated; mixing them is rejected at construction time.
type Definition struct {
	Name  string
	Setup SetupFunc

	// Handler marks the definition as a legacy single-phase hook.
	Handler func(*Context, any) Result

	// Lifecycle callbacks. Any non-empty subset is valid.
	Before  func(*Context, any) Result
	After   func(*AfterContext, any) Result
	Cleanup func(*CleanupContext, any)
}

// Factory instantiates a stateful hook from a configuration value.
// Each call produces an independent hook instance; state is never shared
// across instances.
type Factory func(config any) (Hook, error)

// Define builds a stateless hook from a definition. Definitions carrying
// Setup must use NewFactory instead.
func Define(def Definition) (Hook, error) {
	if err := def.validate(); err != nil {
		return Hook{}, err
	}
	if def.Setup != nil {
		return Hook{}, fmt.Errorf("hook %q: definition has setup, use NewFactory", def.Name)
	}
	return def.bind(nil), nil
}

// NewFactory builds an instantiation function for a stateful definition.
func NewFactory(def Definition) (Factory, error) {
	if err := def.validate(); err != nil {
		return nil, err
	}
	if def.Setup == nil {
		return nil, fmt.Errorf("hook %q: definition has no setup, use Define", def.Name)
	}
	return func(config any) (Hook, error) {
		state, err := def.Setup(config)
		if err != nil {
			return Hook{}, fmt.Errorf("hook %q: setup failed: %w", def.Name, err)
		}
		return def.bind(state), nil
	}, nil
}

// validate enforces the definition contract: a name, and exactly one of
// the legacy or lifecycle shapes.
func (def Definition) validate() error {
	if def.Name == "" {
		return fmt.Errorf("hook definition requires a name")
	}
	lifecycle := def.Before != nil || def.After != nil || def.Cleanup != nil
	if def.Handler != nil && lifecycle {
		return fmt.Errorf("hook %q: definition mixes legacy handler with lifecycle callbacks", def.Name)
	}
	if def.Handler == nil && !lifecycle {
		return fmt.Errorf("hook %q: definition has no callbacks", def.Name)
	}
	return nil
}

// bind partially applies the definition's callbacks with the captured
// state and wraps them into a hook value.
func (def Definition) bind(state any) Hook {
	if def.Handler != nil {
		handler := def.Handler
		return NewLegacy(def.Name, func(c *Context) Result {
			return handler(c, state)
		})
	}

	var before BeforeFunc
	if def.Before != nil {
		fn := def.Before
		before = func(c *Context) Result { return fn(c, state) }
	}
	var after AfterFunc
	if def.After != nil {
		fn := def.After
		after = func(c *AfterContext) Result { return fn(c, state) }
	}
	var cleanup CleanupFunc
	if def.Cleanup != nil {
		fn := def.Cleanup
		cleanup = func(c *CleanupContext) { fn(c, state) }
	}
	return NewLifecycle(def.Name, before, after, cleanup)
}
