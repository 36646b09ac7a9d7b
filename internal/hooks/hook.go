// Package hooks defines the lifecycle data contracts for the bridge:
// hook values, hook results, and the per-request context envelope.
//
// DESIGN: A hook is an immutable unit of cross-cutting logic contributing
// to up to three lifecycle phases:
//
//	Request → [BEFORE] → Handler → [AFTER] → Result
//	                                  ↓
//	                            [CLEANUP] ← always, for every outcome
//
// Two variants exist. A lifecycle hook carries any non-empty subset of
// before/after/cleanup callbacks. A legacy hook is a bare single-phase
// callable kept for backward compatibility; it always runs in the before
// phase. The engine in internal/lifecycle pattern-matches on the variant
// during classification and never mutates a hook.
package hooks

// BeforeFunc runs prior to the handler. It may short-circuit with an
// early response or reject the request.
type BeforeFunc func(*Context) Result

// AfterFunc runs after a successful handler. It may transform the
// response passed to subsequent after hooks, or reject.
type AfterFunc func(*AfterContext) Result

// CleanupFunc runs unconditionally once the terminal outcome is fixed.
// It returns nothing: cleanup cannot alter the outcome.
type CleanupFunc func(*CleanupContext)

// Hook is a named unit of before/after/cleanup logic, or a legacy
// single-phase callable. Hooks are value-like: created once, referenced
// by many route registrations, never mutated.
type Hook struct {
	name    string
	before  BeforeFunc
	after   AfterFunc
	cleanup CleanupFunc
	legacy  bool
}

// NewLifecycle creates a lifecycle hook from any non-empty subset of
// phase callbacks. Name is used for diagnostics only, never dispatch.
func NewLifecycle(name string, before BeforeFunc, after AfterFunc, cleanup CleanupFunc) Hook {
	return Hook{name: name, before: before, after: after, cleanup: cleanup}
}

// NewLegacy creates a legacy hook. It participates in the before phase only.
func NewLegacy(name string, fn BeforeFunc) Hook {
	return Hook{name: name, before: fn, legacy: true}
}

// Name returns the hook identifier.
func (h Hook) Name() string { return h.name }

// Before returns the before-phase callback, or nil.
func (h Hook) Before() BeforeFunc { return h.before }

// After returns the after-phase callback, or nil.
// Always nil for legacy hooks.
func (h Hook) After() AfterFunc {
	if h.legacy {
		return nil
	}
	return h.after
}

// Cleanup returns the cleanup-phase callback, or nil.
// Always nil for legacy hooks.
func (h Hook) Cleanup() CleanupFunc {
	if h.legacy {
		return nil
	}
	return h.cleanup
}

// IsLegacy reports whether this is a legacy single-phase hook.
func (h Hook) IsLegacy() bool { return h.legacy }
