// Package lifecycle implements the hook execution engine.
//
// DESIGN: One Execute call runs one logical request through a three-phase
// state machine, identically regardless of which transport adapter
// invoked it:
//
//	classify → [BEFORE] → Handler → [AFTER] → outcome fixed
//	                                              ↓
//	                                         [CLEANUP] ← always, exactly once
//
// Before hooks may short-circuit (early response skips the handler and
// every after hook) or reject. After hooks thread a running response and
// may transform or reject it. Cleanup hooks observe the fixed outcome and
// can never change it; each is individually fault-isolated.
//
// Execute is the single point of error normalization: it never panics,
// and every internal fault collapses to a 500-class failure outcome.
// Transport adapters need no try/catch of their own.
//
// Hooks within a phase run strictly sequentially - later hooks may depend
// on Values mutations made by earlier ones. Concurrent requests each get
// their own Context, so the engine itself holds no shared mutable state.
package lifecycle

import (
	"fmt"
	"time"

	"github.com/snrraptopack/auwsomebridge-sub000/internal/hooks"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/monitoring"
)

// Generic fault messages. Used when a panic carries no usable message or
// a hook breaks the result contract; hook-authored rejections pass
// through verbatim instead.
const (
	msgHookFailed    = "Hook execution failed"
	msgHandlerFailed = "Handler execution failed"
	msgAfterFailed   = "After hook execution failed"
)

// HandlerFunc is the terminal handler for one route. It receives the
// already-validated input and the shared Values bag.
type HandlerFunc func(input any, values map[string]any) (any, error)

// Outcome is the terminal result of one Execute call.
// Success carries Data; failure carries Status and Error.
type Outcome struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Status  int    `json:"status,omitempty"`
	Error   string `json:"error,omitempty"`

	// Kind records which phase fixed the outcome, for metrics and audit.
	Kind monitoring.OutcomeKind `json:"-"`
}

// Engine executes hook lifecycles. Stateless between requests and safe
// for concurrent use.
type Engine struct {
	logger  *monitoring.Logger
	metrics *monitoring.MetricsCollector
}

// New creates an engine. A nil logger disables engine logging; a nil
// metrics collector disables counters.
func New(logger *monitoring.Logger, metrics *monitoring.MetricsCollector) *Engine {
	if logger == nil {
		logger = monitoring.NewNop()
	}
	return &Engine{logger: logger, metrics: metrics}
}

// CombineHooks concatenates global and route-specific hooks. Pure
// concatenation: no deduplication, no name collision checks - order is
// the only contractual property.
func CombineHooks(global, route []hooks.Hook) []hooks.Hook {
	combined := make([]hooks.Hook, 0, len(global)+len(route))
	combined = append(combined, global...)
	return append(combined, route...)
}

// =============================================================================
// CLASSIFICATION - hooks → per-phase buckets
// =============================================================================

type beforeEntry struct {
	name string
	fn   hooks.BeforeFunc
}

type afterEntry struct {
	name string
	fn   hooks.AfterFunc
}

type cleanupEntry struct {
	name string
	fn   hooks.CleanupFunc
}

type phaseSet struct {
	before  []beforeEntry
	after   []afterEntry
	cleanup []cleanupEntry
}

// classify buckets each hook's callbacks by phase, preserving input
// order. A hook may contribute to several buckets; legacy hooks land in
// the before bucket only.
func classify(hs []hooks.Hook) phaseSet {
	var ps phaseSet
	for _, h := range hs {
		if fn := h.Before(); fn != nil {
			ps.before = append(ps.before, beforeEntry{name: h.Name(), fn: fn})
		}
		if fn := h.After(); fn != nil {
			ps.after = append(ps.after, afterEntry{name: h.Name(), fn: fn})
		}
		if fn := h.Cleanup(); fn != nil {
			ps.cleanup = append(ps.cleanup, cleanupEntry{name: h.Name(), fn: fn})
		}
	}
	return ps
}

// =============================================================================
// EXECUTION
// =============================================================================

// Execute runs one request's full lifecycle. It never panics: every
// failure path is normalized into the returned Outcome. Cleanup hooks run
// exactly once for every terminal outcome, inside the deferred block, so
// they observe the final result even on early returns.
func (e *Engine) Execute(hs []hooks.Hook, handler HandlerFunc, ctx *hooks.Context) (out Outcome) {
	start := time.Now()
	ps := classify(hs)

	defer func() {
		e.runCleanup(ps.cleanup, ctx, out)
		e.metrics.RecordOutcome(out.Kind, time.Since(start))
	}()

	var done bool
	out, done = e.runBefore(ps.before, ctx)
	if done {
		return out
	}

	resp, err := e.invokeHandler(handler, ctx)
	if err != nil {
		e.logger.Error().
			Str("route", ctx.Route).
			Str("error", err.Error()).
			Msg("handler failed")
		msg := err.Error()
		if msg == "" {
			msg = msgHandlerFailed
		}
		return failure(500, msg, monitoring.OutcomeHandlerFault)
	}

	return e.runAfter(ps.after, ctx, resp)
}

// runBefore iterates the before bucket in order. The second return value
// reports whether the outcome is already fixed (rejection, fault, or
// early response); false means proceed to the handler.
func (e *Engine) runBefore(entries []beforeEntry, ctx *hooks.Context) (Outcome, bool) {
	for _, entry := range entries {
		res, panicked, reason := callBefore(entry, ctx)
		if panicked {
			e.logHookFault(entry.name, "before", ctx.Route, reason)
			return failure(500, faultMessage(reason, msgHookFailed), monitoring.OutcomeHookFault), true
		}
		if !res.WellFormed() {
			e.logHookFault(entry.name, "before", ctx.Route, "rejection missing status or error")
			return failure(500, msgHookFailed, monitoring.OutcomeHookFault), true
		}
		if !res.Continue {
			return failure(res.Status, res.Error, monitoring.OutcomeReject), true
		}
		if res.HasResponse {
			// Early short-circuit: the handler and all after hooks are
			// skipped, cleanup is not.
			return Outcome{Success: true, Data: res.Response, Kind: monitoring.OutcomeEarlyResponse}, true
		}
	}
	return Outcome{}, false
}

// runAfter threads the running response through the after bucket.
func (e *Engine) runAfter(entries []afterEntry, ctx *hooks.Context, response any) Outcome {
	current := response
	for _, entry := range entries {
		actx := &hooks.AfterContext{Context: ctx, Response: current}
		res, panicked, reason := callAfter(entry, actx)
		if panicked {
			e.logHookFault(entry.name, "after", ctx.Route, reason)
			return failure(500, faultMessage(reason, msgAfterFailed), monitoring.OutcomeHookFault)
		}
		if !res.WellFormed() {
			e.logHookFault(entry.name, "after", ctx.Route, "rejection missing status or error")
			return failure(500, msgAfterFailed, monitoring.OutcomeHookFault)
		}
		if !res.Continue {
			return failure(res.Status, res.Error, monitoring.OutcomeReject)
		}
		if res.HasResponse {
			current = res.Response
		}
	}
	return Outcome{Success: true, Data: current, Kind: monitoring.OutcomeSuccess}
}

// runCleanup invokes every cleanup hook with the fixed outcome. Each call
// is individually recovered: one hook's panic never stops the rest and
// never alters the outcome.
func (e *Engine) runCleanup(entries []cleanupEntry, ctx *hooks.Context, out Outcome) {
	if len(entries) == 0 {
		return
	}
	cctx := &hooks.CleanupContext{Context: ctx, Success: out.Success}
	if out.Success {
		cctx.Response = out.Data
	} else {
		cctx.Failure = &hooks.Failure{Status: out.Status, Message: out.Error}
	}
	for _, entry := range entries {
		e.callCleanup(entry, cctx, ctx.Route)
	}
}

func (e *Engine) callCleanup(entry cleanupEntry, cctx *hooks.CleanupContext, route string) {
	defer func() {
		if r := recover(); r != nil {
			e.metrics.RecordCleanupFault()
			e.logger.Warn().
				Str("hook", entry.name).
				Str("route", route).
				Str("reason", fmt.Sprint(r)).
				Msg("cleanup hook failed (non-fatal)")
		}
	}()
	entry.fn(cctx)
}

// invokeHandler runs the terminal handler, converting panics into errors.
func (e *Engine) invokeHandler(handler HandlerFunc, ctx *hooks.Context) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s", faultMessage(panicMessage(r), msgHandlerFailed))
		}
	}()
	return handler(ctx.Input, ctx.Values)
}

// =============================================================================
// HELPERS
// =============================================================================

func callBefore(entry beforeEntry, ctx *hooks.Context) (res hooks.Result, panicked bool, reason string) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			reason = panicMessage(r)
		}
	}()
	res = entry.fn(ctx)
	return
}

func callAfter(entry afterEntry, actx *hooks.AfterContext) (res hooks.Result, panicked bool, reason string) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			reason = panicMessage(r)
		}
	}()
	res = entry.fn(actx)
	return
}

func (e *Engine) logHookFault(hook, phase, route, reason string) {
	e.logger.Error().
		Str("hook", hook).
		Str("phase", phase).
		Str("route", route).
		Str("reason", reason).
		Msg("hook fault")
}

func failure(status int, message string, kind monitoring.OutcomeKind) Outcome {
	return Outcome{Status: status, Error: message, Kind: kind}
}

// panicMessage extracts a human-readable message from a recovered value.
// Non-error, non-string panics yield "" so callers substitute their
// generic fault message instead of leaking internals.
func panicMessage(r any) string {
	switch v := r.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return ""
	}
}

func faultMessage(reason, fallback string) string {
	if reason == "" {
		return fallback
	}
	return reason
}
