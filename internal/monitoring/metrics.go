// Package monitoring - metrics.go provides simple counters.
//
// DESIGN: Lightweight in-memory counters for operational metrics:
//   - requests/successes:     Total and successful lifecycle executions
//   - rejects:                Deliberate hook rejections (continue=false)
//   - early_responses:        Before-hook short-circuits
//   - hook/handler faults:    Panics and contract violations, normalized to 500
//   - cleanup_faults:         Cleanup hook panics (logged, never surfaced)
//
// For production, export these to Prometheus or similar.
package monitoring

import (
	"sync/atomic"
	"time"
)

// MetricsCollector collects operational metrics.
type MetricsCollector struct {
	requests       atomic.Int64
	successes      atomic.Int64
	rejects        atomic.Int64
	earlyResponses atomic.Int64
	hookFaults     atomic.Int64
	handlerFaults  atomic.Int64
	cleanupFaults  atomic.Int64
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

// RecordOutcome records one completed lifecycle execution.
// Safe to call on a nil collector so the engine works without metrics.
func (mc *MetricsCollector) RecordOutcome(kind OutcomeKind, _ time.Duration) {
	if mc == nil {
		return
	}
	mc.requests.Add(1)
	switch kind {
	case OutcomeSuccess:
		mc.successes.Add(1)
	case OutcomeEarlyResponse:
		mc.successes.Add(1)
		mc.earlyResponses.Add(1)
	case OutcomeReject:
		mc.rejects.Add(1)
	case OutcomeHookFault:
		mc.hookFaults.Add(1)
	case OutcomeHandlerFault:
		mc.handlerFaults.Add(1)
	}
}

// RecordCleanupFault records a cleanup hook panic.
func (mc *MetricsCollector) RecordCleanupFault() {
	if mc == nil {
		return
	}
	mc.cleanupFaults.Add(1)
}

// Stats returns current metrics.
func (mc *MetricsCollector) Stats() map[string]int64 {
	if mc == nil {
		return map[string]int64{}
	}
	return map[string]int64{
		"requests":        mc.requests.Load(),
		"successes":       mc.successes.Load(),
		"rejects":         mc.rejects.Load(),
		"early_responses": mc.earlyResponses.Load(),
		"hook_faults":     mc.hookFaults.Load(),
		"handler_faults":  mc.handlerFaults.Load(),
		"cleanup_faults":  mc.cleanupFaults.Load(),
	}
}
