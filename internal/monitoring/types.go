// Package monitoring - types.go defines shared types.
//
// DESIGN: These types are used by gateway/, lifecycle/ and monitoring/
// itself. Defined here ONCE to avoid duplication and circular imports.
//
// TYPES:
//   - OutcomeKind:  How a request's terminal outcome was determined
//   - Config types: LoggerConfig, AlertConfig
package monitoring

import "time"

// =============================================================================
// OUTCOME KINDS - Used by engine metrics and the audit trail
// =============================================================================

// OutcomeKind identifies which lifecycle phase fixed the terminal outcome.
type OutcomeKind string

const (
	OutcomeSuccess       OutcomeKind = "success"        // all phases ran clean
	OutcomeEarlyResponse OutcomeKind = "early_response" // before hook short-circuited
	OutcomeReject        OutcomeKind = "reject"         // hook returned continue=false
	OutcomeHookFault     OutcomeKind = "hook_fault"     // before/after hook panicked or broke contract
	OutcomeHandlerFault  OutcomeKind = "handler_fault"  // handler returned an error or panicked
)

// =============================================================================
// CONFIG TYPES
// =============================================================================

// LoggerConfig contains logging configuration.
type LoggerConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
	Output string `yaml:"output"` // stdout, stderr, or file path
}

// AlertConfig contains alert thresholds.
type AlertConfig struct {
	HighLatencyThreshold time.Duration `yaml:"high_latency_threshold"`
}
