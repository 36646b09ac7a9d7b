package hooks

// Result is the control signal a before/after hook returns.
//
// Three shapes are legal:
//   - Continue()            proceed unchanged
//   - Respond(v)            before phase: short-circuit with v as the final
//     data, skipping the handler and all after hooks.
//     after phase: replace the response threaded to
//     subsequent after hooks.
//   - Reject(status, msg)   abort the pipeline; becomes the terminal failure
//
// Status and Error are mandatory whenever Continue is false. The engine
// treats a rejection missing either as a contract violation and normalizes
// it to a logged internal fault.
type Result struct {
	Continue bool
	// Response carries the short-circuit or replacement value.
	// HasResponse distinguishes Respond(nil) from a plain Continue().
	Response    any
	HasResponse bool
	Status      int
	Error       string
}

// Continue signals the engine to proceed to the next hook or phase.
func Continue() Result {
	return Result{Continue: true}
}

// Respond signals the engine to short-circuit (before phase) or replace
// the running response (after phase) with v.
func Respond(v any) Result {
	return Result{Continue: true, Response: v, HasResponse: true}
}

// Reject aborts the pipeline with the given status and message. The pair
// is propagated verbatim as the terminal failure outcome.
func Reject(status int, message string) Result {
	return Result{Status: status, Error: message}
}

// WellFormed reports whether a non-continue result carries the mandatory
// status and error fields. The engine uses this to detect contract
// violations before propagating a rejection.
func (r Result) WellFormed() bool {
	if r.Continue {
		return true
	}
	return r.Status != 0 && r.Error != ""
}
