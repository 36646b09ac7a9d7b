// Package monitoring - request_logger.go logs request lifecycle events.
//
// DESIGN: Structured logging for request tracing at DEBUG level:
//   - LogIncoming: Request received from a transport adapter
//   - LogOutcome:  Terminal outcome produced by the lifecycle engine
//   - LogResponse: Wire response sent back to the client
package monitoring

import (
	"net/http"
	"time"
)

// RequestLogger logs request lifecycle events.
type RequestLogger struct {
	logger *Logger
}

// NewRequestLogger creates a new request logger.
func NewRequestLogger(logger *Logger) *RequestLogger {
	return &RequestLogger{logger: logger}
}

// RequestInfo contains incoming request information.
type RequestInfo struct {
	RequestID  string
	Method     string
	Path       string
	RemoteAddr string
	BodySize   int
	StartTime  time.Time
}

// NewRequestInfo creates RequestInfo from an HTTP request.
func NewRequestInfo(r *http.Request, requestID string, bodySize int) *RequestInfo {
	return &RequestInfo{
		RequestID:  requestID,
		Method:     r.Method,
		Path:       r.URL.Path,
		RemoteAddr: r.RemoteAddr,
		BodySize:   bodySize,
		StartTime:  time.Now(),
	}
}

// LogIncoming logs an incoming request.
func (rl *RequestLogger) LogIncoming(info *RequestInfo) {
	rl.logger.Debug().
		Str("request_id", info.RequestID).
		Str("method", info.Method).
		Str("path", info.Path).
		Int("body_size", info.BodySize).
		Msg("incoming")
}

// OutcomeInfo contains the engine's terminal outcome for one request.
type OutcomeInfo struct {
	RequestID string
	Route     string
	Kind      OutcomeKind
	Status    int
	Error     string
}

// LogOutcome logs the engine's terminal outcome.
func (rl *RequestLogger) LogOutcome(info *OutcomeInfo) {
	event := rl.logger.Debug().
		Str("request_id", info.RequestID).
		Str("route", info.Route).
		Str("kind", string(info.Kind))
	if info.Error != "" {
		event = event.Int("status", info.Status).Str("error", info.Error)
	}
	event.Msg("outcome")
}

// ResponseInfo contains response information.
type ResponseInfo struct {
	RequestID  string
	StatusCode int
	Latency    time.Duration
}

// LogResponse logs a response.
func (rl *RequestLogger) LogResponse(info *ResponseInfo) {
	rl.logger.Debug().
		Str("request_id", info.RequestID).
		Int("status", info.StatusCode).
		Dur("latency", info.Latency).
		Msg("response")
}
