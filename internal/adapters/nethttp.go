package adapters

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/snrraptopack/auwsomebridge-sub000/internal/hooks"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/lifecycle"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/monitoring"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/response"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/schema"
)

// HTTPPlatform is the opaque platform handle HTTP requests carry through
// the lifecycle. Hooks reach it via Context.Platform (or Values["platform"])
// when they need the native objects.
type HTTPPlatform struct {
	Writer  http.ResponseWriter
	Request *http.Request
}

// HTTPAdapter serves routes over plain net/http.
type HTTPAdapter struct {
	engine   *lifecycle.Engine
	logger   *monitoring.Logger
	requests *monitoring.RequestLogger
}

// NewHTTPAdapter creates the HTTP transport binding.
func NewHTTPAdapter(engine *lifecycle.Engine, logger *monitoring.Logger) *HTTPAdapter {
	if logger == nil {
		logger = monitoring.NewNop()
	}
	return &HTTPAdapter{engine: engine, logger: logger, requests: monitoring.NewRequestLogger(logger)}
}

// Name returns the adapter identifier.
func (a *HTTPAdapter) Name() string { return "http" }

// Platform returns the transport this adapter serves.
func (a *HTTPAdapter) Platform() Platform { return PlatformHTTP }

// Handle binds one route. Per request it validates method and input,
// builds the context envelope, runs the engine, and serializes the
// outcome. The engine never panics, so no recovery happens here.
func (a *HTTPAdapter) Handle(route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if route.Method != "" && r.Method != route.Method {
			a.writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyBytes))
		if err != nil {
			a.writeError(w, http.StatusBadRequest, "failed to read request body", nil)
			return
		}

		// Validation runs strictly before the engine; hooks only ever
		// see validated input.
		input, verrs := route.Input.Validate(body)
		if verrs != nil {
			a.writeError(w, http.StatusBadRequest, "validation failed", verrs)
			return
		}

		platform := &HTTPPlatform{Writer: w, Request: r}
		ctx := hooks.NewContext(NormalizeRequest(r, body), platform, route.ID, input)
		carryRequestID(r, ctx)

		out := a.engine.Execute(route.Hooks, route.Handler, ctx)
		a.requests.LogOutcome(outcomeInfo(ctx, route.ID, out))
		a.WriteOutcome(w, route, out)
	}
}

// WriteOutcome serializes an engine outcome into the wire envelope,
// using the outcome status as the HTTP status code.
func (a *HTTPAdapter) WriteOutcome(w http.ResponseWriter, route Route, out lifecycle.Outcome) {
	if !out.Success {
		status := out.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		a.writeError(w, status, out.Error, nil)
		return
	}

	if route.Output != nil {
		if verrs := checkOutput(route.Output, out.Data); verrs != nil {
			a.logger.Error().
				Str("route", route.ID).
				Interface("violations", verrs).
				Msg("handler data failed output schema")
			a.writeError(w, http.StatusInternalServerError, "response validation failed", nil)
			return
		}
	}

	body, err := response.Success(out.Data)
	if err != nil {
		a.logger.Error().Str("route", route.ID).Str("error", err.Error()).Msg("response encoding failed")
		a.writeError(w, http.StatusInternalServerError, "failed to encode response", nil)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (a *HTTPAdapter) writeError(w http.ResponseWriter, status int, message string, details any) {
	body, err := response.Error(status, message, details)
	if err != nil {
		http.Error(w, message, status)
		return
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// checkOutput round-trips handler data through JSON to validate it
// against the output schema.
func checkOutput(s *schema.Schema, data any) []schema.FieldError {
	raw, err := json.Marshal(data)
	if err != nil {
		return []schema.FieldError{{Message: "data is not serializable", Code: "invalid_json"}}
	}
	_, verrs := s.Validate(raw)
	return verrs
}

// carryRequestID copies the middleware-assigned request id into the
// shared bag so hooks (audit) can correlate.
func carryRequestID(r *http.Request, ctx *hooks.Context) {
	if id := monitoring.RequestIDFromContext(r.Context()); id != "" {
		ctx.Set("request_id", id)
	}
}

// outcomeInfo assembles the trace record for one terminal outcome.
func outcomeInfo(ctx *hooks.Context, routeID string, out lifecycle.Outcome) *monitoring.OutcomeInfo {
	info := &monitoring.OutcomeInfo{
		Route:  routeID,
		Kind:   out.Kind,
		Status: out.Status,
		Error:  out.Error,
	}
	if id, ok := ctx.Get("request_id"); ok {
		info.RequestID, _ = id.(string)
	}
	return info
}

// Ensure HTTPAdapter implements Adapter
var _ Adapter = (*HTTPAdapter)(nil)
