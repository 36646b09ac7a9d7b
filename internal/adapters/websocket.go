package adapters

import (
	"context"
	"net/http"

	"github.com/coder/websocket"

	"github.com/snrraptopack/auwsomebridge-sub000/internal/hooks"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/lifecycle"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/monitoring"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/response"
)

// WSPlatform is the platform handle websocket connections carry through
// the lifecycle. The route handler streams over Conn using Ctx.
type WSPlatform struct {
	Conn *websocket.Conn
	Ctx  context.Context
}

// WSAdapter serves streaming routes over websocket. The same engine
// runs the connection's lifecycle: before hooks gate the stream (a
// rejection closes the socket with the error envelope), the handler owns
// the read/write loop, and cleanup hooks run when the connection ends -
// whatever ended it.
type WSAdapter struct {
	engine   *lifecycle.Engine
	logger   *monitoring.Logger
	requests *monitoring.RequestLogger
}

// NewWSAdapter creates the websocket transport binding.
func NewWSAdapter(engine *lifecycle.Engine, logger *monitoring.Logger) *WSAdapter {
	if logger == nil {
		logger = monitoring.NewNop()
	}
	return &WSAdapter{engine: engine, logger: logger, requests: monitoring.NewRequestLogger(logger)}
}

// Name returns the adapter identifier.
func (a *WSAdapter) Name() string { return "websocket" }

// Platform returns the transport this adapter serves.
func (a *WSAdapter) Platform() Platform { return PlatformWebSocket }

// Handle binds one streaming route. Streaming routes take no input
// schema: there is no single request body to validate before upgrade.
func (a *WSAdapter) Handle(route Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			a.logger.Warn().
				Str("route", route.ID).
				Str("error", err.Error()).
				Msg("websocket accept failed")
			return
		}

		platform := &WSPlatform{Conn: conn, Ctx: r.Context()}
		ctx := hooks.NewContext(NormalizeRequest(r, nil), platform, route.ID, nil)
		carryRequestID(r, ctx)

		out := a.engine.Execute(route.Hooks, route.Handler, ctx)
		a.requests.LogOutcome(outcomeInfo(ctx, route.ID, out))
		if !out.Success {
			status := out.Status
			if status == 0 {
				status = http.StatusInternalServerError
			}
			if body, err := response.Error(status, out.Error, nil); err == nil {
				_ = conn.Write(r.Context(), websocket.MessageText, body)
			}
			_ = conn.Close(closeStatus(status), out.Error)
			return
		}
		_ = conn.Close(websocket.StatusNormalClosure, "")
	}
}

// closeStatus maps an outcome status to a websocket close code.
func closeStatus(status int) websocket.StatusCode {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return websocket.StatusPolicyViolation
	case status == http.StatusTooManyRequests:
		return websocket.StatusTryAgainLater
	case status >= 500:
		return websocket.StatusInternalError
	default:
		return websocket.StatusPolicyViolation
	}
}

// Ensure WSAdapter implements Adapter
var _ Adapter = (*WSAdapter)(nil)
