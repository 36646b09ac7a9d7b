package builtin

import (
	"fmt"
	"time"

	"github.com/snrraptopack/auwsomebridge-sub000/internal/hooks"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/monitoring"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/store"
)

// RequestIDKey is the Values key under which the gateway publishes the
// request id before the engine runs.
const RequestIDKey = "request_id"

// AuditConfig configures one audit hook instance.
type AuditConfig struct {
	Store  store.AuditStore
	Logger *monitoring.Logger
}

// Audit returns a cleanup hook instance writing every terminal outcome
// to the audit trail. Write failures are logged and swallowed: cleanup
// cannot alter an already-fixed outcome.
func Audit(cfg AuditConfig) (hooks.Hook, error) {
	factory, err := hooks.NewFactory(hooks.Definition{
		Name: "audit",
		Setup: func(cfgValue any) (any, error) {
			c, ok := cfgValue.(AuditConfig)
			if !ok {
				return nil, fmt.Errorf("audit: config must be builtin.AuditConfig")
			}
			if c.Store == nil {
				return nil, fmt.Errorf("audit: a store.AuditStore is required")
			}
			if c.Logger == nil {
				c.Logger = monitoring.NewNop()
			}
			return &c, nil
		},
		Cleanup: func(c *hooks.CleanupContext, state any) {
			s := state.(*AuditConfig)
			rec := store.OutcomeRecord{
				Route:   c.Route,
				Method:  c.Method,
				Success: c.Success,
				Kind:    "success",
			}
			if id, ok := c.Get(RequestIDKey); ok {
				rec.RequestID, _ = id.(string)
			}
			if started, ok := c.Get(StartedAtKey); ok {
				if t, ok := started.(time.Time); ok {
					rec.Duration = time.Since(t)
				}
			}
			if !c.Success {
				rec.Kind = "failure"
				if c.Failure != nil {
					rec.Status = c.Failure.Status
					rec.Error = c.Failure.Message
				}
			}
			if err := s.Store.RecordOutcome(rec); err != nil {
				s.Logger.Warn().
					Str("request_id", rec.RequestID).
					Str("route", rec.Route).
					Str("error", err.Error()).
					Msg("audit write failed")
			}
		},
	})
	if err != nil {
		return hooks.Hook{}, err
	}
	return factory(cfg)
}
