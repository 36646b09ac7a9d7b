package builtin

import (
	"fmt"
	"time"

	"github.com/snrraptopack/auwsomebridge-sub000/internal/hooks"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/monitoring"
)

// StartedAtKey is the Values key holding the request start time stamped
// by the timing hook's before phase.
const StartedAtKey = "started_at"

// TimingConfig configures one timing hook instance.
type TimingConfig struct {
	Logger *monitoring.Logger
}

// Timing returns a hook instance that stamps the start time before the
// handler and logs the total lifecycle duration during cleanup. Other
// hooks (audit) read StartedAtKey for their own duration fields.
func Timing(cfg TimingConfig) (hooks.Hook, error) {
	factory, err := hooks.NewFactory(hooks.Definition{
		Name: "timing",
		Setup: func(cfgValue any) (any, error) {
			c, ok := cfgValue.(TimingConfig)
			if !ok {
				return nil, fmt.Errorf("timing: config must be builtin.TimingConfig")
			}
			if c.Logger == nil {
				c.Logger = monitoring.NewNop()
			}
			return c.Logger, nil
		},
		Before: func(c *hooks.Context, state any) hooks.Result {
			c.Set(StartedAtKey, time.Now())
			return hooks.Continue()
		},
		Cleanup: func(c *hooks.CleanupContext, state any) {
			logger := state.(*monitoring.Logger)
			started, ok := c.Get(StartedAtKey)
			if !ok {
				return
			}
			startTime, ok := started.(time.Time)
			if !ok {
				return
			}
			logger.Debug().
				Str("route", c.Route).
				Bool("success", c.Success).
				Dur("duration", time.Since(startTime)).
				Msg("lifecycle timing")
		},
	})
	if err != nil {
		return hooks.Hook{}, err
	}
	return factory(cfg)
}
