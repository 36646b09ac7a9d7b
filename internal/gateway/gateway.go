// Gateway wires config, stores, built-in hooks, the lifecycle engine and
// the transport adapters into one HTTP server.
//
// DESIGN: The gateway owns composition only. Per-request behavior lives
// in the engine (lifecycle/) and the adapters (adapters/); the gateway
// combines global and route hooks at registration time and mounts the
// resulting native handlers on its mux behind the middleware chain.
package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/snrraptopack/auwsomebridge-sub000/internal/adapters"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/config"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/hooks"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/hooks/builtin"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/lifecycle"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/monitoring"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/response"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/store"
)

// Gateway is the composed server.
type Gateway struct {
	config        *config.Config
	logger        *monitoring.Logger
	requestLogger *monitoring.RequestLogger
	metrics       *monitoring.MetricsCollector
	alerts        *monitoring.AlertManager
	engine        *lifecycle.Engine
	registry      *adapters.Registry
	globalHooks   []hooks.Hook
	audit         store.AuditStore
	cache         store.Cache
	mux           *http.ServeMux
	server        *http.Server
}

// New builds a gateway from validated configuration: logger, metrics,
// stores, engine, adapters, and the enabled built-in global hooks.
func New(cfg *config.Config) (*Gateway, error) {
	logger := monitoring.New(cfg.Logging)
	metrics := monitoring.NewMetricsCollector()

	g := &Gateway{
		config:        cfg,
		logger:        logger,
		requestLogger: monitoring.NewRequestLogger(logger),
		metrics:       metrics,
		alerts:        monitoring.NewAlertManager(logger, cfg.Alerts),
		engine:        lifecycle.New(logger, metrics),
		mux:           http.NewServeMux(),
	}
	g.registry = adapters.NewRegistry(g.engine, logger)

	if err := g.openStores(); err != nil {
		return nil, err
	}
	if err := g.buildGlobalHooks(); err != nil {
		g.closeStores()
		return nil, err
	}

	g.mux.HandleFunc("/healthz", g.handleHealthz)
	g.mux.HandleFunc("/metrics", g.handleMetrics)

	return g, nil
}

func (g *Gateway) openStores() error {
	if g.config.Hooks.Audit.Enabled {
		audit, err := store.NewSQLiteStore(g.config.Store.AuditPath)
		if err != nil {
			return fmt.Errorf("failed to open audit store: %w", err)
		}
		g.audit = audit
	}
	if g.config.Hooks.Cache.Enabled {
		g.cache = store.NewMemoryCache(g.config.Store.CacheTTL)
	}
	return nil
}

func (g *Gateway) closeStores() {
	if g.audit != nil {
		_ = g.audit.Close()
	}
	if g.cache != nil {
		_ = g.cache.Close()
	}
}

// buildGlobalHooks instantiates the enabled built-ins in schedule order:
// timing stamps first so every later hook and the audit trail can read
// the start time; audit goes last so its cleanup sees a settled bag.
func (g *Gateway) buildGlobalHooks() error {
	hc := g.config.Hooks

	if hc.Timing.Enabled {
		h, err := builtin.Timing(builtin.TimingConfig{Logger: g.logger})
		if err != nil {
			return err
		}
		g.globalHooks = append(g.globalHooks, h)
	}
	if hc.RateLimit.Enabled {
		h, err := builtin.RateLimit(hc.RateLimit)
		if err != nil {
			return err
		}
		g.globalHooks = append(g.globalHooks, h)
	}
	if hc.Auth.Enabled {
		h, err := builtin.Auth(hc.Auth)
		if err != nil {
			return err
		}
		g.globalHooks = append(g.globalHooks, h)
	}
	if hc.Cache.Enabled {
		h, err := builtin.Cache(builtin.CacheConfig{Cache: g.cache, Routes: hc.Cache.Routes})
		if err != nil {
			return err
		}
		g.globalHooks = append(g.globalHooks, h)
	}
	if hc.Audit.Enabled {
		h, err := builtin.Audit(builtin.AuditConfig{Store: g.audit, Logger: g.logger})
		if err != nil {
			return err
		}
		g.globalHooks = append(g.globalHooks, h)
	}
	return nil
}

// Use appends global hooks beyond the config-driven built-ins. Must be
// called before the routes they should cover are registered.
func (g *Gateway) Use(hs ...hooks.Hook) {
	g.globalHooks = append(g.globalHooks, hs...)
}

// RegisterRoute mounts a route on the HTTP transport. The route's hooks
// are combined behind the global hooks at registration time.
func (g *Gateway) RegisterRoute(path string, route adapters.Route) error {
	return g.register(path, route, "http")
}

// RegisterStream mounts a streaming route on the websocket transport.
func (g *Gateway) RegisterStream(path string, route adapters.Route) error {
	return g.register(path, route, "websocket")
}

func (g *Gateway) register(path string, route adapters.Route, adapterName string) error {
	if path == "" {
		return fmt.Errorf("route path is required")
	}
	if route.ID == "" {
		return fmt.Errorf("route id is required for path '%s'", path)
	}
	if route.Handler == nil {
		return fmt.Errorf("route '%s' requires a handler", route.ID)
	}
	adapter := g.registry.Get(adapterName)
	if adapter == nil {
		return fmt.Errorf("unknown adapter '%s'", adapterName)
	}

	route.Hooks = lifecycle.CombineHooks(g.globalHooks, route.Hooks)
	g.mux.Handle(path, adapter.Handle(route))

	g.logger.Info().
		Str("route", route.ID).
		Str("path", path).
		Str("adapter", adapterName).
		Int("hooks", len(route.Hooks)).
		Msg("route registered")
	return nil
}

// Handler returns the mux wrapped in the middleware chain.
func (g *Gateway) Handler() http.Handler {
	var handler http.Handler = g.mux
	handler = g.loggingMiddleware(handler)
	handler = g.security(handler)
	handler = g.panicRecovery(handler)
	return handler
}

// Start runs the HTTP server until Shutdown.
func (g *Gateway) Start() error {
	g.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", g.config.Server.Port),
		Handler:      g.Handler(),
		ReadTimeout:  g.config.Server.ReadTimeout,
		WriteTimeout: g.config.Server.WriteTimeout,
	}
	g.logger.Info().Int("port", g.config.Server.Port).Msg("listening")
	if err := g.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server and releases the stores.
func (g *Gateway) Shutdown(ctx context.Context) error {
	var err error
	if g.server != nil {
		err = g.server.Shutdown(ctx)
	}
	g.closeStores()
	return err
}

func (g *Gateway) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (g *Gateway) handleMetrics(w http.ResponseWriter, r *http.Request) {
	body, err := response.Success(g.metrics.Stats())
	if err != nil {
		g.writeError(w, "failed to encode metrics", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// writeError writes the wire error envelope; used by middleware paths
// that fail before any adapter is involved.
func (g *Gateway) writeError(w http.ResponseWriter, message string, status int) {
	body, err := response.Error(status, message, nil)
	if err != nil {
		http.Error(w, message, status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
