// Package adapters binds the lifecycle engine to concrete transports.
//
// DESIGN: The engine is transport-agnostic; each adapter owns the thin
// translation in both directions:
//
//	native request → validate input → hooks.Context → engine.Execute
//	engine Outcome → wire envelope → native response
//
// Adapters contain no orchestration logic of their own - short-circuits,
// rejections and cleanup guarantees all live in the engine, so the same
// route behaves identically over HTTP and websocket.
//
// To add a new transport: implement Adapter, translate in and out, and
// register it in the Registry.
package adapters

import (
	"net/http"

	"github.com/snrraptopack/auwsomebridge-sub000/internal/hooks"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/lifecycle"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/schema"
)

// MaxBodyBytes caps how much request body an adapter will read.
const MaxBodyBytes = 1 << 20 // 1 MiB

// Platform identifies the transport an adapter serves.
type Platform string

const (
	PlatformHTTP      Platform = "http"
	PlatformWebSocket Platform = "websocket"
)

// Adapter is one transport binding.
type Adapter interface {
	// Name returns the adapter identifier (e.g. "http", "websocket").
	Name() string

	// Platform returns the transport this adapter serves.
	Platform() Platform

	// Handle binds one route registration into a native HTTP handler.
	// (Websocket routes also enter through an HTTP upgrade request.)
	Handle(route Route) http.HandlerFunc
}

// Route is one route registration as the adapter consumes it: the hook
// list is already combined (global then route-specific) by the gateway.
type Route struct {
	// ID identifies the route ("items.create"); diagnostics and cache keys.
	ID string

	// Method restricts the HTTP method. Empty accepts any.
	Method string

	// Hooks is the combined global+route hook list, in schedule order.
	Hooks []hooks.Hook

	// Handler is the terminal handler.
	Handler lifecycle.HandlerFunc

	// Input optionally validates the request body before the engine runs.
	Input *schema.Schema

	// Output optionally validates handler data before serialization.
	Output *schema.Schema
}

// NormalizeRequest translates a native HTTP request into the engine's
// request shape. body is the already-read (and capped) request body.
func NormalizeRequest(r *http.Request, body []byte) *hooks.Request {
	return &hooks.Request{
		Method:     r.Method,
		Path:       r.URL.Path,
		Header:     r.Header,
		Query:      r.URL.Query(),
		Params:     map[string]string{},
		Body:       body,
		RemoteAddr: r.RemoteAddr,
		Raw:        r,
	}
}
