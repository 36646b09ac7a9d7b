package hooks

import (
	"net/http"
	"net/url"
)

// Request is the normalized request representation handed to hooks and
// handlers. Adapters build it from their native transport object; hooks
// never see the wire format directly.
type Request struct {
	Method     string
	Path       string
	Header     http.Header
	Query      url.Values
	Params     map[string]string
	Body       []byte
	RemoteAddr string
	// Raw holds the underlying transport-specific request object
	// (e.g. *http.Request or a websocket accept request) for escape hatches.
	Raw any
}

// Context is the invocation envelope for one request. Constructed once by
// the transport adapter before the engine runs, discarded after the
// adapter has written its response.
//
// Values is the sole channel for hooks to pass data forward: before hooks
// write, later hooks and the handler read. It is shared by reference
// across all phases. Cleanup hooks should treat it as read-only.
type Context struct {
	// Req is the normalized request.
	Req *Request

	// Platform is the opaque native transport object, passed through
	// untouched for advanced use.
	Platform any

	// Method is the resolved HTTP method.
	Method string

	// Route identifies the matched route registration.
	Route string

	// Input is the already-validated request input. Validation happens
	// strictly before the engine runs; hooks never see raw input.
	Input any

	// Values is the mutable shared bag.
	Values map[string]any
}

// NewContext builds the envelope for one request. Values starts empty
// except for the platform handle, so handlers can reach the native
// object without touching Context itself.
func NewContext(req *Request, platform any, route string, input any) *Context {
	values := make(map[string]any)
	if platform != nil {
		values["platform"] = platform
	}
	method := ""
	if req != nil {
		method = req.Method
	}
	return &Context{
		Req:      req,
		Platform: platform,
		Method:   method,
		Route:    route,
		Input:    input,
		Values:   values,
	}
}

// Get reads a key from the shared bag.
func (c *Context) Get(key string) (any, bool) {
	v, ok := c.Values[key]
	return v, ok
}

// Set writes a key into the shared bag.
func (c *Context) Set(key string, v any) {
	c.Values[key] = v
}

// AfterContext is the envelope passed to after hooks: the request context
// plus the handler's raw or previously-transformed response. Response is
// replaced only via the hook's return value, never in place.
type AfterContext struct {
	*Context
	Response any
}

// Failure carries the terminal failure outcome shown to cleanup hooks.
type Failure struct {
	Status  int
	Message string
}

// CleanupContext is the envelope passed to cleanup hooks once the
// terminal outcome is fixed. Response is set only on success; Failure is
// set only on failure. Cleanup hooks cannot change either.
type CleanupContext struct {
	*Context
	Success  bool
	Response any
	Failure  *Failure
}
