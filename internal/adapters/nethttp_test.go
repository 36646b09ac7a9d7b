package adapters

// HTTP Adapter Unit Tests
//
// Drives routes through httptest and checks the wire envelopes for the
// main outcome shapes: success, validation failure, rejection
// passthrough, early response, and output schema enforcement.

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/snrraptopack/auwsomebridge-sub000/internal/hooks"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/lifecycle"
	"github.com/snrraptopack/auwsomebridge-sub000/internal/schema"
)

func testAdapter() *HTTPAdapter {
	return NewHTTPAdapter(lifecycle.New(nil, nil), nil)
}

func doRequest(t *testing.T, route Route, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	testAdapter().Handle(route)(rec, req)
	return rec
}

// TestHandleSuccess verifies the success envelope with handler data.
func TestHandleSuccess(t *testing.T) {
	route := Route{
		ID:     "ping",
		Method: "GET",
		Handler: func(input any, values map[string]any) (any, error) {
			return map[string]any{"msg": "hi"}, nil
		},
	}

	rec := doRequest(t, route, "GET", "/ping", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "success", gjson.Get(rec.Body.String(), "status").String())
	assert.Equal(t, "hi", gjson.Get(rec.Body.String(), "data.msg").String())
	assert.True(t, gjson.Get(rec.Body.String(), "timestamp").Exists())
}

// TestHandleMethodNotAllowed verifies the 405 path.
func TestHandleMethodNotAllowed(t *testing.T) {
	route := Route{
		ID:     "items.create",
		Method: "POST",
		Handler: func(input any, values map[string]any) (any, error) {
			return nil, nil
		},
	}

	rec := doRequest(t, route, "GET", "/items", "")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "method_not_allowed", gjson.Get(rec.Body.String(), "code").String())
}

// TestHandleValidationFailure verifies validation answers 400 with
// details and the engine never runs.
func TestHandleValidationFailure(t *testing.T) {
	handlerRan := false
	route := Route{
		ID:     "items.create",
		Method: "POST",
		Input:  schema.New(schema.Field{Name: "name", Type: schema.TypeString, Required: true}),
		Handler: func(input any, values map[string]any) (any, error) {
			handlerRan = true
			return nil, nil
		},
	}

	rec := doRequest(t, route, "POST", "/items", `{}`)

	assert.False(t, handlerRan)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, "invalid_request", gjson.Get(body, "code").String())
	assert.Equal(t, "name", gjson.Get(body, "details.0.path").String())
	assert.Equal(t, "required", gjson.Get(body, "details.0.code").String())
}

// TestHandleValidatedInputReachesHandler verifies the handler receives
// decoded input, not raw bytes.
func TestHandleValidatedInputReachesHandler(t *testing.T) {
	route := Route{
		ID:     "items.create",
		Method: "POST",
		Input:  schema.New(schema.Field{Name: "name", Type: schema.TypeString, Required: true}),
		Handler: func(input any, values map[string]any) (any, error) {
			m := input.(map[string]any)
			return map[string]any{"created": m["name"]}, nil
		},
	}

	rec := doRequest(t, route, "POST", "/items", `{"name":"widget"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "widget", gjson.Get(rec.Body.String(), "data.created").String())
}

// TestHandleHookRejection verifies a hook-authored status passes through
// as the HTTP status.
func TestHandleHookRejection(t *testing.T) {
	route := Route{
		ID: "private",
		Hooks: []hooks.Hook{
			hooks.NewLifecycle("auth", func(c *hooks.Context) hooks.Result {
				return hooks.Reject(401, "no token")
			}, nil, nil),
		},
		Handler: func(input any, values map[string]any) (any, error) {
			return nil, nil
		},
	}

	rec := doRequest(t, route, "GET", "/private", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, "error", gjson.Get(body, "status").String())
	assert.Equal(t, "no token", gjson.Get(body, "error").String())
	assert.Equal(t, "unauthorized", gjson.Get(body, "code").String())
}

// TestHandleEarlyResponse verifies a before-hook short-circuit
// serializes as a normal success.
func TestHandleEarlyResponse(t *testing.T) {
	route := Route{
		ID: "cached",
		Hooks: []hooks.Hook{
			hooks.NewLifecycle("cache", func(c *hooks.Context) hooks.Result {
				return hooks.Respond(map[string]any{"cached": true})
			}, nil, nil),
		},
		Handler: func(input any, values map[string]any) (any, error) {
			t.Fatal("handler must not run")
			return nil, nil
		},
	}

	rec := doRequest(t, route, "GET", "/cached", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gjson.Get(rec.Body.String(), "data.cached").Bool())
}

// TestHandleHandlerFault verifies handler errors surface as 500 with the
// internal_error code.
func TestHandleHandlerFault(t *testing.T) {
	route := Route{
		ID: "broken",
		Handler: func(input any, values map[string]any) (any, error) {
			panic("boom")
		},
	}

	rec := doRequest(t, route, "GET", "/broken", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", gjson.Get(rec.Body.String(), "code").String())
	assert.Equal(t, "boom", gjson.Get(rec.Body.String(), "error").String())
}

// TestHandleOutputSchema verifies non-conforming handler data becomes a
// 500 instead of leaking.
func TestHandleOutputSchema(t *testing.T) {
	route := Route{
		ID:     "strict",
		Output: schema.New(schema.Field{Name: "id", Type: schema.TypeNumber, Required: true}),
		Handler: func(input any, values map[string]any) (any, error) {
			return map[string]any{"wrong": true}, nil
		},
	}

	rec := doRequest(t, route, "GET", "/strict", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "response validation failed", gjson.Get(rec.Body.String(), "error").String())
}

// TestPlatformHandleReachesHooks verifies the native objects ride along
// in the platform handle and the Values bag.
func TestPlatformHandleReachesHooks(t *testing.T) {
	var sawPlatform bool
	route := Route{
		ID: "native",
		Hooks: []hooks.Hook{
			hooks.NewLifecycle("probe", func(c *hooks.Context) hooks.Result {
				p, ok := c.Platform.(*HTTPPlatform)
				sawPlatform = ok && p.Request != nil && p.Writer != nil
				fromValues, _ := c.Get("platform")
				if fromValues != c.Platform {
					sawPlatform = false
				}
				return hooks.Continue()
			}, nil, nil),
		},
		Handler: func(input any, values map[string]any) (any, error) {
			return nil, nil
		},
	}

	doRequest(t, route, "GET", "/native", "")
	assert.True(t, sawPlatform)
}

// TestRegistryBuiltins verifies both transports register at startup.
func TestRegistryBuiltins(t *testing.T) {
	reg := NewRegistry(lifecycle.New(nil, nil), nil)

	require.NotNil(t, reg.Get("http"))
	assert.Equal(t, PlatformHTTP, reg.Get("http").Platform())
	require.NotNil(t, reg.Get("websocket"))
	assert.Equal(t, PlatformWebSocket, reg.Get("websocket").Platform())
	assert.Nil(t, reg.Get("grpc"))
}
