// Package response builds the wire envelopes adapters serialize engine
// outcomes into.
//
// DESIGN: Two envelope shapes, patched together with sjson:
//
//	{"status":"success","data":...,"timestamp":"..."}
//	{"status":"error","error":"...","code":"...","details":...,"timestamp":"..."}
//
// The transport status code travels out of band (HTTP status, websocket
// close code); the envelope only carries the symbolic code derived from it.
package response

import (
	"net/http"
	"time"

	"github.com/tidwall/sjson"
)

// Success serializes a success outcome's data into the success envelope.
func Success(data any) ([]byte, error) {
	body := []byte(`{"status":"success"}`)
	body, err := sjson.SetBytes(body, "data", data)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(body, "timestamp", timestamp())
}

// Error serializes a failure outcome into the error envelope. details is
// optional (validation violations, for example) and omitted when nil.
func Error(status int, message string, details any) ([]byte, error) {
	body := []byte(`{"status":"error"}`)
	body, err := sjson.SetBytes(body, "error", message)
	if err != nil {
		return nil, err
	}
	body, err = sjson.SetBytes(body, "code", CodeFor(status))
	if err != nil {
		return nil, err
	}
	if details != nil {
		body, err = sjson.SetBytes(body, "details", details)
		if err != nil {
			return nil, err
		}
	}
	return sjson.SetBytes(body, "timestamp", timestamp())
}

// CodeFor maps a transport status to the envelope's symbolic code.
func CodeFor(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "unprocessable"
	case http.StatusTooManyRequests:
		return "rate_limited"
	}
	if status >= 500 {
		return "internal_error"
	}
	return "error"
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
