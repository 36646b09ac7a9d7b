package response

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// TestSuccessEnvelope verifies the success shape and timestamp format.
func TestSuccessEnvelope(t *testing.T) {
	body, err := Success(map[string]any{"id": 1})
	require.NoError(t, err)

	assert.Equal(t, "success", gjson.GetBytes(body, "status").String())
	assert.Equal(t, int64(1), gjson.GetBytes(body, "data.id").Int())

	ts := gjson.GetBytes(body, "timestamp").String()
	_, err = time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
}

// TestSuccessNilData verifies nil data still serializes (as JSON null).
func TestSuccessNilData(t *testing.T) {
	body, err := Success(nil)
	require.NoError(t, err)

	assert.Equal(t, "success", gjson.GetBytes(body, "status").String())
	assert.Equal(t, gjson.Null, gjson.GetBytes(body, "data").Type)
}

// TestErrorEnvelope verifies the error shape with and without details.
func TestErrorEnvelope(t *testing.T) {
	body, err := Error(401, "no token", nil)
	require.NoError(t, err)

	assert.Equal(t, "error", gjson.GetBytes(body, "status").String())
	assert.Equal(t, "no token", gjson.GetBytes(body, "error").String())
	assert.Equal(t, "unauthorized", gjson.GetBytes(body, "code").String())
	assert.False(t, gjson.GetBytes(body, "details").Exists())

	details := []map[string]string{{"path": "name", "code": "required"}}
	body, err = Error(400, "validation failed", details)
	require.NoError(t, err)
	assert.Equal(t, "invalid_request", gjson.GetBytes(body, "code").String())
	assert.Equal(t, "name", gjson.GetBytes(body, "details.0.path").String())
}

// TestCodeFor verifies the status → code mapping.
func TestCodeFor(t *testing.T) {
	assert.Equal(t, "unauthorized", CodeFor(401))
	assert.Equal(t, "forbidden", CodeFor(403))
	assert.Equal(t, "rate_limited", CodeFor(429))
	assert.Equal(t, "internal_error", CodeFor(500))
	assert.Equal(t, "internal_error", CodeFor(503))
	assert.Equal(t, "error", CodeFor(418))
}
