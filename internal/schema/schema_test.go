package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestValidateAcceptsMatchingBody verifies a conforming body decodes into
// the returned data value.
func TestValidateAcceptsMatchingBody(t *testing.T) {
	s := New(
		Field{Name: "name", Type: TypeString, Required: true},
		Field{Name: "count", Type: TypeNumber},
	)

	data, errs := s.Validate([]byte(`{"name":"widget","count":3}`))

	require.Nil(t, errs)
	m, ok := data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "widget", m["name"])
	assert.Equal(t, float64(3), m["count"])
}

// TestValidateMissingRequired verifies required fields produce a
// "required" violation and no data.
func TestValidateMissingRequired(t *testing.T) {
	s := New(Field{Name: "name", Type: TypeString, Required: true})

	data, errs := s.Validate([]byte(`{}`))

	assert.Nil(t, data)
	require.Len(t, errs, 1)
	assert.Equal(t, "name", errs[0].Path)
	assert.Equal(t, "required", errs[0].Code)
}

// TestValidateTypeMismatch verifies every violation is reported, not
// just the first.
func TestValidateTypeMismatch(t *testing.T) {
	s := New(
		Field{Name: "name", Type: TypeString, Required: true},
		Field{Name: "tags", Type: TypeArray, Required: true},
	)

	_, errs := s.Validate([]byte(`{"name":42,"tags":"not-an-array"}`))

	require.Len(t, errs, 2)
	assert.Equal(t, "invalid_type", errs[0].Code)
	assert.Equal(t, "invalid_type", errs[1].Code)
}

// TestValidateNestedPath verifies gjson paths reach nested fields.
func TestValidateNestedPath(t *testing.T) {
	s := New(Field{Name: "user.email", Type: TypeString, Required: true})

	_, errs := s.Validate([]byte(`{"user":{"email":"a@b.c"}}`))
	assert.Nil(t, errs)

	_, errs = s.Validate([]byte(`{"user":{}}`))
	require.Len(t, errs, 1)
	assert.Equal(t, "user.email", errs[0].Path)
}

// TestValidateInvalidJSON verifies malformed bodies fail with a single
// invalid_json violation.
func TestValidateInvalidJSON(t *testing.T) {
	s := New(Field{Name: "name", Type: TypeString})

	data, errs := s.Validate([]byte(`{"name":`))

	assert.Nil(t, data)
	require.Len(t, errs, 1)
	assert.Equal(t, "invalid_json", errs[0].Code)
}

// TestValidateNilSchema verifies a nil schema passes anything through.
func TestValidateNilSchema(t *testing.T) {
	var s *Schema

	data, errs := s.Validate([]byte(`{"anything":true}`))
	require.Nil(t, errs)
	assert.NotNil(t, data)

	data, errs = s.Validate(nil)
	require.Nil(t, errs)
	assert.Equal(t, map[string]any{}, data)
}

// TestValidateOptionalBool verifies optional fields may be absent but
// must type-check when present.
func TestValidateOptionalBool(t *testing.T) {
	s := New(Field{Name: "dry_run", Type: TypeBool})

	_, errs := s.Validate([]byte(`{}`))
	assert.Nil(t, errs)

	_, errs = s.Validate([]byte(`{"dry_run":false}`))
	assert.Nil(t, errs)

	_, errs = s.Validate([]byte(`{"dry_run":"yes"}`))
	require.Len(t, errs, 1)
	assert.Equal(t, "invalid_type", errs[0].Code)
}
