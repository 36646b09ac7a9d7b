// Package schema validates raw request input before the lifecycle engine
// runs.
//
// DESIGN: Flat field schemas over JSON bodies, evaluated with gjson. The
// engine treats validation as an opaque collaborator: adapters call
// Validate and hooks only ever see already-validated input. Validation
// failures never reach the engine - the adapter answers 400 directly.
package schema

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// FieldType names the accepted JSON type for a field.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeNumber FieldType = "number"
	TypeBool   FieldType = "bool"
	TypeObject FieldType = "object"
	TypeArray  FieldType = "array"
)

// Field describes one expected input field. Name is a gjson path, so
// nested fields ("user.email") work without nested schema types.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
}

// Schema is an ordered set of field expectations.
type Schema struct {
	Fields []Field
}

// New creates a schema from field expectations.
func New(fields ...Field) *Schema {
	return &Schema{Fields: fields}
}

// FieldError describes one validation failure in the wire shape adapters
// serialize into the error envelope's details.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Validate checks raw JSON against the schema. On success it returns the
// decoded value (a map for objects) and a nil error slice; on failure the
// slice holds every violation found.
//
// A nil schema accepts anything, including an empty body.
func (s *Schema) Validate(raw []byte) (any, []FieldError) {
	if len(raw) == 0 {
		raw = []byte(`{}`)
	}
	if !gjson.ValidBytes(raw) {
		return nil, []FieldError{{
			Path:    "",
			Message: "body is not valid JSON",
			Code:    "invalid_json",
		}}
	}

	parsed := gjson.ParseBytes(raw)
	if s == nil {
		return parsed.Value(), nil
	}

	var errs []FieldError
	for _, f := range s.Fields {
		value := parsed.Get(f.Name)
		if !value.Exists() {
			if f.Required {
				errs = append(errs, FieldError{
					Path:    f.Name,
					Message: fmt.Sprintf("%s is required", f.Name),
					Code:    "required",
				})
			}
			continue
		}
		if !matchesType(value, f.Type) {
			errs = append(errs, FieldError{
				Path:    f.Name,
				Message: fmt.Sprintf("%s must be a %s", f.Name, f.Type),
				Code:    "invalid_type",
			})
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return parsed.Value(), nil
}

func matchesType(value gjson.Result, t FieldType) bool {
	switch t {
	case TypeString:
		return value.Type == gjson.String
	case TypeNumber:
		return value.Type == gjson.Number
	case TypeBool:
		return value.Type == gjson.True || value.Type == gjson.False
	case TypeObject:
		return value.IsObject()
	case TypeArray:
		return value.IsArray()
	default:
		return false
	}
}
