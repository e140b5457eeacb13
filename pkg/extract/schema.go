package extract

import (
	"encoding/json"
	"fmt"
	"sort"

	"ai-workflow-be/pkg/apperror"
)

// ValueKind is the JSON type a schema expects.
type ValueKind int

const (
	Any ValueKind = iota
	Object
	Array
	String
	Number
	Bool
)

func (k ValueKind) String() string {
	switch k {
	case Object:
		return "object"
	case Array:
		return "array"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "boolean"
	}
	return "any"
}

// Schema declares the shape a decoded response must have.
type Schema struct {
	Name string
	Kind ValueKind
	// Fields lists required object keys and their kinds.
	Fields map[string]ValueKind
	// Item validates each element when Kind is Array.
	Item *Schema
	// MinItems is the minimum array length.
	MinItems int
}

// Validate checks v against the schema. raw is attached to the error for
// diagnostics.
func (s Schema) Validate(v any, raw string) error {
	if msg := s.check(v, s.Name); msg != "" {
		return apperror.InvalidShape(msg, raw)
	}
	return nil
}

func (s Schema) check(v any, path string) string {
	if path == "" {
		path = "response"
	}
	if !kindMatches(s.Kind, v) {
		return fmt.Sprintf("%s: expected %s", path, s.Kind)
	}

	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(s.Fields))
		for k := range s.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			field, ok := val[k]
			if !ok || field == nil {
				return fmt.Sprintf("%s: missing required key %q", path, k)
			}
			if !kindMatches(s.Fields[k], field) {
				return fmt.Sprintf("%s.%s: expected %s", path, k, s.Fields[k])
			}
		}
	case []any:
		if len(val) < s.MinItems {
			return fmt.Sprintf("%s: expected at least %d items, got %d", path, s.MinItems, len(val))
		}
		if s.Item != nil {
			for i, item := range val {
				if msg := s.Item.check(item, fmt.Sprintf("%s[%d]", path, i)); msg != "" {
					return msg
				}
			}
		}
	}
	return ""
}

func kindMatches(k ValueKind, v any) bool {
	switch k {
	case Object:
		_, ok := v.(map[string]any)
		return ok
	case Array:
		_, ok := v.([]any)
		return ok
	case String:
		_, ok := v.(string)
		return ok
	case Number:
		_, ok := v.(float64)
		return ok
	case Bool:
		_, ok := v.(bool)
		return ok
	}
	return true
}

// Decode extracts JSON from raw, validates it and unmarshals it into out.
func Decode(raw string, schema Schema, out any) error {
	v, err := Extract(raw)
	if err != nil {
		return err
	}
	return bind(v, raw, schema, out)
}

func bind(v any, raw string, schema Schema, out any) error {
	if err := schema.Validate(v, raw); err != nil {
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return apperror.Malformed("re-encoding model response", raw, err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return apperror.InvalidShape(fmt.Sprintf("%s: %v", schema.Name, err), raw)
	}
	return nil
}

// DecodeTextField decodes free-text tolerant output. A JSON object carrying
// field is accepted as is; anything else that is plain text is returned whole.
func DecodeTextField(raw, field string) (string, error) {
	v, err := ExtractText(raw)
	if err != nil {
		return "", err
	}
	switch val := v.(type) {
	case string:
		return val, nil
	case map[string]any:
		if s, ok := val[field].(string); ok && s != "" {
			return s, nil
		}
		return "", apperror.InvalidShape(fmt.Sprintf("response: missing required key %q", field), raw)
	}
	return "", apperror.InvalidShape("response: expected text or object", raw)
}
