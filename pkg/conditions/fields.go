package conditions

import (
	"bytes"
	"encoding/json"
)

// fields is a decoded condition object, kept raw so every field can be
// type-checked individually and reported by name.
type fields map[string]json.RawMessage

func parseFields(data []byte) (fields, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, &ValidationError{Field: "data", Value: preview(trimmed), Reason: "must be an object and not an array"}
	}
	var f fields
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil, &ValidationError{Field: "data", Value: preview(trimmed), Reason: err.Error()}
	}
	return f, nil
}

// has reports whether name is present and not null.
func (f fields) has(name string) bool {
	raw, ok := f[name]
	return ok && !isNull(raw)
}

// decode unmarshals name into v. Absent and null fields leave v untouched.
func (f fields) decode(name string, v any, expected string) error {
	if !f.has(name) {
		return nil
	}
	raw := f[name]
	if err := json.Unmarshal(raw, v); err != nil {
		return &ValidationError{Field: name, Value: preview(raw), Reason: "must be " + expected}
	}
	return nil
}

func (f fields) string(name string) (string, error) {
	var s string
	err := f.decode(name, &s, "a string")
	return s, err
}

func (f fields) number(name string) (float64, error) {
	var n float64
	err := f.decode(name, &n, "a number")
	return n, err
}

func (f fields) ids() (string, Type, error) {
	id, err := f.string("id")
	if err != nil {
		return "", "", err
	}
	tag, err := f.string("type")
	if err != nil {
		return "", "", err
	}
	return id, Type(tag), nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func preview(raw []byte) string {
	const max = 64
	if len(raw) > max {
		return string(raw[:max]) + "..."
	}
	return string(raw)
}
