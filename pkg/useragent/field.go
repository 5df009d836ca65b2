package useragent

import (
	"bytes"
	"encoding/json"
)

// Field is an optional string. The zero value is absent, which is distinct
// from a present empty string.
type Field struct {
	value string
	set   bool
}

// Some returns a present field holding s.
func Some(s string) Field { return Field{value: s, set: true} }

// None returns an absent field.
func None() Field { return Field{} }

// Optional returns Some(s) for non-empty s and None otherwise.
func Optional(s string) Field {
	if s == "" {
		return Field{}
	}
	return Some(s)
}

// Get returns the value and whether it is present.
func (f Field) Get() (string, bool) { return f.value, f.set }

// IsSet reports whether the field is present.
func (f Field) IsSet() bool { return f.set }

// IsZero reports whether the field is absent. It makes `omitzero` drop absent fields.
func (f Field) IsZero() bool { return !f.set }

// Or returns the value, or def when the field is absent.
func (f Field) Or(def string) string {
	if !f.set {
		return def
	}
	return f.value
}

func (f Field) String() string {
	if !f.set {
		return "<none>"
	}
	return f.value
}

// MarshalJSON encodes an absent field as null.
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// UnmarshalJSON decodes null as absent.
func (f *Field) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = Field{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*f = Some(s)
	return nil
}
