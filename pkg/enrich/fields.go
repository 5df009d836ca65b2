package enrich

import (
	"encoding/json"
	"slices"

	"github.com/dmitrymomot/uakit/pkg/event"
)

// Entry is one emitted field.
type Entry struct {
	Key   Key
	Path  string
	Value string
}

// Fields is the output of one classification. It is owned by the caller
// and shares nothing with the lookup cache or other results.
type Fields struct {
	entries []Entry
}

// Len returns the number of emitted fields.
func (f Fields) Len() int { return len(f.entries) }

// IsZero reports whether nothing was emitted.
func (f Fields) IsZero() bool { return len(f.entries) == 0 }

// Entries returns the fields in layout order. The slice is a copy.
func (f Fields) Entries() []Entry { return slices.Clone(f.entries) }

// Get returns the value emitted for key.
func (f Fields) Get(key Key) (string, bool) {
	for _, e := range f.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Lookup returns the value emitted at the field reference path.
func (f Fields) Lookup(path string) (string, bool) {
	for _, e := range f.entries {
		if e.Path == path {
			return e.Value, true
		}
	}
	return "", false
}

// Map returns the values keyed by field reference.
func (f Fields) Map() map[string]string {
	out := make(map[string]string, len(f.entries))
	for _, e := range f.entries {
		out[e.Path] = e.Value
	}
	return out
}

// Object returns the fields as a nested JSON-ready object, the same shape
// they take when applied to an empty event.
func (f Fields) Object() map[string]any {
	ev := event.New(nil)
	for _, e := range f.entries {
		// Layout paths never cross a scalar, so Set cannot fail here.
		_ = ev.Set(e.Path, e.Value)
	}
	return ev.Fields()
}

func (f Fields) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Object())
}
