package event

import (
	"encoding/json"
	"errors"
	"maps"
	"strconv"
)

// Event is a JSON object whose fields are addressed by field references.
type Event struct {
	fields map[string]any
}

// New returns an event holding fields. The map is used as is, not copied.
func New(fields map[string]any) *Event {
	if fields == nil {
		fields = make(map[string]any)
	}
	return &Event{fields: fields}
}

// Parse decodes a JSON object into an event.
func Parse(data []byte) (*Event, error) {
	ev := New(nil)
	if err := ev.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return ev, nil
}

// Fields returns the underlying map.
func (e *Event) Fields() map[string]any { return e.fields }

// Clone returns a shallow copy of the top-level map.
func (e *Event) Clone() *Event { return New(maps.Clone(e.fields)) }

// Get returns the value at ref. Numeric segments index into arrays.
func (e *Event) Get(ref string) (any, bool) {
	path, err := ParseRef(ref)
	if err != nil {
		return nil, false
	}

	var cur any = e.fields
	for _, seg := range path {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil {
				return nil, false
			}
			if i < 0 {
				i += len(node)
			}
			if i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// Set stores v at ref, creating missing intermediate objects.
func (e *Event) Set(ref string, v any) error {
	path, err := ParseRef(ref)
	if err != nil {
		return err
	}

	node := e.fields
	for _, seg := range path[:len(path)-1] {
		next, ok := node[seg]
		if !ok || next == nil {
			child := make(map[string]any)
			node[seg] = child
			node = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return errors.Join(ErrNotObject, errors.New(ref))
		}
		node = child
	}
	node[path[len(path)-1]] = v
	return nil
}

// Remove deletes the value at ref and returns it.
func (e *Event) Remove(ref string) (any, bool) {
	path, err := ParseRef(ref)
	if err != nil {
		return nil, false
	}

	node := e.fields
	for _, seg := range path[:len(path)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			return nil, false
		}
		node = child
	}
	last := path[len(path)-1]
	v, ok := node[last]
	if ok {
		delete(node, last)
	}
	return v, ok
}

func (e *Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.fields)
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return errors.Join(ErrInvalidEvent, err)
	}
	if fields == nil {
		return ErrInvalidEvent
	}
	e.fields = fields
	return nil
}
