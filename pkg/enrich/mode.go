package enrich

import (
	"errors"
	"strings"
)

// Mode selects how classified fields are laid out in an event.
type Mode string

const (
	// ModeFlat writes every field as a sibling under the target, with an
	// optional name prefix: [target][prefix+name].
	ModeFlat Mode = "flat"
	// ModeNested writes ECS-style groups: [target][os][name], [target][device][name].
	ModeNested Mode = "nested"
)

// ParseMode accepts "flat" and "nested" (also "legacy" and "ecs").
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "flat", "legacy":
		return ModeFlat, nil
	case "nested", "ecs":
		return ModeNested, nil
	}
	return "", errors.Join(ErrInvalidLayout, errors.New(s))
}

func (m Mode) String() string { return string(m) }

// UnmarshalText lets env and flag parsers decode a Mode.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m), nil }
