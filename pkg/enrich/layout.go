package enrich

import (
	"errors"
	"strings"

	"github.com/dmitrymomot/uakit/pkg/event"
	"github.com/dmitrymomot/uakit/pkg/useragent"
)

// Key names a logical output field independent of where a layout puts it.
type Key string

const (
	KeyName      Key = "name"
	KeyVersion   Key = "version"
	KeyMajor     Key = "major"
	KeyMinor     Key = "minor"
	KeyPatch     Key = "patch"
	KeyBuild     Key = "build"
	KeyOS        Key = "os"
	KeyOSName    Key = "os_name"
	KeyOSVersion Key = "os_version"
	KeyOSFull    Key = "os_full"
	KeyOSMajor   Key = "os_major"
	KeyOSMinor   Key = "os_minor"
	KeyOSPatch   Key = "os_patch"
	KeyDevice    Key = "device"
	KeyOriginal  Key = "original"
)

// DefaultNestedTarget is used by ModeNested when no target is configured.
const DefaultNestedTarget = "user_agent"

var flatKeys = []Key{
	KeyName, KeyVersion, KeyMajor, KeyMinor, KeyPatch, KeyBuild,
	KeyOS, KeyOSName, KeyOSVersion, KeyOSFull, KeyOSMajor, KeyOSMinor, KeyOSPatch,
	KeyDevice,
}

var nestedPaths = []struct {
	key  Key
	path []string
}{
	{KeyName, []string{"name"}},
	{KeyVersion, []string{"version"}},
	{KeyOSName, []string{"os", "name"}},
	{KeyOSVersion, []string{"os", "version"}},
	{KeyOSFull, []string{"os", "full"}},
	{KeyDevice, []string{"device", "name"}},
	{KeyOriginal, []string{"original"}},
}

type slot struct {
	key  Key
	path string
}

// Layout is a static table from logical keys to event field references.
// It is built once and safe for concurrent use.
type Layout struct {
	mode  Mode
	slots []slot
}

// NewLayout builds the table for mode. target is a field reference the
// fields are written under; prefix is prepended to field names in ModeFlat
// and ignored in ModeNested.
func NewLayout(mode Mode, target, prefix string) (Layout, error) {
	var base []string
	if target != "" {
		segs, err := event.ParseRef(target)
		if err != nil {
			return Layout{}, errors.Join(ErrInvalidConfig, err)
		}
		base = segs
	}

	l := Layout{mode: mode}
	switch mode {
	case ModeFlat:
		for _, k := range flatKeys {
			l.slots = append(l.slots, slot{key: k, path: ref(base, prefix+string(k))})
		}
	case ModeNested:
		if base == nil {
			base = []string{DefaultNestedTarget}
		}
		for _, np := range nestedPaths {
			l.slots = append(l.slots, slot{key: np.key, path: ref(base, np.path...)})
		}
	default:
		return Layout{}, errors.Join(ErrInvalidLayout, errors.New(string(mode)))
	}
	return l, nil
}

func ref(base []string, tail ...string) string {
	segs := make([]string, 0, len(base)+len(tail))
	segs = append(segs, base...)
	segs = append(segs, tail...)
	return event.FormatRef(segs...)
}

// Mode returns the layout mode.
func (l Layout) Mode() Mode { return l.mode }

// Path returns the field reference key is written to, if the layout has it.
func (l Layout) Path(key Key) (string, bool) {
	for _, s := range l.slots {
		if s.key == key {
			return s.path, true
		}
	}
	return "", false
}

// Keys lists the keys the layout can emit, in output order.
func (l Layout) Keys() []Key {
	keys := make([]Key, len(l.slots))
	for i, s := range l.slots {
		keys[i] = s.key
	}
	return keys
}

// Map lays out a match and its reconstructed values. Absent values are not
// emitted. Every value is a fresh copy that shares no memory with m.
func (l Layout) Map(m useragent.Match, r useragent.Reconstructed, source string) Fields {
	entries := make([]Entry, 0, len(l.slots))
	for _, s := range l.slots {
		v, ok := value(s.key, m, r, source).Get()
		if !ok {
			continue
		}
		entries = append(entries, Entry{Key: s.key, Path: s.path, Value: strings.Clone(v)})
	}
	return Fields{entries: entries}
}

func value(k Key, m useragent.Match, r useragent.Reconstructed, source string) useragent.Field {
	switch k {
	case KeyName:
		return useragent.Some(m.UserAgent.Family)
	case KeyVersion:
		return r.Version
	case KeyMajor:
		return m.UserAgent.Major
	case KeyMinor:
		return m.UserAgent.Minor
	case KeyPatch:
		return m.UserAgent.Patch
	case KeyBuild:
		return m.UserAgent.PatchMinor
	case KeyOS, KeyOSName:
		return m.OS.Family
	case KeyOSVersion:
		return r.OSVersion
	case KeyOSFull:
		return r.OSFull
	case KeyOSMajor:
		return m.OS.Major
	case KeyOSMinor:
		return m.OS.Minor
	case KeyOSPatch:
		return m.OS.Patch
	case KeyDevice:
		return m.Device
	case KeyOriginal:
		return useragent.Some(source)
	}
	return useragent.None()
}
