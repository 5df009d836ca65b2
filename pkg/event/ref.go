package event

import (
	"errors"
	"strings"
)

// ParseRef splits a field reference into its path segments.
//
//	ParseRef("agent")                  // ["agent"]
//	ParseRef("[user_agent][os][name]") // ["user_agent", "os", "name"]
func ParseRef(ref string) ([]string, error) {
	if ref == "" {
		return nil, ErrEmptyRef
	}
	if ref[0] != '[' {
		if strings.ContainsAny(ref, "[]") {
			return nil, errors.Join(ErrInvalidRef, errors.New(ref))
		}
		return []string{ref}, nil
	}

	var segments []string
	rest := ref
	for rest != "" {
		if rest[0] != '[' {
			return nil, errors.Join(ErrInvalidRef, errors.New(ref))
		}
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, errors.Join(ErrInvalidRef, errors.New(ref))
		}
		seg := rest[1:end]
		if seg == "" || strings.IndexByte(seg, '[') >= 0 {
			return nil, errors.Join(ErrInvalidRef, errors.New(ref))
		}
		segments = append(segments, seg)
		rest = rest[end+1:]
	}
	return segments, nil
}

// FormatRef builds a bracketed field reference from segments.
// Empty segments are skipped.
func FormatRef(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		if s == "" {
			continue
		}
		b.WriteByte('[')
		b.WriteString(s)
		b.WriteByte(']')
	}
	return b.String()
}

// JoinRef appends segments to an existing reference.
func JoinRef(base string, segments ...string) (string, error) {
	if base == "" {
		return FormatRef(segments...), nil
	}
	head, err := ParseRef(base)
	if err != nil {
		return "", err
	}
	return FormatRef(append(head, segments...)...), nil
}
