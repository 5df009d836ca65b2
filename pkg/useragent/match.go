package useragent

import (
	"context"
	"sync"
)

// Agent is the browser (or client) part of a match.
type Agent struct {
	Family     string `json:"family"`
	Major      Field  `json:"major,omitzero"`
	Minor      Field  `json:"minor,omitzero"`
	Patch      Field  `json:"patch,omitzero"`
	PatchMinor Field  `json:"patch_minor,omitzero"`
}

// OS is the operating system part of a match. Family is optional because
// some matchers cannot tell the OS at all.
type OS struct {
	Family     Field `json:"family,omitzero"`
	Major      Field `json:"major,omitzero"`
	Minor      Field `json:"minor,omitzero"`
	Patch      Field `json:"patch,omitzero"`
	PatchMinor Field `json:"patch_minor,omitzero"`
}

// Match is the raw result of classifying one user-agent string.
// It holds only strings and is copied by value, so a stored Match cannot be
// modified through a copy handed out to a caller.
type Match struct {
	UserAgent Agent `json:"user_agent"`
	OS        OS    `json:"os"`
	Device    Field `json:"device,omitzero"`
}

// Matcher classifies a raw user-agent string.
// Implementations return a *ParseError (or any error, which callers wrap)
// when the input cannot be classified.
type Matcher interface {
	Parse(ctx context.Context, ua string) (Match, error)
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(ctx context.Context, ua string) (Match, error)

func (f MatcherFunc) Parse(ctx context.Context, ua string) (Match, error) { return f(ctx, ua) }

// Serialize wraps m so that at most one Parse call runs at a time.
// Use it for matchers that are not safe for concurrent use.
func Serialize(m Matcher) Matcher {
	return &serialMatcher{next: m}
}

type serialMatcher struct {
	mu   sync.Mutex
	next Matcher
}

func (s *serialMatcher) Parse(ctx context.Context, ua string) (Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next.Parse(ctx, ua)
}
