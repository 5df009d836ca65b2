package enrich

import (
	"errors"

	"github.com/dmitrymomot/uakit/pkg/event"
)

// DefaultCacheSize is the lookup cache capacity used when none is configured.
const DefaultCacheSize = 100_000

// Config describes where an Engine reads user agents from and how it writes
// the result. It can be loaded from the environment with pkg/config
// (prefix "UA_" in the uakit binary).
type Config struct {
	// Source is the field reference holding the raw user agent. Required;
	// Validate reports it missing.
	Source string `env:"SOURCE"`
	// Target is the field reference results are written under.
	// Empty means the event root for ModeFlat and [user_agent] for ModeNested.
	Target string `env:"TARGET"`
	// Prefix is prepended to field names in ModeFlat.
	Prefix string `env:"PREFIX"`
	// CacheSize bounds the shared lookup cache. The engine resizes the
	// shared cache when it differs.
	CacheSize int `env:"CACHE_SIZE" envDefault:"100000"`
	// Layout picks flat or nested output.
	Layout Mode `env:"LAYOUT" envDefault:"flat"`
}

// DefaultConfig returns a flat-layout config reading from source.
func DefaultConfig(source string) Config {
	return Config{
		Source:    source,
		CacheSize: DefaultCacheSize,
		Layout:    ModeFlat,
	}
}

// Validate checks the config and returns every problem found.
func (c Config) Validate() error {
	var errs []error
	if c.Source == "" {
		errs = append(errs, ErrMissingSource)
	} else if _, err := event.ParseRef(c.Source); err != nil {
		errs = append(errs, err)
	}
	if c.Target != "" {
		if _, err := event.ParseRef(c.Target); err != nil {
			errs = append(errs, err)
		}
	}
	if c.CacheSize <= 0 {
		errs = append(errs, ErrInvalidCacheSize)
	}
	if c.Layout != ModeFlat && c.Layout != ModeNested {
		errs = append(errs, ErrInvalidLayout)
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}

// sameRef reports whether two field references address the same field,
// so "agent" and "[agent]" are equal.
func sameRef(a, b string) bool {
	pa, err := event.ParseRef(a)
	if err != nil {
		return false
	}
	pb, err := event.ParseRef(b)
	if err != nil {
		return false
	}
	return event.FormatRef(pa...) == event.FormatRef(pb...)
}
