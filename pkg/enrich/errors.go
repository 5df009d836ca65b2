package enrich

import "errors"

var (
	ErrInvalidConfig    = errors.New("invalid enrich config")
	ErrMissingSource    = errors.New("source field is required")
	ErrInvalidCacheSize = errors.New("cache size must be positive")
	ErrInvalidLayout    = errors.New("unknown layout mode")
	ErrNilLookupCache   = errors.New("lookup cache is nil")
	ErrNilMatcher       = errors.New("matcher is nil")
)
