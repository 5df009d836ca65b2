package uaregex

import "errors"

var (
	ErrInvalidDatabase   = errors.New("invalid pattern database")
	ErrMissingSection    = errors.New("pattern database section is missing")
	ErrInvalidRegex      = errors.New("invalid pattern rule")
	ErrInvalidSourceURL  = errors.New("invalid pattern database source")
	ErrSourceNotFound    = errors.New("pattern database not found")
	ErrAccessDenied      = errors.New("access to pattern database denied")
	ErrSourceUnavailable = errors.New("pattern database source unavailable")
)
