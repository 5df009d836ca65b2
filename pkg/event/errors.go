package event

import "errors"

var (
	ErrEmptyRef     = errors.New("empty field reference")
	ErrInvalidRef   = errors.New("invalid field reference")
	ErrNotObject    = errors.New("field reference crosses a non-object value")
	ErrInvalidEvent = errors.New("event must be a JSON object")
)
