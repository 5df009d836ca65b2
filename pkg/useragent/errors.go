package useragent

import (
	"errors"
	"strconv"
)

var (
	ErrEmptyUserAgent     = errors.New("empty user agent string")
	ErrParseFailure       = errors.New("failed to parse user agent")
	ErrMalformedUserAgent = errors.New("malformed user agent string")
	ErrInvalidCapacity    = errors.New("lookup cache capacity must be positive")
)

// ParseError reports a matcher failure for a specific input.
// errors.Is(err, ErrParseFailure) holds for every ParseError.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	msg := ErrParseFailure.Error() + " " + strconv.Quote(e.Input)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParseFailure }

// AsParseError wraps err into a *ParseError for input unless it already is one.
func AsParseError(input string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return err
	}
	return &ParseError{Input: input, Err: err}
}
