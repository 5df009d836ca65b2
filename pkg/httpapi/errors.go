package httpapi

import "errors"

var (
	ErrStart        = errors.New("failed to start HTTP server")
	ErrShutdown     = errors.New("failed to shutdown HTTP server gracefully")
	ErrInvalidBody  = errors.New("request body is not valid JSON")
	ErrBodyTooLarge = errors.New("request body is too large")
)
