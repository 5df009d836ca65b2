package metrics

import "errors"

var (
	ErrRegisterMetrics = errors.New("failed to register metrics")
	ErrNilLookupCache  = errors.New("lookup cache is nil")
)
