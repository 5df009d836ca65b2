package opensearch

import "errors"

var (
	ErrConnectionFailed  = errors.New("opensearch connection failed")
	ErrHealthcheckFailed = errors.New("opensearch healthcheck failed")
	ErrBulkFailed        = errors.New("opensearch bulk request failed")
	ErrNoAddresses       = errors.New("opensearch addresses are empty")
	ErrEmptyIndex        = errors.New("opensearch index name is empty")
	ErrNilClient         = errors.New("opensearch client is nil")
)
