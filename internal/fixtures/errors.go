package fixtures

import "errors"

// Sentinel kinds for fixture runs.
var (
	ErrInvalidConfig = errors.New("invalid fixture config")
	ErrUnhealthy     = errors.New("service is not healthy")
	ErrStatus        = errors.New("unexpected response status")
	ErrMismatch      = errors.New("remote ranking does not match local ranking")
)
