package smoke

import "errors"

// Error constants.
var (
	ErrInvalidConfig = errors.New("invalid smoke config")
	ErrChecksFailed  = errors.New("smoke checks failed")
	ErrUnexpected    = errors.New("unexpected response")
)
