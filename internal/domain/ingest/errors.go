package ingest

import (
	"errors"
	"fmt"
)

// Sentinel kinds. Callers map both to HTTP 400.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrDecode       = errors.New("decode error")
)

func newKind(op string, kind error, msg string) error {
	return fmt.Errorf("%s: %w: %s", op, kind, msg)
}

func wrapKind(op string, kind, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, cause)
}
