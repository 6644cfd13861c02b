package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/enrichdash/internal/domain/ingest"
)

// Sentinel kinds for API errors. They alias the ingest kinds so errors
// raised below the HTTP layer classify the same way.
var (
	ErrInvalidInput = ingest.ErrInvalidInput
	ErrDecode       = ingest.ErrDecode
)

// Error codes written in the JSON error body.
const (
	codeInvalidInput  = "invalid_input"
	codeDecodeError   = "decode_error"
	codeInternalError = "internal_error"
)

// NewKind builds an error of kind with a message, prefixed by op.
func NewKind(op string, kind error, msg string) error {
	return fmt.Errorf("%s: %w: %s", op, kind, msg)
}

// WrapKind wraps cause as kind, prefixed by op.
func WrapKind(op string, kind, cause error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, cause)
}

// classify maps an error to its HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrDecode):
		return http.StatusBadRequest, codeDecodeError
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest, codeInvalidInput
	default:
		return http.StatusInternalServerError, codeInternalError
	}
}
