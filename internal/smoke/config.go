// Package smoke runs smoke checks against a running enrichdash server.
package smoke

import (
	"time"

	"github.com/okian/enrichdash/pkg/logger"
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL string        // Base URL of the service
	Workers int           // Maximum concurrent checks
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Log every passing check
	Logger  logger.Logger // Defaults to a discarding logger
}

// Stats summarizes a smoke run.
type Stats struct {
	Checks    int
	Passed    int
	Failed    int
	Requests  int64
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// Failure records one failed check.
type Failure struct {
	Check string
	Err   error
}
