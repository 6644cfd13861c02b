package smoke

import "io"

// ShowHelp prints usage information for the smoke tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `enrichdash smoke
================

Smoke-checks a running enrichdash server: health, every fixed-data endpoint
(fetched twice, bodies must match), echo, CSV upload, automation start and a
CORS preflight.

Usage:
  go run ./cmd/smoke [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8000")
  -workers int
        Maximum concurrent checks (default 4)
  -timeout duration
        HTTP request timeout (default 10s)
  -log-format string
        Log encoding: text or json (default "text")
  -verbose
        Log passing checks too
  -help
        Show this help message

Exit status is 1 when any check fails.
`)
}
