package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrGather         = errors.New("metrics gather failed")
	ErrMetricNotFound = errors.New("metric not found")
)
