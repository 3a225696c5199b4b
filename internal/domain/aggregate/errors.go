package aggregate

import (
	"errors"
)

// Sentinel kinds for aggregation errors.
var (
	ErrUnknownDimension = errors.New("unknown dimension")
	ErrInvalidMetric    = errors.New("invalid metric")
	ErrNoMetrics        = errors.New("no metrics")
)
