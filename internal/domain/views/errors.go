package views

import (
	"errors"
)

// Sentinel kinds for view parameter errors.
var (
	ErrUnknownDimension = errors.New("unknown group dimension")
	ErrUnknownMetric    = errors.New("unknown map metric")
)
