package app

import (
	"errors"
)

// Sentinel kinds for service errors.
var (
	ErrAlreadyStarted   = errors.New("service already started")
	ErrNotStarted       = errors.New("service not started")
	ErrLoad             = errors.New("dataset load failed")
	ErrUnknownDimension = errors.New("unknown dimension")
)
