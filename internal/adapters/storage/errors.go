package storage

import (
	"errors"
)

// Sentinel kinds for dataset read errors. Both are fatal at startup: a
// missing file or a schema mismatch aborts the whole load, no partial
// dashboard is served.
var (
	ErrRead   = errors.New("dataset read failed")
	ErrSchema = errors.New("dataset schema mismatch")
)
