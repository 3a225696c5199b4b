package storage

import (
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithAllocator sets a custom Arrow allocator.
func WithAllocator(mem memory.Allocator) Option {
	return func(l *Loader) {
		if mem != nil {
			l.mem = mem
		}
	}
}
