package ingest

import (
	"log/slog"
	"runtime"
)

// Builder can create validators.
type Builder struct {
	workers int
	logger  *slog.Logger
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{}
}

// WithWorkers bounds the number of goroutines that validate cores. Zero or a
// negative number uses one worker per available CPU.
func (b Builder) WithWorkers(n int) Builder {
	b.workers = n
	return b
}

// WithLogger sets the logger. The default logger is used if not set.
func (b Builder) WithLogger(l *slog.Logger) Builder {
	b.logger = l
	return b
}

// Build creates a validator.
func (b Builder) Build() *Validator {
	v := &Validator{
		workers: b.workers,
		logger:  b.logger,
	}

	if v.workers <= 0 {
		v.workers = runtime.NumCPU()
	}

	if v.logger == nil {
		v.logger = slog.Default()
	}

	return v
}
