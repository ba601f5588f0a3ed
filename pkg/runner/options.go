package runner

import (
	"log/slog"
)

// DefaultMaxFrames bounds the number of updates a single run may perform.
const DefaultMaxFrames = 100_000

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithHandler configures the TraceHandler frames are reported to.
func WithHandler(handler TraceHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithMaxFrames overrides DefaultMaxFrames. Values below 1 are ignored.
func WithMaxFrames(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.MaxFrames = n
		}
	}
}
