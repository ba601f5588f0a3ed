package runner

import (
	"context"
	"errors"
)

// TraceHandler receives frames as the runner produces them.
// This allows switching between Text (CLI) and JSON (structured) reporting.
type TraceHandler interface {
	// Frame reports one Update.
	Frame(ctx context.Context, f Frame) error

	// Finish is called once after the last frame, also when the run failed.
	Finish(ctx context.Context, t *Trace) error
}

// MultiHandler fans frames out to several handlers in order.
// Every handler sees every call; errors are joined.
func MultiHandler(handlers ...TraceHandler) TraceHandler {
	return multiHandler(handlers)
}

type multiHandler []TraceHandler

func (m multiHandler) Frame(ctx context.Context, f Frame) error {
	var errs []error
	for _, h := range m {
		errs = append(errs, h.Frame(ctx, f))
	}
	return errors.Join(errs...)
}

func (m multiHandler) Finish(ctx context.Context, t *Trace) error {
	var errs []error
	for _, h := range m {
		errs = append(errs, h.Finish(ctx, t))
	}
	return errors.Join(errs...)
}

// Discard ignores every frame.
var Discard TraceHandler = discard{}

type discard struct{}

func (discard) Frame(context.Context, Frame) error    { return nil }
func (discard) Finish(context.Context, *Trace) error { return nil }
