package observability

import (
	"log/slog"

	"github.com/aretw0/keyframe/pkg/domain"
)

// LogHooks logs every lifecycle event. State changes and transitions go
// to Debug, stalls to Warn, fired events to Debug.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStateChanged: func(e *domain.StateChangeEvent) {
			logger.Debug("state_changed", "animator", e.Animator, "layer", e.Layer, "state", e.State)
		},
		OnTransitionStart: func(e *domain.TransitionEvent) {
			logger.Debug("transition_start", "animator", e.Animator, "layer", e.Layer, "from", e.From, "to", e.To)
		},
		OnTransitionFinish: func(e *domain.TransitionEvent) {
			logger.Debug("transition_finish",
				"animator", e.Animator,
				"layer", e.Layer,
				"from", e.From,
				"to", e.To,
				"elapsed", e.Elapsed,
			)
		},
		OnTransitionStall: func(e *domain.TransitionEvent) {
			logger.Warn("transition_stall", "animator", e.Animator, "layer", e.Layer, "from", e.From, "to", e.To, "elapsed", e.Elapsed)
		},
		OnEvent: func(e *domain.FiredEvent) {
			logger.Debug("event_fired", "animator", e.Animator, "channel", e.Channel, "state", e.State, "value", e.Event.String, "time", e.Event.Time)
		},
	}
}

// Chain returns hooks that call each non-nil callback of hs in order.
func Chain(hs ...domain.LifecycleHooks) domain.LifecycleHooks {
	var out domain.LifecycleHooks
	for _, h := range hs {
		out.OnStateChanged = join(out.OnStateChanged, h.OnStateChanged)
		out.OnTransitionStart = join(out.OnTransitionStart, h.OnTransitionStart)
		out.OnTransitionFinish = join(out.OnTransitionFinish, h.OnTransitionFinish)
		out.OnTransitionStall = join(out.OnTransitionStall, h.OnTransitionStall)
		out.OnEvent = join(out.OnEvent, h.OnEvent)
	}
	return out
}

func join[E any](a, b func(E)) func(E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e E) {
		a(e)
		b(e)
	}
}
