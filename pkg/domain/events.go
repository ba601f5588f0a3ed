package domain

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventStateChanged     EventType = "state_changed"
	EventTransitionStart  EventType = "transition_start"
	EventTransitionFinish EventType = "transition_finish"
	EventTransitionStall  EventType = "transition_stall"
	EventFired            EventType = "event_fired"
)

// EventBase contains common fields for all lifecycle events.
type EventBase struct {
	Type     EventType `json:"type"`
	Animator string    `json:"animator,omitempty"`
	Layer    int       `json:"layer"`
}

// StateChangeEvent reports that a layer started moving to State.
type StateChangeEvent struct {
	EventBase
	State string `json:"state"`
}

// TransitionEvent reports a transition boundary. Immediate changes
// (Play, default state) produce no transition events.
type TransitionEvent struct {
	EventBase
	From    string  `json:"from"`
	To      string  `json:"to"`
	Elapsed float64 `json:"elapsed,omitempty"`
}

// FiredEvent is an animation event together with where it fired.
type FiredEvent struct {
	EventBase
	Channel string             `json:"channel"`
	State   string             `json:"state"`
	Event   AnimationEventData `json:"event"`
}

// LifecycleHooks defines callbacks for runtime observability.
// They run synchronously inside Update and must not call back into the animator.
type LifecycleHooks struct {
	OnStateChanged     func(*StateChangeEvent)
	OnTransitionStart  func(*TransitionEvent)
	OnTransitionFinish func(*TransitionEvent)
	OnTransitionStall  func(*TransitionEvent)
	OnEvent            func(*FiredEvent)
}
