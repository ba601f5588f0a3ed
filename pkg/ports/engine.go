package ports

import "github.com/aretw0/keyframe/pkg/domain"

// TimeState is a named unit advanced by the state machine.
type TimeState interface {
	// Update advances playback by dt seconds of host time.
	Update(dt float64)

	Name() string

	// Speed is the effective playback speed (base speed times speed parameter).
	Speed() float64

	// Duration is the playback length in host time at the current speed.
	Duration() float64

	// NormalizedTime is the playback position in [0,1] (1 when finished or empty).
	NormalizedTime() float64

	// OnStart is called when the state becomes the target of a change.
	OnStart()

	// OnFinish is called when the state stops being the current state.
	OnFinish()
}

// TransitionPair binds a transition to the state it leads to.
type TransitionPair struct {
	Transition TimeTransition
	ToState    string
}

// InterruptionSources are the candidate pools offered to an active transition.
type InterruptionSources struct {
	Any         []TransitionPair
	Source      []TransitionPair
	Destination []TransitionPair
}

// TimeTransition is a guarded, time-advancing edge between two states.
type TimeTransition interface {
	// UpdateInterruptions appends the pools that may interrupt this transition
	// and returns the extended slice. The caller has already added sources.Any.
	UpdateInterruptions(out []TransitionPair, sources InterruptionSources) []TransitionPair

	// OrderedInterruption reports whether the interruption scan stops when
	// this transition is found among the candidates.
	OrderedInterruption() bool

	ShouldStart(current TimeState) bool
	OnStart(current, next TimeState)

	// Update advances the transition and both states by dt.
	Update(dt float64, current, next TimeState)

	ShouldFinish(current, next TimeState) bool
	OnFinish(current, next TimeState)

	// Elapsed is the time spent in the transition since OnStart.
	Elapsed() float64
}

// ParameterValue is a read-only view of an animator parameter.
type ParameterValue interface {
	Name() string
	Type() domain.ParameterType
	Int() int
	Float() float64
	Bool() bool
	Dirty() bool
}

// ParameterProvider resolves parameters by name.
type ParameterProvider interface {
	Parameter(name string) (ParameterValue, bool)
}
