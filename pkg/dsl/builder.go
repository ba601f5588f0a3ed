package dsl

import (
	"fmt"

	"github.com/aretw0/keyframe/pkg/adapters/memory"
	"github.com/aretw0/keyframe/pkg/domain"
)

// Builder manages the animator construction.
type Builder struct {
	name   string
	params []domain.ParameterData
	layers []*LayerBuilder
}

// New creates a new animator builder.
func New(name string) *Builder {
	return &Builder{name: name}
}

func (b *Builder) param(p domain.ParameterData) *Builder {
	b.params = append(b.params, p)
	return b
}

// Int declares an int parameter.
func (b *Builder) Int(name string, def int) *Builder {
	return b.param(domain.ParameterData{Name: name, Type: domain.ParameterInt, DefaultInt: def})
}

// Float declares a float parameter.
func (b *Builder) Float(name string, def float64) *Builder {
	return b.param(domain.ParameterData{Name: name, Type: domain.ParameterFloat, DefaultFloat: def})
}

// Bool declares a bool parameter defaulting to false.
func (b *Builder) Bool(name string) *Builder {
	return b.param(domain.ParameterData{Name: name, Type: domain.ParameterBool})
}

// Trigger declares a trigger parameter.
func (b *Builder) Trigger(name string) *Builder {
	return b.param(domain.ParameterData{Name: name, Type: domain.ParameterTrigger})
}

// Layer returns the named layer, creating it on first use.
// Layers keep the order in which they were first requested.
func (b *Builder) Layer(name string) *LayerBuilder {
	for _, l := range b.layers {
		if l.data.Name == name {
			return l
		}
	}
	l := &LayerBuilder{data: domain.LayerData{Name: name}}
	b.layers = append(b.layers, l)
	return l
}

// Definition assembles the animator definition.
func (b *Builder) Definition() domain.AnimatorData {
	def := domain.AnimatorData{
		Name:       b.name,
		Parameters: append([]domain.ParameterData(nil), b.params...),
	}
	for _, l := range b.layers {
		def.Layers = append(def.Layers, l.build())
	}
	return def
}

// Build compiles the animator into a memory.Loader.
func (b *Builder) Build() (*memory.Loader, error) {
	loader, err := memory.NewLoader(b.Definition())
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}

// LayerBuilder configures one layer.
type LayerBuilder struct {
	data   domain.LayerData
	states []*StateBuilder
	any    []*TransitionBuilder
}

// Default sets the layer's default state.
func (l *LayerBuilder) Default(state string) *LayerBuilder {
	l.data.DefaultState = state
	return l
}

// State returns the named state, creating it on first use.
func (l *LayerBuilder) State(name string) *StateBuilder {
	for _, s := range l.states {
		if s.data.Name == name {
			return s
		}
	}
	if l.data.DefaultState == "" {
		l.data.DefaultState = name
	}
	s := &StateBuilder{data: domain.StateData{Name: name, Speed: 1}}
	l.states = append(l.states, s)
	return s
}

// Any adds an any-state transition to target.
func (l *LayerBuilder) Any(target string) *TransitionBuilder {
	t := newTransition(target, nil)
	l.any = append(l.any, t)
	return t
}

func (l *LayerBuilder) build() domain.LayerData {
	out := l.data
	out.States = nil
	for _, s := range l.states {
		out.States = append(out.States, s.build())
	}
	out.AnyStateTransitions = nil
	for _, t := range l.any {
		out.AnyStateTransitions = append(out.AnyStateTransitions, t.build())
	}
	return out
}

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	data        domain.StateData
	transitions []*TransitionBuilder
}

// Length sets the animation length in seconds at speed 1.
func (s *StateBuilder) Length(seconds float64) *StateBuilder {
	s.data.Length = seconds
	return s
}

// Loop makes the state wrap around instead of holding its last frame.
func (s *StateBuilder) Loop() *StateBuilder {
	s.data.Loop = true
	return s
}

// Speed sets the base playback speed.
func (s *StateBuilder) Speed(speed float64) *StateBuilder {
	s.data.Speed = speed
	return s
}

// SpeedParameter scales the speed by a numeric parameter.
func (s *StateBuilder) SpeedParameter(name string) *StateBuilder {
	s.data.SpeedParameter = name
	return s
}

// Event adds a generic event carrying value.
func (s *StateBuilder) Event(at float64, value string) *StateBuilder {
	s.data.Events = append(s.data.Events, domain.AnimationEventData{Time: at, String: value})
	return s
}

// VisualEvent adds an event on the visual channel.
func (s *StateBuilder) VisualEvent(at float64, value string) *StateBuilder {
	s.data.Events = append(s.data.Events, domain.AnimationEventData{Time: at, String: value, Visual: true})
	return s
}

// Emit adds a fully specified event.
func (s *StateBuilder) Emit(ev domain.AnimationEventData) *StateBuilder {
	s.data.Events = append(s.data.Events, ev)
	return s
}

// To adds an outgoing transition to target. Transitions are evaluated in
// the order they are added.
func (s *StateBuilder) To(target string) *TransitionBuilder {
	t := newTransition(target, s)
	s.transitions = append(s.transitions, t)
	return t
}

func (s *StateBuilder) build() domain.StateData {
	out := s.data
	out.Events = append([]domain.AnimationEventData(nil), s.data.Events...)
	out.Transitions = nil
	for _, t := range s.transitions {
		out.Transitions = append(out.Transitions, t.build())
	}
	return out
}

// TransitionBuilder provides a fluent API for configuring a transition.
type TransitionBuilder struct {
	data  domain.TransitionData
	state *StateBuilder
}

func newTransition(target string, from *StateBuilder) *TransitionBuilder {
	return &TransitionBuilder{data: domain.TransitionData{ToState: target}, state: from}
}

func (t *TransitionBuilder) cond(param string, mode domain.ConditionMode, threshold float64) *TransitionBuilder {
	t.data.Conditions = append(t.data.Conditions, domain.ConditionData{Parameter: param, Mode: mode, Threshold: threshold})
	return t
}

// When requires a bool or trigger parameter to be set.
func (t *TransitionBuilder) When(param string) *TransitionBuilder {
	return t.cond(param, domain.ConditionIf, 0)
}

// Unless requires a bool or trigger parameter to be unset.
func (t *TransitionBuilder) Unless(param string) *TransitionBuilder {
	return t.cond(param, domain.ConditionIfNot, 0)
}

func (t *TransitionBuilder) Greater(param string, v float64) *TransitionBuilder {
	return t.cond(param, domain.ConditionGreater, v)
}

func (t *TransitionBuilder) Less(param string, v float64) *TransitionBuilder {
	return t.cond(param, domain.ConditionLess, v)
}

func (t *TransitionBuilder) Equals(param string, v float64) *TransitionBuilder {
	return t.cond(param, domain.ConditionEquals, v)
}

func (t *TransitionBuilder) NotEqual(param string, v float64) *TransitionBuilder {
	return t.cond(param, domain.ConditionNotEqual, v)
}

// ExitTime gates the transition on the source's normalized time.
func (t *TransitionBuilder) ExitTime(normalized float64) *TransitionBuilder {
	t.data.HasExitTime = true
	t.data.ExitTime = normalized
	return t
}

// Duration sets a duration relative to the source state's duration.
func (t *TransitionBuilder) Duration(d float64) *TransitionBuilder {
	t.data.Duration = d
	t.data.HasFixedDuration = false
	return t
}

// Fixed sets a duration in seconds.
func (t *TransitionBuilder) Fixed(seconds float64) *TransitionBuilder {
	t.data.Duration = seconds
	t.data.HasFixedDuration = true
	return t
}

// Interrupt selects which transitions may interrupt this one.
func (t *TransitionBuilder) Interrupt(source domain.InterruptionSource) *TransitionBuilder {
	t.data.InterruptionSource = source
	return t
}

// Ordered stops the interruption scan at this transition.
func (t *TransitionBuilder) Ordered() *TransitionBuilder {
	t.data.OrderedInterruption = true
	return t
}

// To adds a sibling transition from the same source state. It panics on
// any-state transitions, which have no source.
func (t *TransitionBuilder) To(target string) *TransitionBuilder {
	if t.state == nil {
		panic("dsl: To called on an any-state transition")
	}
	return t.state.To(target)
}

func (t *TransitionBuilder) build() domain.TransitionData {
	out := t.data
	out.Conditions = append([]domain.ConditionData(nil), t.data.Conditions...)
	return out
}
