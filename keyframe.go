package keyframe

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/keyframe/internal/logging"
	"github.com/aretw0/keyframe/internal/runtime"
	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/aretw0/keyframe/pkg/ports"
	"github.com/aretw0/keyframe/pkg/schema"
)

// Animator is the host-facing facade: it owns the parameters and one state
// machine per layer. It is not safe for concurrent use.
type Animator struct {
	name            string
	logger          *slog.Logger
	hooks           domain.LifecycleHooks
	strict          bool
	stallLimit      float64
	maxResolveSteps int

	params *runtime.Parameters
	layers []*runtime.StateMachine

	events       runtime.Listeners[domain.AnimationEvent]
	visualEvents runtime.Listeners[domain.AnimationEvent]
	stateChanged runtime.Listeners[stateChange]
}

type stateChange struct {
	layer int
	state string
}

// Option defines a functional option for configuring the Animator.
type Option func(*Animator)

// WithLogger sets a custom structured logger. Runtime configuration errors
// (unknown parameters or states) are reported on it at warn level.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Animator) {
		a.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Animator) {
		a.hooks = hooks
	}
}

// WithStrict makes New reject definitions that fail schema.Validate.
func WithStrict() Option {
	return func(a *Animator) {
		a.strict = true
	}
}

// WithStallLimit reports transitions still active after seconds of host time.
func WithStallLimit(seconds float64) Option {
	return func(a *Animator) {
		a.stallLimit = seconds
	}
}

// WithMaxResolveSteps bounds the transitions a layer resolves per drain.
func WithMaxResolveSteps(n int) Option {
	return func(a *Animator) {
		a.maxResolveSteps = n
	}
}

// New builds an Animator from its definition and snaps every layer to its
// default state. Only duplicate state or parameter names are fatal unless
// WithStrict is given.
func New(data domain.AnimatorData, opts ...Option) (*Animator, error) {
	a := &Animator{name: data.Name}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}
	a.logger = a.logger.With("animator", data.Name)

	if a.strict {
		if err := schema.Validate(&data); err != nil {
			return nil, fmt.Errorf("invalid animator %q: %w", data.Name, err)
		}
	}

	params, err := runtime.NewParameters(data.Parameters)
	if err != nil {
		return nil, fmt.Errorf("animator %q: %w", data.Name, err)
	}
	a.params = params

	for i, ld := range data.Layers {
		m, err := a.buildLayer(i, ld)
		if err != nil {
			return nil, fmt.Errorf("animator %q layer %d: %w", data.Name, i, err)
		}
		a.layers = append(a.layers, m)
	}
	return a, nil
}

func (a *Animator) buildLayer(index int, ld domain.LayerData) (*runtime.StateMachine, error) {
	opts := []runtime.MachineOption{
		runtime.WithName(ld.Name),
		runtime.WithLogger(a.logger),
		runtime.WithHooks(a.machineHooks(index)),
		runtime.WithStallLimit(a.stallLimit),
	}
	if a.maxResolveSteps > 0 {
		opts = append(opts, runtime.WithMaxResolveSteps(a.maxResolveSteps))
	}
	m := runtime.NewStateMachine(opts...)

	for _, sd := range ld.States {
		s := runtime.NewState(sd, a.params)
		s.SetEventSinks(a.eventSink(index, domain.ChannelGeneric), a.eventSink(index, domain.ChannelVisual))
		if err := m.DefineState(sd.Name, s); err != nil {
			return nil, err
		}
	}
	for _, sd := range ld.States {
		for _, td := range sd.Transitions {
			m.DefineTransition(sd.Name, td.ToState, runtime.NewTransition(td, a.params))
		}
	}
	for _, td := range ld.AnyStateTransitions {
		m.DefineAnyTransition(td.ToState, runtime.NewTransition(td, a.params))
	}

	m.OnStateChanged(func(id string) {
		a.stateChanged.Emit(stateChange{layer: index, state: id})
		if a.hooks.OnStateChanged != nil {
			a.hooks.OnStateChanged(&domain.StateChangeEvent{
				EventBase: a.eventBase(domain.EventStateChanged, index),
				State:     id,
			})
		}
	})

	// An unknown default leaves the layer without a current state, like any
	// other ChangeToState on an unknown id.
	if !m.Snap(ld.DefaultState) {
		a.logger.Warn("default state not found, layer has no current state",
			"layer", ld.Name, "default_state", ld.DefaultState)
	}
	return m, nil
}

func (a *Animator) eventBase(typ domain.EventType, layer int) domain.EventBase {
	return domain.EventBase{Type: typ, Animator: a.name, Layer: layer}
}

func (a *Animator) machineHooks(layer int) runtime.MachineHooks {
	transition := func(typ domain.EventType, fn func(*domain.TransitionEvent)) func(from, to string, elapsed float64) {
		return func(from, to string, elapsed float64) {
			if fn != nil {
				fn(&domain.TransitionEvent{EventBase: a.eventBase(typ, layer), From: from, To: to, Elapsed: elapsed})
			}
		}
	}
	onStart := transition(domain.EventTransitionStart, a.hooks.OnTransitionStart)
	return runtime.MachineHooks{
		OnTransitionStart:  func(from, to string) { onStart(from, to, 0) },
		OnTransitionFinish: transition(domain.EventTransitionFinish, a.hooks.OnTransitionFinish),
		OnTransitionStall:  transition(domain.EventTransitionStall, a.hooks.OnTransitionStall),
	}
}

func (a *Animator) eventSink(layer int, channel string) runtime.EventSink {
	listeners := &a.events
	if channel == domain.ChannelVisual {
		listeners = &a.visualEvents
	}
	return func(state string, ev domain.AnimationEventData) {
		listeners.Emit(ev)
		if a.hooks.OnEvent != nil {
			a.hooks.OnEvent(&domain.FiredEvent{
				EventBase: a.eventBase(domain.EventFired, layer),
				Channel:   channel,
				State:     state,
				Event:     ev,
			})
		}
	}
}

// Name returns the animator's definition name.
func (a *Animator) Name() string { return a.name }

// Update advances every layer by dt seconds, in layer order.
func (a *Animator) Update(dt float64) {
	for _, m := range a.layers {
		m.Update(dt)
	}
}

// Play moves every layer that has the named state to it, abandoning any
// transition in progress. The change completes on the next Update.
func (a *Animator) Play(name string) {
	played := false
	for _, m := range a.layers {
		if m.ChangeToState(name, nil) {
			played = true
		}
	}
	if !played {
		a.logger.Warn("play: state not found in any layer", "state", name)
	}
}

func (a *Animator) parameter(name string, accept func(domain.ParameterType) bool) (*runtime.Parameter, bool) {
	p, ok := a.params.Get(name)
	if !ok {
		a.logger.Warn("unknown parameter", "parameter", name)
		return nil, false
	}
	if !accept(p.Type()) {
		a.logger.Warn("parameter type mismatch", "parameter", name, "type", p.Type())
		return nil, false
	}
	return p, true
}

func isType(t domain.ParameterType) func(domain.ParameterType) bool {
	return func(got domain.ParameterType) bool { return got == t }
}

func (a *Animator) SetInteger(name string, v int) {
	if p, ok := a.parameter(name, isType(domain.ParameterInt)); ok {
		p.SetInt(v)
	}
}

func (a *Animator) SetFloat(name string, v float64) {
	if p, ok := a.parameter(name, isType(domain.ParameterFloat)); ok {
		p.SetFloat(v)
	}
}

func (a *Animator) SetBool(name string, v bool) {
	if p, ok := a.parameter(name, domain.ParameterType.IsBoolean); ok {
		p.SetBool(v)
	}
}

// SetTrigger arms a trigger until a transition conditioned on it starts.
func (a *Animator) SetTrigger(name string) {
	a.SetBool(name, true)
}

// ResetTrigger disarms a trigger without waiting for a transition. It writes
// false regardless of the declared default.
func (a *Animator) ResetTrigger(name string) {
	a.SetBool(name, false)
}

// GetFloat reads a parameter as a number; ints convert and bools read as
// 0 or 1. Unknown names read as 0.
func (a *Animator) GetFloat(name string) float64 {
	p, ok := a.params.Get(name)
	if !ok {
		return 0
	}
	return runtime.NumericValue(p)
}

func (a *Animator) GetInteger(name string) int {
	p, ok := a.params.Get(name)
	if !ok {
		return 0
	}
	return p.Int()
}

func (a *Animator) GetBool(name string) bool {
	p, ok := a.params.Get(name)
	if !ok {
		return false
	}
	return p.Bool()
}

// Parameter returns a read-only view of a parameter.
func (a *Animator) Parameter(name string) (ports.ParameterValue, bool) {
	return a.params.Parameter(name)
}

// Parameters returns the parameter names in declaration order.
func (a *Animator) Parameters() []string {
	return a.params.Names()
}

// IsName reports whether any layer is currently playing the named state,
// ignoring case.
func (a *Animator) IsName(name string) bool {
	for _, m := range a.layers {
		if m.Current() != nil && strings.EqualFold(m.CurrentID(), name) {
			return true
		}
	}
	return false
}

func (a *Animator) base() *runtime.StateMachine {
	if len(a.layers) == 0 {
		return nil
	}
	return a.layers[0]
}

// CurrentStateName is the current state of layer 0.
func (a *Animator) CurrentStateName() string {
	if m := a.base(); m != nil {
		return m.CurrentID()
	}
	return ""
}

// CurrentStateDuration is the duration of layer 0's current state.
func (a *Animator) CurrentStateDuration() float64 {
	if s := a.CurrentState(); s != nil {
		return s.Duration()
	}
	return 0
}

// CurrentStateNormalizedTime is the normalized time of layer 0's current state.
func (a *Animator) CurrentStateNormalizedTime() float64 {
	if s := a.CurrentState(); s != nil {
		return s.NormalizedTime()
	}
	return 0
}

// CurrentState is layer 0's current state, or nil.
func (a *Animator) CurrentState() ports.TimeState {
	if m := a.base(); m != nil {
		return m.Current()
	}
	return nil
}

// MostRecentState is layer 0's next state while transitioning, otherwise
// its current state.
func (a *Animator) MostRecentState() ports.TimeState {
	if m := a.base(); m != nil {
		return m.MostRecentState()
	}
	return nil
}

// FindState looks up a state of the given layer, ignoring case.
func (a *Animator) FindState(layer int, name string) (ports.TimeState, bool) {
	if layer < 0 || layer >= len(a.layers) {
		return nil, false
	}
	m := a.layers[layer]
	id, ok := m.FindState(name)
	if !ok {
		return nil, false
	}
	return m.State(id)
}

// LayerCount returns the number of layers.
func (a *Animator) LayerCount() int { return len(a.layers) }

// Layers snapshots every layer's playback position.
func (a *Animator) Layers() []domain.LayerSnapshot {
	out := make([]domain.LayerSnapshot, len(a.layers))
	for i, m := range a.layers {
		out[i] = m.Snapshot()
		out[i].Layer = i
	}
	return out
}

// OnEvent subscribes to non-visual animation events.
func (a *Animator) OnEvent(fn func(domain.AnimationEvent)) (remove func()) {
	return a.events.Add(fn)
}

// OnVisualEvent subscribes to visual animation events.
func (a *Animator) OnVisualEvent(fn func(domain.AnimationEvent)) (remove func()) {
	return a.visualEvents.Add(fn)
}

// OnStateChanged subscribes to state changes on any layer. The state is the
// one being moved to; the change may still be blending.
func (a *Animator) OnStateChanged(fn func(layer int, state string)) (remove func()) {
	if fn == nil {
		return func() {}
	}
	return a.stateChanged.Add(func(c stateChange) { fn(c.layer, c.state) })
}
