package runtime

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/keyframe/internal/logging"
	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/aretw0/keyframe/pkg/ports"
)

// DefaultMaxResolveSteps bounds the transitions resolved in one drain.
const DefaultMaxResolveSteps = 256

// MachineHooks are synchronous callbacks for transition boundaries.
type MachineHooks struct {
	OnTransitionStart  func(from, to string)
	OnTransitionFinish func(from, to string, elapsed float64)
	OnTransitionStall  func(from, to string, elapsed float64)
}

// MachineOption configures a StateMachine.
type MachineOption func(*StateMachine)

// WithName labels the machine in logs and snapshots.
func WithName(name string) MachineOption {
	return func(m *StateMachine) {
		m.name = name
	}
}

// WithLogger sets the structured logger. The machine adds a layer attribute.
func WithLogger(logger *slog.Logger) MachineOption {
	return func(m *StateMachine) {
		m.logger = logger
	}
}

// WithHooks registers transition callbacks.
func WithHooks(hooks MachineHooks) MachineOption {
	return func(m *StateMachine) {
		m.hooks = hooks
	}
}

// WithStallLimit reports, once per activation, a transition still active
// after seconds of host time. Zero disables the check.
func WithStallLimit(seconds float64) MachineOption {
	return func(m *StateMachine) {
		m.stallLimit = seconds
	}
}

// WithMaxResolveSteps overrides DefaultMaxResolveSteps.
func WithMaxResolveSteps(n int) MachineOption {
	return func(m *StateMachine) {
		if n > 0 {
			m.maxResolveSteps = n
		}
	}
}

// StateMachine drives one layer: a current state, an optional next state
// and the transition between them.
//
// Transitions are compared by identity, so ports.TimeTransition
// implementations must be comparable (pointer receivers).
type StateMachine struct {
	name            string
	logger          *slog.Logger
	hooks           MachineHooks
	stallLimit      float64
	maxResolveSteps int

	states   map[string]ports.TimeState
	order    []string
	outgoing map[string][]ports.TransitionPair
	anyState []ports.TransitionPair

	current    ports.TimeState
	currentID  string
	next       ports.TimeState
	nextID     string
	transition ports.TimeTransition

	interrupting  []ports.TransitionPair
	stallReported bool

	stateChanged Listeners[string]
}

// NewStateMachine creates an empty machine. Define states and transitions,
// then Snap to the default state.
func NewStateMachine(opts ...MachineOption) *StateMachine {
	m := &StateMachine{
		maxResolveSteps: DefaultMaxResolveSteps,
		states:          make(map[string]ports.TimeState),
		outgoing:        make(map[string][]ports.TransitionPair),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logging.NewNop()
	}
	if m.name != "" {
		m.logger = m.logger.With("layer", m.name)
	}
	return m
}

// DefineState registers state under id.
func (m *StateMachine) DefineState(id string, state ports.TimeState) error {
	if _, exists := m.states[id]; exists {
		return fmt.Errorf("%w: %q", domain.ErrDuplicateState, id)
	}
	m.states[id] = state
	m.order = append(m.order, id)
	return nil
}

// DefineTransition appends an outgoing transition of state from. Declaration
// order is evaluation priority.
func (m *StateMachine) DefineTransition(from, to string, t ports.TimeTransition) {
	m.outgoing[from] = append(m.outgoing[from], ports.TransitionPair{Transition: t, ToState: to})
	if from == m.currentID && m.transition == nil {
		m.recomputeInterruptions()
	}
}

// DefineAnyTransition appends a transition evaluated from every state,
// ahead of the per-state lists.
func (m *StateMachine) DefineAnyTransition(to string, t ports.TimeTransition) {
	m.anyState = append(m.anyState, ports.TransitionPair{Transition: t, ToState: to})
	m.recomputeInterruptions()
}

// OnStateChanged subscribes to state changes. The listener receives the id
// of the state being moved to.
func (m *StateMachine) OnStateChanged(fn func(id string)) (remove func()) {
	return m.stateChanged.Add(fn)
}

// ChangeToState starts moving to id, through t when non-nil. Unknown ids
// return false and leave the machine untouched.
func (m *StateMachine) ChangeToState(id string, t ports.TimeTransition) bool {
	next, ok := m.states[id]
	if !ok {
		return false
	}

	m.next = next
	m.nextID = id
	m.transition = t
	m.stallReported = false

	next.OnStart()
	if t != nil {
		t.OnStart(m.current, next)
	}
	m.recomputeInterruptions()

	if t != nil {
		m.logger.Debug("transition started", "from", m.currentID, "to", id)
		if m.hooks.OnTransitionStart != nil {
			m.hooks.OnTransitionStart(m.currentID, id)
		}
	}
	m.stateChanged.Emit(id)
	return true
}

// Snap changes to id and completes the change immediately, without a
// transition.
func (m *StateMachine) Snap(id string) bool {
	if !m.ChangeToState(id, nil) {
		return false
	}
	m.finish()
	return true
}

// Update resolves pending transitions, advances time by dt and resolves
// again.
func (m *StateMachine) Update(dt float64) {
	m.drain()

	switch {
	case m.transition != nil:
		m.transition.Update(dt, m.current, m.next)
		m.checkStall()
	case m.current != nil:
		m.current.Update(dt)
	}

	m.drain()
}

func (m *StateMachine) drain() {
	for i := 0; i < m.maxResolveSteps; i++ {
		if !m.resolve() {
			return
		}
	}
	m.logger.Warn("transition resolution limit reached",
		"limit", m.maxResolveSteps,
		"current", m.currentID,
		"next", m.nextID)
}

// resolve performs one resolution step and reports whether anything changed.
func (m *StateMachine) resolve() bool {
	if m.current != nil {
		for _, c := range m.interrupting {
			if m.transition != nil && c.Transition == m.transition {
				if m.transition.OrderedInterruption() {
					break
				}
				continue
			}
			if c.Transition.ShouldStart(m.current) && m.ChangeToState(c.ToState, c.Transition) {
				return true
			}
		}
	}

	if m.next != nil && (m.transition == nil || m.transition.ShouldFinish(m.current, m.next)) {
		m.finish()
		return true
	}
	return false
}

// finish promotes next to current.
func (m *StateMachine) finish() {
	prev, prevID := m.current, m.currentID
	t := m.transition

	m.current, m.currentID = m.next, m.nextID
	m.next, m.nextID = nil, ""
	m.transition = nil

	if t != nil {
		t.OnFinish(prev, m.current)
	}
	if prev != nil {
		prev.OnFinish()
	}
	m.recomputeInterruptions()

	if t != nil {
		elapsed := t.Elapsed()
		m.logger.Debug("transition finished", "from", prevID, "to", m.currentID, "elapsed", elapsed)
		if m.hooks.OnTransitionFinish != nil {
			m.hooks.OnTransitionFinish(prevID, m.currentID, elapsed)
		}
	}
}

func (m *StateMachine) recomputeInterruptions() {
	out := make([]ports.TransitionPair, 0, len(m.anyState)+len(m.outgoing[m.currentID]))
	out = append(out, m.anyState...)
	if m.transition != nil {
		out = m.transition.UpdateInterruptions(out, ports.InterruptionSources{
			Any:         m.anyState,
			Source:      m.outgoing[m.currentID],
			Destination: m.outgoing[m.nextID],
		})
	} else {
		out = append(out, m.outgoing[m.currentID]...)
	}
	m.interrupting = out
}

func (m *StateMachine) checkStall() {
	if m.stallLimit <= 0 || m.stallReported || m.transition == nil {
		return
	}
	elapsed := m.transition.Elapsed()
	if elapsed <= m.stallLimit {
		return
	}
	m.stallReported = true
	m.logger.Warn("transition stalled",
		"from", m.currentID,
		"to", m.nextID,
		"elapsed", elapsed,
		"limit", m.stallLimit)
	if m.hooks.OnTransitionStall != nil {
		m.hooks.OnTransitionStall(m.currentID, m.nextID, elapsed)
	}
}

// FindState returns the id of the state matching name, ignoring case.
func (m *StateMachine) FindState(name string) (string, bool) {
	if _, ok := m.states[name]; ok {
		return name, true
	}
	for _, id := range m.order {
		if strings.EqualFold(id, name) {
			return id, true
		}
	}
	return "", false
}

// State returns the state registered under id.
func (m *StateMachine) State(id string) (ports.TimeState, bool) {
	s, ok := m.states[id]
	return s, ok
}

// StateIDs returns the state ids in definition order.
func (m *StateMachine) StateIDs() []string {
	return append([]string(nil), m.order...)
}

func (m *StateMachine) Name() string                     { return m.name }
func (m *StateMachine) Current() ports.TimeState         { return m.current }
func (m *StateMachine) CurrentID() string                { return m.currentID }
func (m *StateMachine) Next() ports.TimeState            { return m.next }
func (m *StateMachine) NextID() string                   { return m.nextID }
func (m *StateMachine) Transition() ports.TimeTransition { return m.transition }

// IsInTransition reports whether a next state is pending.
func (m *StateMachine) IsInTransition() bool { return m.next != nil }

// MostRecentState is the next state while transitioning, else the current one.
func (m *StateMachine) MostRecentState() ports.TimeState {
	if m.next != nil {
		return m.next
	}
	return m.current
}

// Interruptions returns the candidates evaluated on the next resolution, in
// priority order.
func (m *StateMachine) Interruptions() []ports.TransitionPair {
	return append([]ports.TransitionPair(nil), m.interrupting...)
}

// Snapshot captures the layer's playback position.
func (m *StateMachine) Snapshot() domain.LayerSnapshot {
	snap := domain.LayerSnapshot{
		Name:         m.name,
		Current:      m.currentID,
		Next:         m.nextID,
		InTransition: m.next != nil,
	}
	if m.current != nil {
		snap.NormalizedTime = m.current.NormalizedTime()
		if e, ok := m.current.(interface{ Elapsed() float64 }); ok {
			snap.Elapsed = e.Elapsed()
		}
	}
	if m.transition != nil {
		snap.TransitionElapsed = m.transition.Elapsed()
	}
	return snap
}
