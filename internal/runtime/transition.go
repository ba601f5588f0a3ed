package runtime

import (
	"math"

	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/aretw0/keyframe/pkg/ports"
)

type condition struct {
	parameter string
	mode      domain.ConditionMode
	threshold float64
}

// Transition is the standalone edge implementation. One instance exists per
// declared edge and is reused across activations.
type Transition struct {
	toState          string
	conditions       []condition
	hasExitTime      bool
	exitTime         float64
	duration         float64
	hasFixedDuration bool
	source           domain.InterruptionSource
	ordered          bool
	params           *Parameters

	elapsed float64
}

var _ ports.TimeTransition = (*Transition)(nil)

// NewTransition builds a transition whose conditions read from params.
func NewTransition(data domain.TransitionData, params *Parameters) *Transition {
	t := &Transition{
		toState:          data.ToState,
		hasExitTime:      data.HasExitTime,
		exitTime:         data.ExitTime,
		duration:         data.Duration,
		hasFixedDuration: data.HasFixedDuration,
		source:           data.InterruptionSource,
		ordered:          data.OrderedInterruption,
		params:           params,
	}
	for _, c := range data.Conditions {
		t.conditions = append(t.conditions, condition{
			parameter: c.Parameter,
			mode:      c.Mode,
			threshold: c.Threshold,
		})
	}
	return t
}

func (t *Transition) ToState() string           { return t.toState }
func (t *Transition) Elapsed() float64          { return t.elapsed }
func (t *Transition) OrderedInterruption() bool { return t.ordered }

// ShouldStart reports whether every condition holds and, with an exit
// time, whether current has played far enough.
func (t *Transition) ShouldStart(current ports.TimeState) bool {
	for _, c := range t.conditions {
		if !t.holds(c) {
			return false
		}
	}
	if t.hasExitTime && current != nil && current.NormalizedTime() < t.exitTime {
		return false
	}
	return true
}

func (t *Transition) holds(c condition) bool {
	p, ok := t.params.Get(c.parameter)
	if !ok {
		return false
	}
	switch c.mode {
	case domain.ConditionIf:
		return p.Bool()
	case domain.ConditionIfNot:
		return !p.Bool()
	}

	v := NumericValue(p)
	switch c.mode {
	case domain.ConditionGreater:
		return v > c.threshold
	case domain.ConditionLess:
		return v < c.threshold
	case domain.ConditionEquals:
		return equalValue(p, v, c.threshold)
	case domain.ConditionNotEqual:
		return !equalValue(p, v, c.threshold)
	}
	return false
}

func equalValue(p *Parameter, v, threshold float64) bool {
	if p.Type() == domain.ParameterFloat {
		return math.Abs(v-threshold) <= floatEpsilon
	}
	return v == threshold
}

// OnStart consumes the triggers this transition depends on and syncs next
// with the overshoot past the exit time.
func (t *Transition) OnStart(current, next ports.TimeState) {
	for _, c := range t.conditions {
		if p, ok := t.params.Get(c.parameter); ok && p.Type() == domain.ParameterTrigger {
			p.ResetTrigger()
		}
	}

	t.elapsed = 0
	if t.hasExitTime && current != nil {
		offset := (current.NormalizedTime() - t.exitTime) * current.Duration()
		if offset > 0 && !math.IsInf(offset, 0) {
			t.elapsed = offset
		}
	}
	if t.elapsed > 0 && next != nil {
		next.Update(t.elapsed)
	}
}

// Update advances the transition and both states; the blend weight is left
// to the consumer.
func (t *Transition) Update(dt float64, current, next ports.TimeState) {
	t.elapsed += dt
	if current != nil {
		current.Update(dt)
	}
	if next != nil {
		next.Update(dt)
	}
}

// ShouldFinish compares elapsed time with the duration, scaled by the source
// duration unless the duration is fixed.
func (t *Transition) ShouldFinish(current, next ports.TimeState) bool {
	factor := 1.0
	if !t.hasFixedDuration && current != nil {
		factor = current.Duration()
	}
	target := t.duration * factor
	if target <= 0 || math.IsNaN(target) {
		return true
	}
	return t.elapsed+floatEpsilon >= target
}

func (t *Transition) OnFinish(current, next ports.TimeState) {}

// UpdateInterruptions appends the outgoing lists selected by the
// interruption source.
func (t *Transition) UpdateInterruptions(out []ports.TransitionPair, sources ports.InterruptionSources) []ports.TransitionPair {
	switch t.source {
	case domain.InterruptSource:
		out = append(out, sources.Source...)
	case domain.InterruptDestination:
		out = append(out, sources.Destination...)
	case domain.InterruptSourceThenDestination:
		out = append(out, sources.Source...)
		out = append(out, sources.Destination...)
	case domain.InterruptDestinationThenSource:
		out = append(out, sources.Destination...)
		out = append(out, sources.Source...)
	}
	return out
}
