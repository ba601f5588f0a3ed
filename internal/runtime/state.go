package runtime

import (
	"math"
	"sort"

	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/aretw0/keyframe/pkg/ports"
)

// EventSink receives the events fired by a state while it plays.
type EventSink func(state string, ev domain.AnimationEventData)

// State is the standalone playback unit of a layer.
type State struct {
	name           string
	length         float64
	loop           bool
	baseSpeed      float64
	speedParameter string
	params         ports.ParameterProvider
	events         []domain.AnimationEventData

	elapsed float64
	dirty   bool

	onEvent  EventSink
	onVisual EventSink
}

var _ ports.TimeState = (*State)(nil)

// NewState builds a state from its definition. params is a non-owning
// handle used to resolve the speed parameter and may be nil.
func NewState(data domain.StateData, params ports.ParameterProvider) *State {
	events := append([]domain.AnimationEventData(nil), data.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Time < events[j].Time })
	return &State{
		name:           data.Name,
		length:         data.Length,
		loop:           data.Loop,
		baseSpeed:      data.Speed,
		speedParameter: data.SpeedParameter,
		params:         params,
		events:         events,
	}
}

// SetEventSinks routes fired events. Visual events go to visual, all others
// to generic. Either sink may be nil.
func (s *State) SetEventSinks(generic, visual EventSink) {
	s.onEvent = generic
	s.onVisual = visual
}

func (s *State) Name() string    { return s.name }
func (s *State) Length() float64 { return s.length }
func (s *State) Loop() bool      { return s.loop }
func (s *State) Elapsed() float64 {
	return s.elapsed
}

// Dirty is set by OnStart and whenever a looping state wraps around.
func (s *State) Dirty() bool { return s.dirty }

func (s *State) ClearDirty() { s.dirty = false }

// Events returns the state's events sorted by time.
func (s *State) Events() []domain.AnimationEventData {
	return append([]domain.AnimationEventData(nil), s.events...)
}

// Speed is the base speed scaled by the speed parameter, when one is set
// and known.
func (s *State) Speed() float64 {
	if s.speedParameter == "" || s.params == nil {
		return s.baseSpeed
	}
	p, ok := s.params.Parameter(s.speedParameter)
	if !ok {
		return s.baseSpeed
	}
	return s.baseSpeed * NumericValue(p)
}

// Duration is the playback length in host time, positive in either playback
// direction. A stopped state never ends.
func (s *State) Duration() float64 {
	if s.length <= 0 {
		return 0
	}
	speed := s.Speed()
	if speed == 0 {
		return math.Inf(1)
	}
	return s.length / math.Abs(speed)
}

func (s *State) NormalizedTime() float64 {
	if s.length <= 0 {
		return 1
	}
	return s.elapsed / s.length
}

func (s *State) OnStart() {
	s.elapsed = 0
	s.dirty = true
}

func (s *State) OnFinish() {}

// Update advances playback by dt host seconds and fires the events crossed.
func (s *State) Update(dt float64) {
	delta := dt * s.Speed()
	if delta == 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return
	}
	if s.length <= 0 {
		return
	}

	from := s.elapsed
	raw := from + delta

	if !s.loop {
		to := math.Min(math.Max(raw, 0), s.length)
		if to == from {
			return
		}
		s.elapsed = to
		if delta > 0 {
			s.fireWindow(from, to, to == s.length)
		} else {
			s.fireWindowReverse(to, from)
		}
		return
	}

	cycles := math.Floor(raw/s.length) - math.Floor(from/s.length)
	to := repeat(raw, s.length)
	s.elapsed = to
	if cycles != 0 {
		s.dirty = true
	}

	switch {
	case math.Abs(cycles) >= 2:
		// Crossed at least one whole cycle: every event fires once.
		s.fireAll(delta < 0)
	case cycles == 0 && delta > 0:
		s.fireWindow(from, to, false)
	case cycles == 0:
		s.fireWindowReverse(to, from)
	case delta > 0:
		s.fireWindow(from, s.length, false)
		s.fireWindow(0, to, false)
	default:
		s.fireWindowReverse(0, from)
		s.fireWindowReverse(to, s.length)
	}
}

// Clone returns a detached copy for scratch use. The copy shares the
// parameter handle but has no event sinks.
func (s *State) Clone() *State {
	c := *s
	c.onEvent = nil
	c.onVisual = nil
	return &c
}

// fireWindow fires events with time in [lo, hi), or [lo, hi] when closed.
func (s *State) fireWindow(lo, hi float64, closed bool) {
	for _, ev := range s.events {
		if ev.Time < lo {
			continue
		}
		if ev.Time > hi || (ev.Time == hi && !closed) {
			break
		}
		s.fire(ev)
	}
}

// fireWindowReverse fires events with time in [lo, hi) from the latest down.
func (s *State) fireWindowReverse(lo, hi float64) {
	for i := len(s.events) - 1; i >= 0; i-- {
		ev := s.events[i]
		if ev.Time >= hi {
			continue
		}
		if ev.Time < lo {
			break
		}
		s.fire(ev)
	}
}

func (s *State) fireAll(reverse bool) {
	if reverse {
		s.fireWindowReverse(math.Inf(-1), math.Inf(1))
		return
	}
	s.fireWindow(math.Inf(-1), math.Inf(1), true)
}

func (s *State) fire(ev domain.AnimationEventData) {
	sink := s.onEvent
	if ev.Visual {
		sink = s.onVisual
	}
	if sink != nil {
		sink(s.name, ev)
	}
}

// repeat wraps t into [0, length).
func repeat(t, length float64) float64 {
	r := t - math.Floor(t/length)*length
	if r >= length || r < 0 {
		return 0
	}
	return r
}
