package runtime_test

import (
	"math"
	"testing"

	"github.com/aretw0/keyframe/internal/runtime"
	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type eventRecorder struct {
	generic []float64
	visual  []float64
}

func (r *eventRecorder) attach(s *runtime.State) {
	s.SetEventSinks(
		func(_ string, ev domain.AnimationEventData) { r.generic = append(r.generic, ev.Time) },
		func(_ string, ev domain.AnimationEventData) { r.visual = append(r.visual, ev.Time) },
	)
}

func TestState_LoopingWraparound(t *testing.T) {
	s := runtime.NewState(domain.StateData{
		Name:   "Idle",
		Length: 1.0,
		Loop:   true,
		Speed:  1,
		Events: []domain.AnimationEventData{{Time: 0.9, String: "step"}},
	}, nil)
	rec := &eventRecorder{}
	rec.attach(s)
	s.OnStart()
	s.ClearDirty()

	s.Update(0.7)
	assert.InDelta(t, 0.7, s.Elapsed(), 1e-9)
	assert.Empty(t, rec.generic)
	assert.False(t, s.Dirty())

	s.Update(0.7)
	assert.InDelta(t, 0.4, s.Elapsed(), 1e-9)
	assert.Equal(t, []float64{0.9}, rec.generic, "event must fire exactly once across the wrap")
	assert.True(t, s.Dirty(), "wraparound marks the state dirty")

	s.Update(0.3)
	assert.Len(t, rec.generic, 1)
}

func TestState_NonLoopingClamp(t *testing.T) {
	s := runtime.NewState(domain.StateData{
		Name:   "Die",
		Length: 2.0,
		Speed:  1,
		Events: []domain.AnimationEventData{{Time: 2.0, String: "end"}},
	}, nil)
	rec := &eventRecorder{}
	rec.attach(s)

	s.Update(5.0)
	assert.Equal(t, 2.0, s.Elapsed())
	assert.Equal(t, 1.0, s.NormalizedTime())
	assert.Equal(t, []float64{2.0}, rec.generic, "end event fires when the window closes at the length")

	s.Update(5.0)
	assert.Equal(t, 2.0, s.Elapsed())
	assert.Len(t, rec.generic, 1)
}

func TestState_EventRouting(t *testing.T) {
	s := runtime.NewState(domain.StateData{
		Name:   "Attack",
		Length: 1.0,
		Speed:  1,
		Events: []domain.AnimationEventData{
			{Time: 0.5, Visual: true},
			{Time: 0.1, Audio: true},
			{Time: 0.3},
		},
	}, nil)
	rec := &eventRecorder{}
	rec.attach(s)

	s.Update(0.6)
	assert.Equal(t, []float64{0.1, 0.3}, rec.generic, "events fire sorted by time")
	assert.Equal(t, []float64{0.5}, rec.visual)
}

func TestState_SpeedParameter(t *testing.T) {
	params, err := runtime.NewParameters([]domain.ParameterData{
		{Name: "mult", Type: domain.ParameterFloat, DefaultFloat: 2},
		{Name: "on", Type: domain.ParameterBool},
	})
	require.NoError(t, err)

	s := runtime.NewState(domain.StateData{Name: "Run", Length: 1, Loop: true, Speed: 0.5, SpeedParameter: "mult"}, params)
	assert.Equal(t, 1.0, s.Speed())
	assert.Equal(t, 1.0, s.Duration())

	stopped := runtime.NewState(domain.StateData{Name: "Hold", Length: 1, Speed: 1, SpeedParameter: "on"}, params)
	assert.Equal(t, 0.0, stopped.Speed())
	assert.True(t, math.IsInf(stopped.Duration(), 1))

	stopped.Update(1)
	assert.Equal(t, 0.0, stopped.Elapsed())

	unknown := runtime.NewState(domain.StateData{Name: "X", Length: 1, Speed: 3, SpeedParameter: "missing"}, params)
	assert.Equal(t, 3.0, unknown.Speed(), "unknown speed parameter leaves the base speed")
}

func TestState_ReversePlayback(t *testing.T) {
	s := runtime.NewState(domain.StateData{
		Name:   "Rewind",
		Length: 1.0,
		Loop:   true,
		Speed:  -1,
		Events: []domain.AnimationEventData{{Time: 0.2}, {Time: 0.8}},
	}, nil)
	rec := &eventRecorder{}
	rec.attach(s)
	assert.Equal(t, 1.0, s.Duration(), "reverse playback keeps a positive duration")

	s.Update(0.3)
	assert.InDelta(t, 0.7, s.Elapsed(), 1e-9)
	assert.Equal(t, []float64{0.8}, rec.generic)

	s.Update(0.6)
	assert.InDelta(t, 0.1, s.Elapsed(), 1e-9)
	assert.Equal(t, []float64{0.8, 0.2}, rec.generic)
}

func TestState_ZeroLength(t *testing.T) {
	s := runtime.NewState(domain.StateData{Name: "Empty", Speed: 1}, nil)
	s.Update(1)
	assert.Equal(t, 1.0, s.NormalizedTime())
	assert.Equal(t, 0.0, s.Duration())
}

func TestState_Clone(t *testing.T) {
	s := runtime.NewState(domain.StateData{
		Name:   "Idle",
		Length: 1,
		Loop:   true,
		Speed:  1,
		Events: []domain.AnimationEventData{{Time: 0.1}},
	}, nil)
	rec := &eventRecorder{}
	rec.attach(s)

	c := s.Clone()
	c.Update(0.5)
	assert.InDelta(t, 0.5, c.Elapsed(), 1e-9)
	assert.Equal(t, 0.0, s.Elapsed(), "clone is detached")
	assert.Empty(t, rec.generic, "clone has no event sinks")
}
