package runtime_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/aretw0/keyframe/internal/runtime"
	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildLayer(t *testing.T, params *runtime.Parameters, layer domain.LayerData, opts ...runtime.MachineOption) *runtime.StateMachine {
	t.Helper()
	m := runtime.NewStateMachine(opts...)
	for _, sd := range layer.States {
		require.NoError(t, m.DefineState(sd.Name, runtime.NewState(sd, params)))
	}
	for _, sd := range layer.States {
		for _, td := range sd.Transitions {
			m.DefineTransition(sd.Name, td.ToState, runtime.NewTransition(td, params))
		}
	}
	for _, td := range layer.AnyStateTransitions {
		m.DefineAnyTransition(td.ToState, runtime.NewTransition(td, params))
	}
	require.True(t, m.Snap(layer.DefaultState))
	return m
}

func ifTrue(name string) []domain.ConditionData {
	return []domain.ConditionData{{Parameter: name, Mode: domain.ConditionIf}}
}

func setBool(t *testing.T, params *runtime.Parameters, name string, v bool) {
	t.Helper()
	p, ok := params.Get(name)
	require.True(t, ok, "parameter %s", name)
	p.SetBool(v)
}

func newBoolParameters(t *testing.T, names ...string) *runtime.Parameters {
	t.Helper()
	var data []domain.ParameterData
	for _, n := range names {
		data = append(data, domain.ParameterData{Name: n, Type: domain.ParameterBool})
	}
	params, err := runtime.NewParameters(data)
	require.NoError(t, err)
	return params
}

func TestStateMachine_IdleToRun(t *testing.T) {
	params := newBoolParameters(t, "run")
	m := buildLayer(t, params, domain.LayerData{
		DefaultState: "Idle",
		States: []domain.StateData{
			{
				Name: "Idle", Length: 1.0, Loop: true, Speed: 1,
				Transitions: []domain.TransitionData{{ToState: "Run", Conditions: ifTrue("run"), Duration: 0.2}},
			},
			{Name: "Run", Length: 0.5, Loop: true, Speed: 1},
		},
	})
	assert.Equal(t, "Idle", m.CurrentID())
	assert.False(t, m.IsInTransition())

	setBool(t, params, "run", true)
	m.Update(0.1)
	require.True(t, m.IsInTransition())
	assert.Equal(t, "Run", m.NextID())
	assert.InDelta(t, 0.1, m.Transition().Elapsed(), 1e-9)

	m.Update(0.1)
	assert.False(t, m.IsInTransition())
	assert.Equal(t, "Run", m.CurrentID())
	assert.Nil(t, m.Transition())
}

func TestStateMachine_ExitTimeGating(t *testing.T) {
	params := newBoolParameters(t, "go")
	setBool(t, params, "go", true)
	m := buildLayer(t, params, domain.LayerData{
		DefaultState: "A",
		States: []domain.StateData{
			{
				Name: "A", Length: 1, Loop: true, Speed: 1,
				Transitions: []domain.TransitionData{{ToState: "B", Conditions: ifTrue("go"), HasExitTime: true, ExitTime: 0.5}},
			},
			{Name: "B", Length: 1, Loop: true, Speed: 1},
		},
	})

	m.Update(0.3)
	assert.Equal(t, "A", m.CurrentID(), "normalized time 0.3 is before the exit time")
	assert.False(t, m.IsInTransition())

	m.Update(0.25)
	assert.Equal(t, "B", m.CurrentID())
	b, _ := m.State("B")
	assert.InDelta(t, 0.05, b.NormalizedTime(), 1e-9, "B starts synchronized with the overshoot")
}

func TestStateMachine_TriggerConsumption(t *testing.T) {
	params, err := runtime.NewParameters([]domain.ParameterData{{Name: "jump", Type: domain.ParameterTrigger}})
	require.NoError(t, err)

	starts := 0
	m := buildLayer(t, params, domain.LayerData{
		DefaultState: "Idle",
		States: []domain.StateData{
			{Name: "Idle", Length: 1, Loop: true, Speed: 1},
			{Name: "Jump", Length: 1, Speed: 1},
		},
		AnyStateTransitions: []domain.TransitionData{
			{ToState: "Jump", Conditions: ifTrue("jump"), HasFixedDuration: true},
		},
	}, runtime.WithHooks(runtime.MachineHooks{
		OnTransitionStart: func(from, to string) { starts++ },
	}))

	setBool(t, params, "jump", true)
	m.Update(0)
	assert.Equal(t, "Jump", m.CurrentID())
	assert.Equal(t, 1, starts)

	jump, _ := params.Get("jump")
	assert.False(t, jump.Bool())

	m.Update(0)
	assert.Equal(t, 1, starts, "a consumed trigger must not restart the transition")
}

func TestStateMachine_AnyStatePriority(t *testing.T) {
	params := newBoolParameters(t, "go")
	setBool(t, params, "go", true)
	m := buildLayer(t, params, domain.LayerData{
		DefaultState: "Idle",
		States: []domain.StateData{
			{
				Name: "Idle", Length: 1, Loop: true, Speed: 1,
				Transitions: []domain.TransitionData{{ToState: "B", Conditions: ifTrue("go"), Duration: 1, HasFixedDuration: true}},
			},
			{Name: "A", Length: 1, Loop: true, Speed: 1},
			{Name: "B", Length: 1, Loop: true, Speed: 1},
		},
		AnyStateTransitions: []domain.TransitionData{
			{ToState: "A", Conditions: ifTrue("go"), Duration: 1, HasFixedDuration: true},
		},
	})

	candidates := m.Interruptions()
	require.Len(t, candidates, 2)
	assert.Equal(t, "A", candidates[0].ToState)

	m.Update(0)
	assert.Equal(t, "A", m.NextID())
}

func interruptionLayer(source domain.InterruptionSource, ordered bool) domain.LayerData {
	fixed := func(to, param string) domain.TransitionData {
		return domain.TransitionData{ToState: to, Conditions: ifTrue(param), Duration: 1, HasFixedDuration: true}
	}
	main := fixed("N", "go")
	main.InterruptionSource = source
	main.OrderedInterruption = ordered
	return domain.LayerData{
		DefaultState: "S",
		States: []domain.StateData{
			{Name: "S", Length: 1, Loop: true, Speed: 1, Transitions: []domain.TransitionData{main, fixed("X", "toX")}},
			{Name: "N", Length: 1, Loop: true, Speed: 1, Transitions: []domain.TransitionData{fixed("Y", "toY")}},
			{Name: "X", Length: 1, Loop: true, Speed: 1},
			{Name: "Y", Length: 1, Loop: true, Speed: 1},
		},
	}
}

func TestStateMachine_InterruptionSourceScoping(t *testing.T) {
	t.Run("Source ignores destination transitions", func(t *testing.T) {
		params := newBoolParameters(t, "go", "toX", "toY")
		m := buildLayer(t, params, interruptionLayer(domain.InterruptSource, false))

		setBool(t, params, "go", true)
		m.Update(0)
		require.Equal(t, "N", m.NextID())

		setBool(t, params, "toY", true)
		m.Update(0.1)
		assert.Equal(t, "N", m.NextID(), "next state's outgoing transitions must not interrupt")

		setBool(t, params, "toX", true)
		m.Update(0.1)
		assert.Equal(t, "X", m.NextID(), "current state's outgoing transitions interrupt")
		assert.Equal(t, "S", m.CurrentID())
	})

	t.Run("Destination", func(t *testing.T) {
		params := newBoolParameters(t, "go", "toX", "toY")
		m := buildLayer(t, params, interruptionLayer(domain.InterruptDestination, false))

		setBool(t, params, "go", true)
		m.Update(0)
		setBool(t, params, "toX", true)
		m.Update(0.1)
		assert.Equal(t, "N", m.NextID())

		setBool(t, params, "toY", true)
		m.Update(0.1)
		assert.Equal(t, "Y", m.NextID())
	})

	t.Run("None", func(t *testing.T) {
		params := newBoolParameters(t, "go", "toX", "toY")
		m := buildLayer(t, params, interruptionLayer(domain.InterruptNone, false))

		setBool(t, params, "go", true)
		m.Update(0)
		setBool(t, params, "toX", true)
		setBool(t, params, "toY", true)
		m.Update(0.1)
		assert.Equal(t, "N", m.NextID())
	})

	t.Run("Ordered stops at the active transition", func(t *testing.T) {
		params := newBoolParameters(t, "go", "toX", "toY")
		m := buildLayer(t, params, interruptionLayer(domain.InterruptSource, true))

		setBool(t, params, "go", true)
		m.Update(0)
		setBool(t, params, "toX", true)
		m.Update(0.1)
		assert.Equal(t, "N", m.NextID(), "X is declared after the active transition")
	})
}

func TestStateMachine_InstantChain(t *testing.T) {
	params := newBoolParameters(t, "on")
	setBool(t, params, "on", true)
	var visited []string
	m := buildLayer(t, params, domain.LayerData{
		DefaultState: "A",
		States: []domain.StateData{
			{Name: "A", Length: 1, Speed: 1, Transitions: []domain.TransitionData{{ToState: "B", Conditions: ifTrue("on")}}},
			{Name: "B", Length: 1, Speed: 1, Transitions: []domain.TransitionData{{ToState: "C", Conditions: ifTrue("on")}}},
			{Name: "C", Length: 1, Speed: 1},
		},
	})
	m.OnStateChanged(func(id string) { visited = append(visited, id) })

	m.Update(0)
	assert.Equal(t, "C", m.CurrentID())
	assert.False(t, m.IsInTransition())
	assert.Equal(t, []string{"B", "C"}, visited)
}

func TestStateMachine_Determinism(t *testing.T) {
	run := func() []domain.LayerSnapshot {
		params := newBoolParameters(t, "run")
		m := buildLayer(t, params, domain.LayerData{
			DefaultState: "Idle",
			States: []domain.StateData{
				{Name: "Idle", Length: 1, Loop: true, Speed: 1, Transitions: []domain.TransitionData{{ToState: "Run", Conditions: ifTrue("run"), Duration: 0.3}}},
				{Name: "Run", Length: 0.5, Loop: true, Speed: 1.5, Transitions: []domain.TransitionData{{ToState: "Idle", Conditions: []domain.ConditionData{{Parameter: "run", Mode: domain.ConditionIfNot}}, Duration: 0.1}}},
			},
		})
		var out []domain.LayerSnapshot
		for i, dt := range []float64{0.016, 0.033, 0.1, 0.25, 0.016, 0.5, 0.07} {
			setBool(t, params, "run", i%3 != 2)
			m.Update(dt)
			out = append(out, m.Snapshot())
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestStateMachine_ChangeToState(t *testing.T) {
	params := newBoolParameters(t)
	m := buildLayer(t, params, domain.LayerData{
		DefaultState: "A",
		States: []domain.StateData{
			{Name: "A", Length: 1, Loop: true, Speed: 1},
			{Name: "B", Length: 1, Loop: true, Speed: 1},
		},
	})

	t.Run("Unknown id", func(t *testing.T) {
		assert.False(t, m.ChangeToState("ghost", nil))
		assert.Equal(t, "A", m.CurrentID())
		assert.False(t, m.IsInTransition())
	})

	t.Run("Immediate change completes on Update", func(t *testing.T) {
		require.True(t, m.ChangeToState("B", nil))
		assert.True(t, m.IsInTransition())
		assert.Equal(t, "B", m.MostRecentState().Name())

		m.Update(0)
		assert.Equal(t, "B", m.CurrentID())
		assert.False(t, m.IsInTransition())
	})

	t.Run("Duplicate state", func(t *testing.T) {
		err := m.DefineState("A", runtime.NewState(domain.StateData{Name: "A"}, nil))
		assert.ErrorIs(t, err, domain.ErrDuplicateState)
	})

	t.Run("FindState ignores case", func(t *testing.T) {
		id, ok := m.FindState("b")
		assert.True(t, ok)
		assert.Equal(t, "B", id)
	})
}

func TestStateMachine_StallDiagnostic(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	params := newBoolParameters(t, "go")
	setBool(t, params, "go", true)

	stalls := 0
	m := buildLayer(t, params, domain.LayerData{
		DefaultState: "Frozen",
		States: []domain.StateData{
			{Name: "Frozen", Length: 1, Speed: 0, Transitions: []domain.TransitionData{{ToState: "B", Conditions: ifTrue("go"), Duration: 0.5}}},
			{Name: "B", Length: 1, Speed: 1},
		},
	},
		runtime.WithName("base"),
		runtime.WithLogger(logger),
		runtime.WithStallLimit(0.5),
		runtime.WithHooks(runtime.MachineHooks{
			OnTransitionStall: func(from, to string, elapsed float64) { stalls++ },
		}),
	)

	m.Update(1)
	m.Update(1)
	assert.True(t, m.IsInTransition(), "relative duration over a stopped state never completes")
	assert.Equal(t, 1, stalls, "stall is reported once per activation")
	assert.Contains(t, buf.String(), "transition stalled")
	assert.Contains(t, buf.String(), "layer=base")
}

func TestStateMachine_ResolveLimit(t *testing.T) {
	var buf bytes.Buffer
	params := newBoolParameters(t)
	starts := 0
	m := buildLayer(t, params, domain.LayerData{
		DefaultState: "A",
		States:       []domain.StateData{{Name: "A", Length: 1, Speed: 1}},
		AnyStateTransitions: []domain.TransitionData{
			{ToState: "A"},
		},
	},
		runtime.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		runtime.WithMaxResolveSteps(10),
		runtime.WithHooks(runtime.MachineHooks{OnTransitionStart: func(string, string) { starts++ }}),
	)

	m.Update(0)
	assert.Equal(t, 10, starts)
	assert.Contains(t, buf.String(), "transition resolution limit reached")
}

func TestStateMachine_Snapshot(t *testing.T) {
	params := newBoolParameters(t, "run")
	m := buildLayer(t, params, domain.LayerData{
		DefaultState: "Idle",
		States: []domain.StateData{
			{Name: "Idle", Length: 2, Loop: true, Speed: 1, Transitions: []domain.TransitionData{{ToState: "Run", Conditions: ifTrue("run"), Duration: 1, HasFixedDuration: true}}},
			{Name: "Run", Length: 1, Loop: true, Speed: 1},
		},
	}, runtime.WithName("base"))

	m.Update(0.5)
	setBool(t, params, "run", true)
	m.Update(0.25)

	snap := m.Snapshot()
	assert.Equal(t, "base", snap.Name)
	assert.Equal(t, "Idle", snap.Current)
	assert.Equal(t, "Run", snap.Next)
	assert.True(t, snap.InTransition)
	assert.InDelta(t, 0.75, snap.Elapsed, 1e-9)
	assert.InDelta(t, 0.375, snap.NormalizedTime, 1e-9)
	assert.InDelta(t, 0.25, snap.TransitionElapsed, 1e-9)
}
