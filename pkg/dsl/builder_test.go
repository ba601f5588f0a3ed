package dsl_test

import (
	"context"
	"testing"

	"github.com/aretw0/keyframe"
	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/aretw0/keyframe/pkg/dsl"
	"github.com/aretw0/keyframe/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func heroBuilder() *dsl.Builder {
	b := dsl.New("hero")
	b.Bool("run").Trigger("attack").Float("pace", 1).Int("hp", 3)

	base := b.Layer("base")
	base.State("Idle").Length(1).Loop().Event(0.9, "breathe").
		To("Run").When("run").Duration(0.2).
		To("Attack").When("attack").Fixed(0.05)
	base.State("Run").Length(0.5).Loop().SpeedParameter("pace").
		To("Idle").Unless("run").Duration(0.1).Interrupt(domain.InterruptSource).Ordered()
	base.State("Attack").Length(0.6).VisualEvent(0.3, "hit").
		To("Idle").ExitTime(1)
	base.Any("Die").Less("hp", 1).Fixed(0.1)
	base.State("Die").Length(2)

	return b
}

func TestBuilder_Definition(t *testing.T) {
	def := heroBuilder().Definition()

	assert.Equal(t, "hero", def.Name)
	require.Len(t, def.Parameters, 4)
	assert.Equal(t, domain.ParameterTrigger, def.Parameters[1].Type)

	require.Len(t, def.Layers, 1)
	layer := def.Layers[0]
	assert.Equal(t, "Idle", layer.DefaultState, "first state is the default")
	require.Len(t, layer.States, 4)

	idle := layer.States[0]
	assert.Equal(t, 1.0, idle.Speed)
	require.Len(t, idle.Transitions, 2)
	assert.Equal(t, "Run", idle.Transitions[0].ToState)
	assert.False(t, idle.Transitions[0].HasFixedDuration)
	assert.Equal(t, "Attack", idle.Transitions[1].ToState)
	assert.True(t, idle.Transitions[1].HasFixedDuration)

	run := layer.States[1]
	assert.Equal(t, "pace", run.SpeedParameter)
	assert.Equal(t, domain.InterruptSource, run.Transitions[0].InterruptionSource)
	assert.True(t, run.Transitions[0].OrderedInterruption)
	assert.Equal(t, domain.ConditionIfNot, run.Transitions[0].Conditions[0].Mode)

	assert.True(t, layer.States[2].Events[0].Visual)
	require.Len(t, layer.AnyStateTransitions, 1)
	assert.Equal(t, domain.ConditionLess, layer.AnyStateTransitions[0].Conditions[0].Mode)

	assert.NoError(t, schema.Validate(&def))
}

func TestBuilder_DrivesAnimator(t *testing.T) {
	anim, err := keyframe.New(heroBuilder().Definition(), keyframe.WithStrict())
	require.NoError(t, err)

	anim.SetTrigger("attack")
	anim.Update(0.05)
	assert.Equal(t, "Attack", anim.CurrentStateName())

	anim.Update(0.6)
	assert.Equal(t, "Idle", anim.CurrentStateName(), "attack exits at its end")
}

func TestBuilder_Build(t *testing.T) {
	b := dsl.New("hero")
	b.Layer("base").Default("B").State("A").Length(1)
	b.Layer("base").State("B").Length(1)

	loader, err := b.Build()
	require.NoError(t, err)

	def, err := loader.Load(context.Background(), "hero")
	require.NoError(t, err)
	assert.Equal(t, "B", def.Layers[0].DefaultState)
	assert.Len(t, def.Layers[0].States, 2)

	_, err = dsl.New("").Build()
	assert.Error(t, err)
}

func TestTransitionBuilder_ToOnAnyPanics(t *testing.T) {
	assert.Panics(t, func() {
		dsl.New("x").Layer("l").Any("A").To("B")
	})
}
