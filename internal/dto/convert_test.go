package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/keyframe/internal/dto"
	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const heroYAML = `
parameters:
  - name: run
    type: bool
  - name: hp
    default: 3
  - name: pace
    type: float
    default: "1.5"
  - name: attack
    type: trigger
default_state: Idle
states:
  - name: Idle
    length: 1
    loop: true
    events:
      - time: 0.9
        string: breathe
    transitions:
      - to: Run
        when: run
        duration: 0.2
  - name: Run
    length: 0.5
    loop: true
    speed: 2
    speed_parameter: pace
    transitions:
      - to_state: Idle
        when: "!run"
        exit_time: 0.5
        fixed: true
        duration: 0.1
        conditions:
          - param: hp
            mode: Greater
            threshold: 0
any_state:
  - to: Idle
    when: attack
`

func decodeYAML(t *testing.T, src string) *dto.AnimatorMetadata {
	t.Helper()
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(src), &raw))
	meta, err := dto.Decode(raw)
	require.NoError(t, err)
	return meta
}

func TestToDomain_Shorthands(t *testing.T) {
	def, err := decodeYAML(t, heroYAML).ToDomain("hero")
	require.NoError(t, err)

	assert.Equal(t, "hero", def.Name, "file name is the fallback")
	require.Len(t, def.Parameters, 4)
	assert.Equal(t, domain.ParameterInt, def.Parameters[1].Type, "type inferred from default")
	assert.Equal(t, 3, def.Parameters[1].DefaultInt)
	assert.Equal(t, 1.5, def.Parameters[2].DefaultFloat)

	require.Len(t, def.Layers, 1)
	layer := def.Layers[0]
	assert.Equal(t, "Idle", layer.DefaultState)

	idle := layer.States[0]
	assert.Equal(t, 1.0, idle.Speed, "speed defaults to 1")
	assert.Equal(t, "breathe", idle.Events[0].String)
	assert.Equal(t, domain.TransitionData{
		ToState:    "Run",
		Conditions: []domain.ConditionData{{Parameter: "run", Mode: domain.ConditionIf}},
		Duration:   0.2,
	}, idle.Transitions[0])

	back := layer.States[1].Transitions[0]
	assert.Equal(t, 2.0, layer.States[1].Speed)
	assert.Equal(t, "Idle", back.ToState)
	assert.True(t, back.HasExitTime)
	assert.Equal(t, 0.5, back.ExitTime)
	assert.True(t, back.HasFixedDuration)
	require.Len(t, back.Conditions, 2)
	assert.Equal(t, domain.ConditionIfNot, back.Conditions[0].Mode)
	assert.Equal(t, domain.ConditionData{Parameter: "hp", Mode: domain.ConditionGreater}, back.Conditions[1])

	require.Len(t, layer.AnyStateTransitions, 1)
}

func TestToDomain_Layers(t *testing.T) {
	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "face",
		"parameters": [{"name": "mood", "type": "int", "default": 2}],
		"layers": [
			{"name": "eyes", "states": [{"name": "Open", "length": 1}, {"name": "Closed", "length": 0.1}]},
			{"name": "mouth", "default_state": "Smile", "states": [{"name": "Smile", "length": 1, "speed": 0}],
			 "any_state_transitions": [{"to_state": "Smile", "conditions": [{"parameter": "mood", "mode": "equals", "threshold": 2}]}]}
		]
	}`), &raw))

	meta, err := dto.Decode(raw)
	require.NoError(t, err)
	def, err := meta.ToDomain("ignored")
	require.NoError(t, err)

	assert.Equal(t, "face", def.Name)
	assert.Equal(t, 2, def.Parameters[0].DefaultInt)
	require.Len(t, def.Layers, 2)
	assert.Equal(t, "Open", def.Layers[0].DefaultState, "first state is the default")
	assert.Equal(t, 0.0, def.Layers[1].States[0].Speed, "explicit zero speed is kept")
	assert.Equal(t, domain.ConditionEquals, def.Layers[1].AnyStateTransitions[0].Conditions[0].Mode)
}

func TestToDomain_BadDefault(t *testing.T) {
	meta := &dto.AnimatorMetadata{Parameters: []dto.ParameterMetadata{{Name: "x", Type: "float", Default: "fast"}}}
	_, err := meta.ToDomain("x")
	assert.ErrorContains(t, err, "parameters[0]")
}
