package schema

import (
	"fmt"

	"github.com/aretw0/keyframe/pkg/domain"
)

// Lint reports legal definitions that are likely mistakes. It assumes data
// passed Validate; references to undeclared states are skipped.
func Lint(data *domain.AnimatorData) []error {
	if data == nil {
		return nil
	}
	var warnings []error
	for i, layer := range data.Layers {
		warnings = append(warnings, lintLayer(fmt.Sprintf("layers[%d]", i), layer)...)
	}
	return warnings
}

func lintLayer(key string, layer domain.LayerData) []error {
	var warnings []error

	reachable := map[string]bool{layer.DefaultState: true}
	for _, t := range layer.AnyStateTransitions {
		reachable[t.ToState] = true
	}
	for _, s := range layer.States {
		for _, t := range s.Transitions {
			reachable[t.ToState] = true
		}
	}

	for i, t := range layer.AnyStateTransitions {
		if len(t.Conditions) == 0 && !t.HasExitTime {
			warnings = append(warnings, fail(
				fmt.Sprintf("%s.any_state_transitions[%d]", key, i),
				"any-state transition without conditions restarts on every update", t.ToState))
		}
	}

	for i, s := range layer.States {
		skey := fmt.Sprintf("%s.states[%d]", key, i)
		if !reachable[s.Name] {
			warnings = append(warnings, fail(skey, "state is unreachable", s.Name))
		}
		for j, ev := range s.Events {
			if ev.Time < 0 || ev.Time > s.Length {
				warnings = append(warnings, fail(fmt.Sprintf("%s.events[%d].time", skey, j), "event lies outside the animation and never fires", ev.Time))
			}
		}
		if s.Speed != 0 {
			continue
		}
		for j, t := range s.Transitions {
			if !t.HasFixedDuration && t.Duration > 0 {
				warnings = append(warnings, fail(
					fmt.Sprintf("%s.transitions[%d]", skey, j),
					"relative duration from a state with zero speed never completes", t.ToState))
			}
		}
	}
	return warnings
}
