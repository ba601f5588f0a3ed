package schema

import (
	"fmt"
	"math"

	"github.com/aretw0/keyframe/pkg/domain"
)

// Validate checks data for authoring errors.
// Returns an *AggregateError with every failure found, or nil.
func Validate(data *domain.AnimatorData) error {
	if data == nil {
		return fail("animator", "definition is nil", nil)
	}

	var errs []error
	if data.Name == "" {
		errs = append(errs, fail("name", "required", nil))
	}

	params := make(map[string]domain.ParameterType, len(data.Parameters))
	for i, p := range data.Parameters {
		key := fmt.Sprintf("parameters[%d]", i)
		switch {
		case p.Name == "":
			errs = append(errs, fail(key+".name", "required", nil))
		case hasKey(params, p.Name):
			errs = append(errs, fail(key+".name", "duplicate parameter", p.Name))
		}
		if !p.Type.Valid() {
			errs = append(errs, fail(key+".type", "unknown parameter type", string(p.Type)))
		}
		if p.Name != "" {
			params[p.Name] = p.Type
		}
	}

	if len(data.Layers) == 0 {
		errs = append(errs, fail("layers", "at least one layer is required", nil))
	}
	layerNames := make(map[string]bool, len(data.Layers))
	for i, layer := range data.Layers {
		key := fmt.Sprintf("layers[%d]", i)
		if layer.Name != "" {
			if layerNames[layer.Name] {
				errs = append(errs, fail(key+".name", "duplicate layer", layer.Name))
			}
			layerNames[layer.Name] = true
		}
		errs = append(errs, validateLayer(key, layer, params)...)
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

func validateLayer(key string, layer domain.LayerData, params map[string]domain.ParameterType) []error {
	var errs []error

	states := make(map[string]bool, len(layer.States))
	for i, s := range layer.States {
		skey := fmt.Sprintf("%s.states[%d]", key, i)
		switch {
		case s.Name == "":
			errs = append(errs, fail(skey+".name", "required", nil))
		case states[s.Name]:
			errs = append(errs, fail(skey+".name", "duplicate state", s.Name))
		}
		states[s.Name] = true
	}

	if len(layer.States) == 0 {
		errs = append(errs, fail(key+".states", "at least one state is required", nil))
	} else if !states[layer.DefaultState] {
		errs = append(errs, fail(key+".default_state", "unknown state", layer.DefaultState))
	}

	for i, s := range layer.States {
		skey := fmt.Sprintf("%s.states[%d]", key, i)
		if s.Length < 0 || math.IsNaN(s.Length) || math.IsInf(s.Length, 0) {
			errs = append(errs, fail(skey+".length", "must be a finite non-negative number", s.Length))
		}
		if s.SpeedParameter != "" {
			typ, ok := params[s.SpeedParameter]
			switch {
			case !ok:
				errs = append(errs, fail(skey+".speed_parameter", "unknown parameter", s.SpeedParameter))
			case !typ.IsNumeric():
				errs = append(errs, fail(skey+".speed_parameter", "parameter is not numeric", s.SpeedParameter))
			}
		}
		for j, t := range s.Transitions {
			errs = append(errs, validateTransition(fmt.Sprintf("%s.transitions[%d]", skey, j), t, states, params)...)
		}
	}
	for j, t := range layer.AnyStateTransitions {
		errs = append(errs, validateTransition(fmt.Sprintf("%s.any_state_transitions[%d]", key, j), t, states, params)...)
	}
	return errs
}

func validateTransition(key string, t domain.TransitionData, states map[string]bool, params map[string]domain.ParameterType) []error {
	var errs []error
	if !states[t.ToState] {
		errs = append(errs, fail(key+".to_state", "unknown state", t.ToState))
	}
	if t.HasExitTime && (t.ExitTime < 0 || math.IsNaN(t.ExitTime) || math.IsInf(t.ExitTime, 0)) {
		errs = append(errs, fail(key+".exit_time", "must be a finite non-negative number", t.ExitTime))
	}
	if t.Duration < 0 {
		errs = append(errs, fail(key+".duration", "must not be negative", t.Duration))
	}
	if !t.InterruptionSource.Valid() {
		errs = append(errs, fail(key+".interruption_source", "unknown interruption source", string(t.InterruptionSource)))
	}

	for i, c := range t.Conditions {
		ckey := fmt.Sprintf("%s.conditions[%d]", key, i)
		typ, ok := params[c.Parameter]
		if !ok {
			errs = append(errs, fail(ckey+".parameter", "unknown parameter", c.Parameter))
			continue
		}
		switch {
		case !c.Mode.Valid():
			errs = append(errs, fail(ckey+".mode", "unknown condition mode", string(c.Mode)))
		case c.Mode.IsNumeric() && !typ.IsNumeric():
			errs = append(errs, fail(ckey+".mode", fmt.Sprintf("%s requires an int or float parameter", c.Mode), string(typ)))
		case c.Mode.IsBoolean() && !typ.IsBoolean():
			errs = append(errs, fail(ckey+".mode", fmt.Sprintf("%s requires a bool or trigger parameter", c.Mode), string(typ)))
		}
	}
	return errs
}

func hasKey[V any](m map[string]V, k string) bool {
	_, ok := m[k]
	return ok
}
