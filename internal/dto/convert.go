package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Decode converts a generic document (as produced by YAML or JSON
// unmarshalling) into metadata. Numbers given as strings or json.Number
// are accepted.
func Decode(raw map[string]any) (*AnimatorMetadata, error) {
	var meta AnimatorMetadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &meta,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode animator: %w", err)
	}
	return &meta, nil
}

// ToDomain resolves shorthands and returns the canonical definition.
// fallbackName is used when the document carries no name.
func (m *AnimatorMetadata) ToDomain(fallbackName string) (*domain.AnimatorData, error) {
	def := &domain.AnimatorData{Name: m.Name}
	if def.Name == "" {
		def.Name = fallbackName
	}

	for i, p := range m.Parameters {
		param, err := p.toDomain()
		if err != nil {
			return nil, fmt.Errorf("parameters[%d]: %w", i, err)
		}
		def.Parameters = append(def.Parameters, param)
	}

	if len(m.States) > 0 {
		def.Layers = append(def.Layers, LayerMetadata{
			DefaultState: m.DefaultState,
			States:       m.States,
			AnyState:     m.AnyState,
		}.toDomain())
	}
	for _, l := range m.Layers {
		def.Layers = append(def.Layers, l.toDomain())
	}
	return def, nil
}

func (p ParameterMetadata) toDomain() (domain.ParameterData, error) {
	out := domain.ParameterData{
		Name:         p.Name,
		Type:         domain.ParameterType(strings.ToLower(p.Type)),
		DefaultInt:   p.DefaultInt,
		DefaultFloat: p.DefaultFloat,
		DefaultBool:  p.DefaultBool,
	}
	if out.Type == "" {
		out.Type = inferType(p.Default)
	}

	if p.Default == nil {
		return out, nil
	}
	switch out.Type {
	case domain.ParameterInt:
		v, err := toFloat(p.Default)
		if err != nil {
			return out, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		out.DefaultInt = int(v)
	case domain.ParameterFloat:
		v, err := toFloat(p.Default)
		if err != nil {
			return out, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		out.DefaultFloat = v
	case domain.ParameterBool, domain.ParameterTrigger:
		v, err := toBool(p.Default)
		if err != nil {
			return out, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		out.DefaultBool = v
	}
	return out, nil
}

func inferType(v any) domain.ParameterType {
	switch n := v.(type) {
	case bool:
		return domain.ParameterBool
	case int, int64, uint64:
		return domain.ParameterInt
	case json.Number:
		if _, err := n.Int64(); err == nil {
			return domain.ParameterInt
		}
		return domain.ParameterFloat
	case float64, float32:
		return domain.ParameterFloat
	}
	return domain.ParameterBool
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(n, 64)
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

func toBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		return strconv.ParseBool(b)
	}
	return false, fmt.Errorf("expected a bool, got %T", v)
}

func (l LayerMetadata) toDomain() domain.LayerData {
	out := domain.LayerData{Name: l.Name, DefaultState: l.DefaultState}
	for _, s := range l.States {
		out.States = append(out.States, s.toDomain())
	}
	if out.DefaultState == "" && len(out.States) > 0 {
		out.DefaultState = out.States[0].Name
	}
	for _, t := range append(append([]TransitionMetadata(nil), l.AnyState...), l.AnyStateFull...) {
		out.AnyStateTransitions = append(out.AnyStateTransitions, t.toDomain())
	}
	return out
}

func (s StateMetadata) toDomain() domain.StateData {
	out := domain.StateData{
		Name:           s.Name,
		Length:         s.Length,
		Loop:           s.Loop,
		Speed:          1,
		SpeedParameter: s.SpeedParameter,
		Events:         s.Events,
	}
	if s.Speed != nil {
		out.Speed = *s.Speed
	}
	for _, t := range s.Transitions {
		out.Transitions = append(out.Transitions, t.toDomain())
	}
	return out
}

func (t TransitionMetadata) toDomain() domain.TransitionData {
	out := domain.TransitionData{
		ToState:             t.ToState,
		HasExitTime:         t.HasExitTime || t.ExitTime != nil,
		Duration:            t.Duration,
		HasFixedDuration:    t.HasFixedDuration || t.Fixed,
		InterruptionSource:  domain.InterruptionSource(t.InterruptionSource),
		OrderedInterruption: t.OrderedInterruption,
	}
	if out.ToState == "" {
		out.ToState = t.To
	}
	if t.ExitTime != nil {
		out.ExitTime = *t.ExitTime
	}

	if when := strings.TrimSpace(t.When); when != "" {
		mode := domain.ConditionIf
		if strings.HasPrefix(when, "!") {
			mode = domain.ConditionIfNot
			when = strings.TrimSpace(when[1:])
		}
		out.Conditions = append(out.Conditions, domain.ConditionData{Parameter: when, Mode: mode})
	}
	for _, c := range t.Conditions {
		param := c.Parameter
		if param == "" {
			param = c.Param
		}
		out.Conditions = append(out.Conditions, domain.ConditionData{
			Parameter: param,
			Mode:      domain.ConditionMode(strings.ToLower(c.Mode)),
			Threshold: c.Threshold,
		})
	}
	return out
}
