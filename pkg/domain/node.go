package domain

// AnimatorData is the authored definition of an animator: its parameters and layers.
type AnimatorData struct {
	Name       string          `json:"name" yaml:"name" mapstructure:"name"`
	Parameters []ParameterData `json:"parameters,omitempty" yaml:"parameters,omitempty" mapstructure:"parameters"`
	Layers     []LayerData     `json:"layers" yaml:"layers" mapstructure:"layers"`
}

// ParameterData declares a named, typed parameter and its defaults.
type ParameterData struct {
	Name         string        `json:"name" yaml:"name" mapstructure:"name"`
	Type         ParameterType `json:"type" yaml:"type" mapstructure:"type"`
	DefaultInt   int           `json:"default_int,omitempty" yaml:"default_int,omitempty" mapstructure:"default_int"`
	DefaultFloat float64       `json:"default_float,omitempty" yaml:"default_float,omitempty" mapstructure:"default_float"`
	DefaultBool  bool          `json:"default_bool,omitempty" yaml:"default_bool,omitempty" mapstructure:"default_bool"`
}

// LayerData declares one state machine of the animator.
type LayerData struct {
	Name                string           `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	DefaultState        string           `json:"default_state" yaml:"default_state" mapstructure:"default_state"`
	States              []StateData      `json:"states" yaml:"states" mapstructure:"states"`
	AnyStateTransitions []TransitionData `json:"any_state_transitions,omitempty" yaml:"any_state_transitions,omitempty" mapstructure:"any_state_transitions"`
}

// FindState returns the state declared with the given name.
func (l LayerData) FindState(name string) (StateData, bool) {
	for _, s := range l.States {
		if s.Name == name {
			return s, true
		}
	}
	return StateData{}, false
}

// FindParameter returns the parameter declared with the given name.
func (a AnimatorData) FindParameter(name string) (ParameterData, bool) {
	for _, p := range a.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterData{}, false
}
