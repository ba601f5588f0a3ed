package domain

// TransitionData declares a guarded edge towards ToState.
type TransitionData struct {
	ToState    string          `json:"to_state" yaml:"to_state" mapstructure:"to_state"`
	Conditions []ConditionData `json:"conditions,omitempty" yaml:"conditions,omitempty" mapstructure:"conditions"`

	// HasExitTime gates the transition until the source state's normalized
	// time reaches ExitTime.
	HasExitTime bool    `json:"has_exit_time,omitempty" yaml:"has_exit_time,omitempty" mapstructure:"has_exit_time"`
	ExitTime    float64 `json:"exit_time,omitempty" yaml:"exit_time,omitempty" mapstructure:"exit_time"`

	// Duration is absolute when HasFixedDuration is set, otherwise a fraction
	// of the source state's duration.
	Duration         float64 `json:"duration,omitempty" yaml:"duration,omitempty" mapstructure:"duration"`
	HasFixedDuration bool    `json:"has_fixed_duration,omitempty" yaml:"has_fixed_duration,omitempty" mapstructure:"has_fixed_duration"`

	InterruptionSource InterruptionSource `json:"interruption_source,omitempty" yaml:"interruption_source,omitempty" mapstructure:"interruption_source"`

	// OrderedInterruption stops the interruption scan when the active
	// transition itself is reached in the candidate list.
	OrderedInterruption bool `json:"ordered_interruption,omitempty" yaml:"ordered_interruption,omitempty" mapstructure:"ordered_interruption"`
}

// ConditionData compares a parameter against a threshold.
// Threshold is ignored by the boolean modes.
type ConditionData struct {
	Parameter string        `json:"parameter" yaml:"parameter" mapstructure:"parameter"`
	Mode      ConditionMode `json:"mode" yaml:"mode" mapstructure:"mode"`
	Threshold float64       `json:"threshold,omitempty" yaml:"threshold,omitempty" mapstructure:"threshold"`
}
