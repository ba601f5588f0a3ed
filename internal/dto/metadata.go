package dto

import (
	"github.com/aretw0/keyframe/pkg/domain"
)

// AnimatorMetadata is the authoring form of an animator document.
// It uses "mapstructure" tags to match Frontmatter/YAML/JSON keys and
// accepts a few shorthands that the canonical domain types do not.
//
// A document may declare a single layer directly through DefaultState,
// States and AnyState instead of the Layers list.
type AnimatorMetadata struct {
	Name       string              `json:"name" mapstructure:"name"`
	Parameters []ParameterMetadata `json:"parameters" mapstructure:"parameters"`
	Layers     []LayerMetadata     `json:"layers" mapstructure:"layers"`

	DefaultState string               `json:"default_state" mapstructure:"default_state"`
	States       []StateMetadata      `json:"states" mapstructure:"states"`
	AnyState     []TransitionMetadata `json:"any_state" mapstructure:"any_state"`
}

// ParameterMetadata declares a parameter. Default is interpreted according
// to Type; when Type is empty it is inferred from Default. The typed
// default_* keys of the canonical form are accepted too.
type ParameterMetadata struct {
	Name    string `json:"name" mapstructure:"name"`
	Type    string `json:"type" mapstructure:"type"`
	Default any    `json:"default" mapstructure:"default"`

	DefaultInt   int     `json:"default_int" mapstructure:"default_int"`
	DefaultFloat float64 `json:"default_float" mapstructure:"default_float"`
	DefaultBool  bool    `json:"default_bool" mapstructure:"default_bool"`
}

type LayerMetadata struct {
	Name         string               `json:"name" mapstructure:"name"`
	DefaultState string               `json:"default_state" mapstructure:"default_state"`
	States       []StateMetadata      `json:"states" mapstructure:"states"`
	AnyState     []TransitionMetadata `json:"any_state" mapstructure:"any_state"`
	AnyStateFull []TransitionMetadata `json:"any_state_transitions" mapstructure:"any_state_transitions"`
}

type StateMetadata struct {
	Name   string  `json:"name" mapstructure:"name"`
	Length float64 `json:"length" mapstructure:"length"`
	Loop   bool    `json:"loop" mapstructure:"loop"`

	// Speed defaults to 1 when omitted.
	Speed          *float64 `json:"speed" mapstructure:"speed"`
	SpeedParameter string   `json:"speed_parameter" mapstructure:"speed_parameter"`

	Events      []domain.AnimationEventData `json:"events" mapstructure:"events"`
	Transitions []TransitionMetadata        `json:"transitions" mapstructure:"transitions"`
}

// TransitionMetadata accepts "to" as an alias of "to_state" and a "when"
// shorthand: "run" means run must be true, "!run" that it must be false.
// Setting exit_time implies has_exit_time; "fixed" aliases has_fixed_duration.
type TransitionMetadata struct {
	To      string `json:"to" mapstructure:"to"`
	ToState string `json:"to_state" mapstructure:"to_state"`

	When       string              `json:"when" mapstructure:"when"`
	Conditions []ConditionMetadata `json:"conditions" mapstructure:"conditions"`

	HasExitTime bool     `json:"has_exit_time" mapstructure:"has_exit_time"`
	ExitTime    *float64 `json:"exit_time" mapstructure:"exit_time"`

	Duration         float64 `json:"duration" mapstructure:"duration"`
	HasFixedDuration bool    `json:"has_fixed_duration" mapstructure:"has_fixed_duration"`
	Fixed            bool    `json:"fixed" mapstructure:"fixed"`

	InterruptionSource  string `json:"interruption_source" mapstructure:"interruption_source"`
	OrderedInterruption bool   `json:"ordered_interruption" mapstructure:"ordered_interruption"`
}

// ConditionMetadata accepts "param" as an alias of "parameter".
type ConditionMetadata struct {
	Parameter string  `json:"parameter" mapstructure:"parameter"`
	Param     string  `json:"param" mapstructure:"param"`
	Mode      string  `json:"mode" mapstructure:"mode"`
	Threshold float64 `json:"threshold" mapstructure:"threshold"`
}
