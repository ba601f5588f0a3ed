package domain

// StateData declares a time-advancing state of a layer.
type StateData struct {
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Length is the animation duration in authoring units at speed 1.
	Length float64 `json:"length" yaml:"length" mapstructure:"length"`
	Loop   bool    `json:"loop,omitempty" yaml:"loop,omitempty" mapstructure:"loop"`

	// Speed is the base playback speed. Zero is a legal (frozen) value, so
	// loaders that want a default of 1 must set it explicitly.
	Speed float64 `json:"speed" yaml:"speed" mapstructure:"speed"`

	// SpeedParameter optionally names a numeric parameter multiplied into Speed.
	SpeedParameter string `json:"speed_parameter,omitempty" yaml:"speed_parameter,omitempty" mapstructure:"speed_parameter"`

	Events      []AnimationEventData `json:"events,omitempty" yaml:"events,omitempty" mapstructure:"events"`
	Transitions []TransitionData     `json:"transitions,omitempty" yaml:"transitions,omitempty" mapstructure:"transitions"`
}

// AnimationEvent is the read view of a fired event handed to listeners.
type AnimationEvent interface {
	EventTime() float64
	StringValue() string
	IntValue() int
	FloatValue() float64
	IsVisual() bool
}

// AnimationEventData is a timed event declared on a state.
// The runtime never interprets the payload fields.
type AnimationEventData struct {
	Time   float64 `json:"time" yaml:"time" mapstructure:"time"`
	Visual bool    `json:"visual,omitempty" yaml:"visual,omitempty" mapstructure:"visual"`
	Audio  bool    `json:"audio,omitempty" yaml:"audio,omitempty" mapstructure:"audio"`
	String string  `json:"string,omitempty" yaml:"string,omitempty" mapstructure:"string"`
	Int    int     `json:"int,omitempty" yaml:"int,omitempty" mapstructure:"int"`
	Float  float64 `json:"float,omitempty" yaml:"float,omitempty" mapstructure:"float"`
}

var _ AnimationEvent = AnimationEventData{}

func (e AnimationEventData) EventTime() float64  { return e.Time }
func (e AnimationEventData) StringValue() string { return e.String }
func (e AnimationEventData) IntValue() int       { return e.Int }
func (e AnimationEventData) FloatValue() float64 { return e.Float }
func (e AnimationEventData) IsVisual() bool      { return e.Visual }
