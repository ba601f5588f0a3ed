package runner

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Script is an ordered list of steps applied to one animator.
type Script struct {
	Name  string `json:"name,omitempty" mapstructure:"name"`
	Steps []Step `json:"steps" mapstructure:"steps"`
}

// Step writes parameters, optionally plays a state, then calls Update(Dt)
// Repeat times (at least once). Writes apply in field order.
type Step struct {
	Dt     float64 `json:"dt" mapstructure:"dt"`
	Repeat int     `json:"repeat,omitempty" mapstructure:"repeat"`

	Int          map[string]int     `json:"int,omitempty" mapstructure:"int"`
	Float        map[string]float64 `json:"float,omitempty" mapstructure:"float"`
	Bool         map[string]bool    `json:"bool,omitempty" mapstructure:"bool"`
	Trigger      []string           `json:"trigger,omitempty" mapstructure:"trigger"`
	ResetTrigger []string           `json:"reset_trigger,omitempty" mapstructure:"reset_trigger"`
	Play         string             `json:"play,omitempty" mapstructure:"play"`

	// Expect maps a layer (by name or index) to the state it must be in
	// after the step's last update.
	Expect map[string]string `json:"expect,omitempty" mapstructure:"expect"`
}

func (s Step) updates() int {
	if s.Repeat < 1 {
		return 1
	}
	return s.Repeat
}

// DecodeScript converts a generic map (from YAML, JSON or a request body)
// into a Script. Scalar types are coerced where unambiguous.
func DecodeScript(raw map[string]any) (Script, error) {
	var script Script
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &script,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Script{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Script{}, fmt.Errorf("invalid script: %w", err)
	}
	return script, nil
}

// ParseScript decodes YAML (or JSON) bytes into a Script.
func ParseScript(data []byte) (Script, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Script{}, fmt.Errorf("failed to parse script: %w", err)
	}
	return DecodeScript(raw)
}

// LoadScript reads a script file.
func LoadScript(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("failed to read script: %w", err)
	}
	script, err := ParseScript(data)
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	return script, nil
}
