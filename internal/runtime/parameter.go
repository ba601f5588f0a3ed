package runtime

import (
	"fmt"
	"math"

	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/aretw0/keyframe/pkg/ports"
)

// floatEpsilon absorbs floating noise in float writes, equality conditions
// and transition completion.
const floatEpsilon = 1e-5

// Parameter is a single named, typed animator value.
type Parameter struct {
	name string
	typ  domain.ParameterType

	intValue   int
	floatValue float64
	boolValue  bool
	dirty      bool

	defaultInt   int
	defaultFloat float64
	defaultBool  bool
}

var _ ports.ParameterValue = (*Parameter)(nil)

// NewParameter creates a parameter holding its declared defaults.
func NewParameter(data domain.ParameterData) *Parameter {
	p := &Parameter{
		name:         data.Name,
		typ:          data.Type,
		defaultInt:   data.DefaultInt,
		defaultFloat: data.DefaultFloat,
		defaultBool:  data.DefaultBool,
	}
	p.ResetValue()
	return p
}

func (p *Parameter) Name() string               { return p.name }
func (p *Parameter) Type() domain.ParameterType { return p.typ }
func (p *Parameter) Int() int                   { return p.intValue }
func (p *Parameter) Float() float64             { return p.floatValue }
func (p *Parameter) Bool() bool                 { return p.boolValue }
func (p *Parameter) Dirty() bool                { return p.dirty }

// ClearDirty acknowledges the last write.
func (p *Parameter) ClearDirty() { p.dirty = false }

// SetInt stores v; dirty reflects whether the value changed.
func (p *Parameter) SetInt(v int) {
	p.dirty = p.intValue != v
	p.intValue = v
}

// SetFloat stores v; dirty reflects whether the value moved by more than floatEpsilon.
func (p *Parameter) SetFloat(v float64) {
	p.dirty = math.Abs(p.floatValue-v) > floatEpsilon
	p.floatValue = v
}

// SetBool stores v. Bool and trigger writes are always dirty.
func (p *Parameter) SetBool(v bool) {
	p.boolValue = v
	p.dirty = true
}

// ResetValue restores every value to its declared default.
func (p *Parameter) ResetValue() {
	p.intValue = p.defaultInt
	p.floatValue = p.defaultFloat
	p.boolValue = p.defaultBool
	p.dirty = true
}

// ResetTrigger restores only the boolean to its default. Transitions call it
// to consume the triggers they are conditioned on.
func (p *Parameter) ResetTrigger() {
	p.SetBool(p.defaultBool)
}

// NumericValue reads any parameter as a number: ints and floats as-is,
// booleans as 0 or 1.
func NumericValue(p ports.ParameterValue) float64 {
	switch p.Type() {
	case domain.ParameterInt:
		return float64(p.Int())
	case domain.ParameterFloat:
		return p.Float()
	}
	if p.Bool() {
		return 1
	}
	return 0
}

// Parameters is the animator-owned parameter set, keyed by name.
type Parameters struct {
	byName map[string]*Parameter
	order  []string
}

var _ ports.ParameterProvider = (*Parameters)(nil)

// NewParameters builds one parameter per declaration, in declaration order.
func NewParameters(data []domain.ParameterData) (*Parameters, error) {
	ps := &Parameters{
		byName: make(map[string]*Parameter, len(data)),
		order:  make([]string, 0, len(data)),
	}
	for _, d := range data {
		if _, exists := ps.byName[d.Name]; exists {
			return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateParameter, d.Name)
		}
		ps.byName[d.Name] = NewParameter(d)
		ps.order = append(ps.order, d.Name)
	}
	return ps, nil
}

// Get returns the mutable parameter registered under name.
func (ps *Parameters) Get(name string) (*Parameter, bool) {
	if ps == nil {
		return nil, false
	}
	p, ok := ps.byName[name]
	return p, ok
}

// Parameter implements ports.ParameterProvider.
func (ps *Parameters) Parameter(name string) (ports.ParameterValue, bool) {
	p, ok := ps.Get(name)
	if !ok {
		return nil, false
	}
	return p, true
}

// Names returns the parameter names in declaration order.
func (ps *Parameters) Names() []string {
	if ps == nil {
		return nil
	}
	return append([]string(nil), ps.order...)
}
