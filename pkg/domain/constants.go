package domain

// ParameterType is the value type of an animator parameter.
type ParameterType string

const (
	ParameterInt     ParameterType = "int"
	ParameterFloat   ParameterType = "float"
	ParameterBool    ParameterType = "bool"
	ParameterTrigger ParameterType = "trigger"
)

// IsNumeric reports whether the parameter holds an int or float value.
func (t ParameterType) IsNumeric() bool {
	return t == ParameterInt || t == ParameterFloat
}

// IsBoolean reports whether the parameter holds a bool or trigger value.
func (t ParameterType) IsBoolean() bool {
	return t == ParameterBool || t == ParameterTrigger
}

// Valid reports whether t is one of the known parameter types.
func (t ParameterType) Valid() bool {
	return t.IsNumeric() || t.IsBoolean()
}

// ConditionMode is the comparator applied by a transition condition.
type ConditionMode string

const (
	// ConditionIf requires a bool/trigger parameter to be true.
	ConditionIf ConditionMode = "if"
	// ConditionIfNot requires a bool/trigger parameter to be false.
	ConditionIfNot    ConditionMode = "if_not"
	ConditionGreater  ConditionMode = "greater"
	ConditionLess     ConditionMode = "less"
	ConditionEquals   ConditionMode = "equals"
	ConditionNotEqual ConditionMode = "not_equal"
)

// IsNumeric reports whether the mode compares against a numeric threshold.
func (m ConditionMode) IsNumeric() bool {
	switch m {
	case ConditionGreater, ConditionLess, ConditionEquals, ConditionNotEqual:
		return true
	}
	return false
}

// IsBoolean reports whether the mode tests a boolean value.
func (m ConditionMode) IsBoolean() bool {
	return m == ConditionIf || m == ConditionIfNot
}

// Valid reports whether m is one of the known comparators.
func (m ConditionMode) Valid() bool {
	return m.IsNumeric() || m.IsBoolean()
}

// InterruptionSource selects which transition pools may interrupt an active transition.
// The any-state pool is always consulted first regardless of this value.
type InterruptionSource string

const (
	InterruptNone                  InterruptionSource = "none"
	InterruptSource                InterruptionSource = "source"
	InterruptDestination           InterruptionSource = "destination"
	InterruptSourceThenDestination InterruptionSource = "source_then_destination"
	InterruptDestinationThenSource InterruptionSource = "destination_then_source"
)

// Valid reports whether s is one of the known interruption sources.
// The empty value is accepted and behaves as InterruptNone.
func (s InterruptionSource) Valid() bool {
	switch s {
	case "", InterruptNone, InterruptSource, InterruptDestination,
		InterruptSourceThenDestination, InterruptDestinationThenSource:
		return true
	}
	return false
}

// Event channel names used by listeners, hooks and metrics.
const (
	ChannelGeneric = "generic"
	ChannelVisual  = "visual"
)
