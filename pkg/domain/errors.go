package domain

import "errors"

// ErrAnimatorNotFound is returned by loaders when no definition exists for a name.
var ErrAnimatorNotFound = errors.New("animator not found")

// ErrUnknownState is reported when a state name does not exist in a layer.
var ErrUnknownState = errors.New("unknown state")

// ErrUnknownParameter is reported when a parameter name is not declared.
var ErrUnknownParameter = errors.New("unknown parameter")

// ErrDuplicateState is returned when a layer declares the same state twice.
var ErrDuplicateState = errors.New("duplicate state")

// ErrDuplicateParameter is returned when an animator declares the same parameter twice.
var ErrDuplicateParameter = errors.New("duplicate parameter")
