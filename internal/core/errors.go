package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures.
type ErrorKind int

// ErrorKind values.
const (
	// CastFailure: something that is not a mock was handed to the engine. Programmer error.
	CastFailure ErrorKind = iota + 1
	// NoDefinedBehaviour: resolution reached the terminal tier with nothing applicable.
	NoDefinedBehaviour
	// TooManyDefinedBehaviour: two or more behaviours matched one call.
	TooManyDefinedBehaviour
	// AssertionFailure: a verification constraint was not met.
	AssertionFailure
)

// Sentinel errors, one per ErrorKind, for use with errors.Is.
var (
	ErrCastFailure             = errors.New("cast failure")
	ErrNoDefinedBehaviour      = errors.New("no defined behaviour")
	ErrTooManyDefinedBehaviour = errors.New("too many defined behaviours")
	ErrAssertionFailure        = errors.New("assertion failure")
)

// MockError describes an engine failure. It unwraps to the sentinel for its Kind.
type MockError struct {
	Kind        ErrorKind
	Operation   OperationID
	Description string
	Matches     int
}

// Error implements error.
func (e *MockError) Error() string {
	switch e.Kind {
	case CastFailure:
		return fmt.Sprintf("%v: %s is not a mock", ErrCastFailure, e.Description)
	case TooManyDefinedBehaviour:
		return fmt.Sprintf("%v for %s: %d behaviours match", ErrTooManyDefinedBehaviour, e.Description, e.Matches)
	case NoDefinedBehaviour, AssertionFailure:
		return fmt.Sprintf("%v for %s", e.Unwrap(), e.Description)
	default:
		return fmt.Sprintf("mock error (%d) for %s", e.Kind, e.Description)
	}
}

// Unwrap returns the sentinel error for the kind.
func (e *MockError) Unwrap() error {
	return e.Kind.sentinel()
}

// String returns the kind's name.
func (k ErrorKind) String() string {
	switch k {
	case CastFailure:
		return "CastFailure"
	case NoDefinedBehaviour:
		return "NoDefinedBehaviour"
	case TooManyDefinedBehaviour:
		return "TooManyDefinedBehaviour"
	case AssertionFailure:
		return "AssertionFailure"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case CastFailure:
		return ErrCastFailure
	case NoDefinedBehaviour:
		return ErrNoDefinedBehaviour
	case TooManyDefinedBehaviour:
		return ErrTooManyDefinedBehaviour
	case AssertionFailure:
		return ErrAssertionFailure
	default:
		return nil
	}
}
