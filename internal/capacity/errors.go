package capacity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is returned when an input value is missing or
	// outside its valid domain.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidCapacity is returned when an effective per-cell capacity is
	// zero or negative, which leaves the cell count undefined.
	ErrInvalidCapacity = errors.New("invalid cell capacity")

	// ErrOutOfRange is returned when inputs that are valid one by one
	// multiply past float64 or int. It wraps ErrInvalidParameter.
	ErrOutOfRange = fmt.Errorf("%w: result out of range", ErrInvalidParameter)
)

// ParamError describes which field failed validation and why.
// It matches ErrInvalidParameter with errors.Is.
type ParamError struct {
	// Field is the input name as it appears in scenario files.
	Field string

	// Value is the rejected value.
	Value float64

	// Reason is a short constraint description, e.g. "must be positive".
	Reason string
}

// Error implements error.
func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s %s (got %g)", ErrInvalidParameter, e.Field, e.Reason, e.Value)
}

// Unwrap returns ErrInvalidParameter.
func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}
