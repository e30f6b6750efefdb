package network

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrDuplicateVariable = errors.New("variable already in network")
	ErrUnknownVariable   = errors.New("variable not in network")
	ErrDuplicateEdge     = errors.New("edge already in network")
	ErrSelfEdge          = errors.New("edge endpoints must differ")
	ErrCycle             = errors.New("network contains a directed cycle")
	ErrMissingFactor     = errors.New("variable has no attached factor")
	ErrFactorAttached    = errors.New("variable already has an attached factor")
	ErrScopeMismatch     = errors.New("factor scope does not match variable and parents")
	ErrWrongChild        = errors.New("factor child does not match variable")
	ErrFrozen            = errors.New("network is baked and immutable")
	ErrNotBaked          = errors.New("network has not been baked")
	ErrAlreadyBaked      = errors.New("network is already baked")
)

// NetworkError provides structured error information for network operations.
type NetworkError struct {
	Op       string // Operation that failed (e.g., "AddEdge", "Bake")
	Variable string // Variable involved (if applicable)
	Cause    error  // Underlying error
	Context  string // Additional context (e.g., a cycle path)
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	if e.Variable != "" {
		if e.Context != "" {
			return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Variable, e.Context, e.Cause)
		}
		return fmt.Sprintf("%s %s: %v", e.Op, e.Variable, e.Cause)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s (%s): %v", e.Op, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *NetworkError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// IsValidation returns true if the error indicates a structurally invalid
// network: duplicate or unknown variables, bad edges, cycles, or factors
// inconsistent with the variable's parent set.
func IsValidation(err error) bool {
	return errors.Is(err, ErrDuplicateVariable) ||
		errors.Is(err, ErrUnknownVariable) ||
		errors.Is(err, ErrDuplicateEdge) ||
		errors.Is(err, ErrSelfEdge) ||
		errors.Is(err, ErrCycle) ||
		errors.Is(err, ErrMissingFactor) ||
		errors.Is(err, ErrFactorAttached) ||
		errors.Is(err, ErrScopeMismatch) ||
		errors.Is(err, ErrWrongChild)
}

// IsFrozen returns true if the error indicates mutation after bake.
func IsFrozen(err error) bool {
	return errors.Is(err, ErrFrozen)
}

// IsNotBaked returns true if the error indicates use of an unbaked network.
func IsNotBaked(err error) bool {
	return errors.Is(err, ErrNotBaked)
}
