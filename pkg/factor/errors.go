package factor

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrEmptyDomain        = errors.New("domain must contain at least one label")
	ErrDuplicateLabel     = errors.New("domain labels must be distinct")
	ErrDuplicateVariable  = errors.New("scope variables must be distinct")
	ErrTableSize          = errors.New("table length does not match scope product domain")
	ErrInvalidValue       = errors.New("factor values must be finite and non-negative")
	ErrRowSum             = errors.New("distribution does not sum to 1")
	ErrVariableNotInScope = errors.New("variable not in factor scope")
	ErrUnknownLabel       = errors.New("label not in variable domain")
	ErrZeroMass           = errors.New("factor has zero total mass")
	ErrNotConditional     = errors.New("factor has no designated child variable")
)

// FactorError provides structured error information for factor operations.
type FactorError struct {
	Op       string // Operation that failed (e.g., "Restrict", "Normalize")
	Variable string // Variable involved (if applicable)
	Label    string // Label involved (for restrict/lookup operations)
	Cause    error  // Underlying error
	Context  string // Additional context
}

// Error implements the error interface.
func (e *FactorError) Error() string {
	if e.Variable != "" {
		if e.Label != "" {
			return fmt.Sprintf("%s %s=%s: %v", e.Op, e.Variable, e.Label, e.Cause)
		}
		return fmt.Sprintf("%s %s: %v", e.Op, e.Variable, e.Cause)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s (%s): %v", e.Op, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *FactorError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *FactorError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// IsValidation returns true if the error indicates a malformed domain or table.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyDomain) ||
		errors.Is(err, ErrDuplicateLabel) ||
		errors.Is(err, ErrDuplicateVariable) ||
		errors.Is(err, ErrTableSize) ||
		errors.Is(err, ErrInvalidValue) ||
		errors.Is(err, ErrRowSum)
}

// IsEvidence returns true if the error indicates evidence naming an unknown
// variable or a label outside its domain.
func IsEvidence(err error) bool {
	return errors.Is(err, ErrVariableNotInScope) || errors.Is(err, ErrUnknownLabel)
}

// IsDegenerate returns true if the error indicates a zero-mass factor that
// cannot be normalized.
func IsDegenerate(err error) bool {
	return errors.Is(err, ErrZeroMass)
}
