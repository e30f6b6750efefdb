package inference

import (
	"errors"
	"fmt"

	"github.com/dd0wney/cluso-bayes/pkg/factor"
)

// Common sentinel errors
var (
	ErrEvidenceVariable = errors.New("evidence references unknown variable")
	ErrEvidenceLabel    = errors.New("evidence label not in variable domain")
	ErrTargetVariable   = errors.New("query target not in network")
)

// QueryError provides structured error information for inference queries.
type QueryError struct {
	Op       string // Operation that failed (e.g., "Query", "Marginal")
	Variable string // Variable involved (if applicable)
	Label    string // Evidence label involved (if applicable)
	Cause    error  // Underlying error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	if e.Variable != "" {
		if e.Label != "" {
			return fmt.Sprintf("%s %s=%s: %v", e.Op, e.Variable, e.Label, e.Cause)
		}
		return fmt.Sprintf("%s %s: %v", e.Op, e.Variable, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *QueryError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *QueryError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// IsEvidence returns true if the error indicates invalid evidence: an
// unknown variable or a label outside its domain.
func IsEvidence(err error) bool {
	return errors.Is(err, ErrEvidenceVariable) || errors.Is(err, ErrEvidenceLabel)
}

// IsDegenerate returns true if the error indicates that evidence assigned
// probability zero to every outcome of a queried variable.
func IsDegenerate(err error) bool {
	return errors.Is(err, factor.ErrZeroMass)
}
