package factor

import (
	"math"
)

// ProbTolerance is the absolute tolerance applied whenever a set of
// probabilities is required to sum to 1. Floating-point drift makes exact
// equality checks wrong here.
const ProbTolerance = 1e-6

// Factor maps every joint assignment of its scope to a non-negative real.
// The table is dense and row-major: the last scope variable varies fastest.
// Factors are immutable; every operation returns a fresh factor.
type Factor struct {
	scope   []*Variable
	strides []int
	values  []float64
	child   int // scope position of the designated child, -1 for plain factors
}

// New creates a plain factor over the given scope. The table must be total:
// len(values) must equal the product of the scope cardinalities, and every
// value must be finite and non-negative.
func New(scope []*Variable, values []float64) (*Factor, error) {
	seen := make(map[string]bool, len(scope))
	for _, v := range scope {
		if seen[v.Name()] {
			return nil, &FactorError{Op: "New", Variable: v.Name(), Cause: ErrDuplicateVariable}
		}
		seen[v.Name()] = true
	}
	size := tableSize(scope)
	if len(values) != size {
		return nil, &FactorError{Op: "New", Context: "table", Cause: ErrTableSize}
	}
	for _, val := range values {
		if math.IsNaN(val) || math.IsInf(val, 0) || val < 0 {
			return nil, &FactorError{Op: "New", Context: "table", Cause: ErrInvalidValue}
		}
	}
	f := newRaw(scope)
	copy(f.values, values)
	return f, nil
}

// NewPrior creates the factor for a root variable: scope {v}, one value per
// label, summing to 1 within ProbTolerance. The variable is tagged as the
// factor's child.
func NewPrior(v *Variable, values []float64) (*Factor, error) {
	f, err := New([]*Variable{v}, values)
	if err != nil {
		return nil, err
	}
	if !sumsToOne(f.values) {
		return nil, &FactorError{Op: "NewPrior", Variable: v.Name(), Cause: ErrRowSum}
	}
	f.child = 0
	return f, nil
}

// NewConditional creates the factor for a dependent variable. The scope is
// the parents in the given order followed by the child; the table lists, for
// each joint parent assignment, the child's conditional distribution, so
// every consecutive block of Cardinality(child) values must sum to 1 within
// ProbTolerance.
func NewConditional(child *Variable, parents []*Variable, values []float64) (*Factor, error) {
	scope := make([]*Variable, 0, len(parents)+1)
	scope = append(scope, parents...)
	scope = append(scope, child)
	f, err := New(scope, values)
	if err != nil {
		return nil, err
	}
	f.child = len(parents)
	if err := f.VerifyConditional(); err != nil {
		return nil, err
	}
	return f, nil
}

// Scope returns a copy of the factor's scope in order.
func (f *Factor) Scope() []*Variable {
	out := make([]*Variable, len(f.scope))
	copy(out, f.scope)
	return out
}

// Child returns the designated child variable, or nil for plain factors.
func (f *Factor) Child() *Variable {
	if f.child < 0 {
		return nil
	}
	return f.scope[f.child]
}

// Len returns the number of table entries.
func (f *Factor) Len() int {
	return len(f.values)
}

// Contains reports whether the named variable is in the factor's scope.
func (f *Factor) Contains(name string) bool {
	return f.position(name) >= 0
}

// Value returns the table entry for a full assignment of the scope.
func (f *Factor) Value(assignment map[string]string) (float64, error) {
	offset := 0
	for i, v := range f.scope {
		label, ok := assignment[v.Name()]
		if !ok {
			return 0, &FactorError{Op: "Value", Variable: v.Name(), Cause: ErrVariableNotInScope}
		}
		li, ok := v.Index(label)
		if !ok {
			return 0, &FactorError{Op: "Value", Variable: v.Name(), Label: label, Cause: ErrUnknownLabel}
		}
		offset += li * f.strides[i]
	}
	return f.values[offset], nil
}

// Sum returns the total mass of the table.
func (f *Factor) Sum() float64 {
	total := 0.0
	for _, val := range f.values {
		total += val
	}
	return total
}

// VerifyConditional re-checks the conditional-sum invariant: for every fixed
// assignment of the non-child scope variables, the values over the child's
// domain sum to 1 within ProbTolerance.
func (f *Factor) VerifyConditional() error {
	if f.child < 0 {
		return &FactorError{Op: "VerifyConditional", Cause: ErrNotConditional}
	}
	child := f.scope[f.child]
	card := child.Cardinality()
	stride := f.strides[f.child]

	// Walk every table cell with the child at index 0 and sum its block.
	idx := make([]int, len(f.scope))
	for offset := 0; offset < len(f.values); offset = advance(idx, f.scope, f.strides) {
		if idx[f.child] != 0 {
			continue
		}
		row := 0.0
		for c := 0; c < card; c++ {
			row += f.values[offset+c*stride]
		}
		if math.Abs(row-1) > ProbTolerance {
			return &FactorError{Op: "VerifyConditional", Variable: child.Name(), Cause: ErrRowSum}
		}
	}
	return nil
}

// newRaw allocates a zero-valued factor over scope with cached strides.
func newRaw(scope []*Variable) *Factor {
	owned := make([]*Variable, len(scope))
	copy(owned, scope)
	return &Factor{
		scope:   owned,
		strides: strides(owned),
		values:  make([]float64, tableSize(owned)),
		child:   -1,
	}
}

// position returns the scope index of the named variable, or -1.
func (f *Factor) position(name string) int {
	for i, v := range f.scope {
		if v.Name() == name {
			return i
		}
	}
	return -1
}

// strides returns per-position offsets for row-major indexing, last
// variable fastest.
func strides(scope []*Variable) []int {
	out := make([]int, len(scope))
	acc := 1
	for i := len(scope) - 1; i >= 0; i-- {
		out[i] = acc
		acc *= scope[i].Cardinality()
	}
	return out
}

func tableSize(scope []*Variable) int {
	size := 1
	for _, v := range scope {
		size *= v.Cardinality()
	}
	return size
}

// advance increments idx as a row-major odometer over scope and returns the
// table offset of the new assignment (len(values) once exhausted).
func advance(idx []int, scope []*Variable, str []int) int {
	for i := len(idx) - 1; i >= 0; i-- {
		idx[i]++
		if idx[i] < scope[i].Cardinality() {
			return offsetOf(idx, str)
		}
		idx[i] = 0
	}
	return tableSize(scope)
}

func offsetOf(idx []int, str []int) int {
	offset := 0
	for i, x := range idx {
		offset += x * str[i]
	}
	return offset
}

func sumsToOne(values []float64) bool {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return math.Abs(total-1) <= ProbTolerance
}
