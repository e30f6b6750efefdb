package factor

// Variable identifies a discrete random variable with a finite, ordered
// domain of distinct labels. Immutable after construction.
type Variable struct {
	name   string
	labels []string
	index  map[string]int
}

// NewVariable creates a variable with the given name and domain labels.
// The domain must be non-empty and free of duplicates.
func NewVariable(name string, labels ...string) (*Variable, error) {
	if len(labels) == 0 {
		return nil, &FactorError{Op: "NewVariable", Variable: name, Cause: ErrEmptyDomain}
	}
	index := make(map[string]int, len(labels))
	for i, label := range labels {
		if _, dup := index[label]; dup {
			return nil, &FactorError{Op: "NewVariable", Variable: name, Label: label, Cause: ErrDuplicateLabel}
		}
		index[label] = i
	}
	owned := make([]string, len(labels))
	copy(owned, labels)
	return &Variable{name: name, labels: owned, index: index}, nil
}

// MustVariable is like NewVariable but panics on error. Intended for
// literal model definitions in tests and examples.
func MustVariable(name string, labels ...string) *Variable {
	v, err := NewVariable(name, labels...)
	if err != nil {
		panic(err)
	}
	return v
}

// Name returns the variable's identifier.
func (v *Variable) Name() string {
	return v.name
}

// Cardinality returns the size of the variable's domain.
func (v *Variable) Cardinality() int {
	return len(v.labels)
}

// Labels returns a copy of the domain in declaration order.
func (v *Variable) Labels() []string {
	out := make([]string, len(v.labels))
	copy(out, v.labels)
	return out
}

// Index returns the position of label in the domain, and whether it exists.
func (v *Variable) Index(label string) (int, bool) {
	i, ok := v.index[label]
	return i, ok
}

// Label returns the label at position i.
func (v *Variable) Label(i int) string {
	return v.labels[i]
}
