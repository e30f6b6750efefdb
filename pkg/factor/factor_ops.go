package factor

// Restrict returns a new factor with v removed from the scope and the table
// reduced to the rows matching label. Fails if v is not in scope or label is
// not in v's domain.
func (f *Factor) Restrict(v *Variable, label string) (*Factor, error) {
	pos := f.position(v.Name())
	if pos < 0 {
		return nil, &FactorError{Op: "Restrict", Variable: v.Name(), Cause: ErrVariableNotInScope}
	}
	li, ok := v.Index(label)
	if !ok {
		return nil, &FactorError{Op: "Restrict", Variable: v.Name(), Label: label, Cause: ErrUnknownLabel}
	}

	out := newRaw(removeAt(f.scope, pos))
	srcIdx := make([]int, len(f.scope))
	srcIdx[pos] = li
	dstIdx := make([]int, len(out.scope))
	for i := range out.values {
		for j := range dstIdx {
			if j < pos {
				srcIdx[j] = dstIdx[j]
			} else {
				srcIdx[j+1] = dstIdx[j]
			}
		}
		out.values[i] = f.values[offsetOf(srcIdx, f.strides)]
		advance(dstIdx, out.scope, out.strides)
	}
	return out, nil
}

// Multiply returns the pointwise product of f and other over the union of
// their scopes, broadcasting over variables present in only one operand. The
// union keeps f's scope order followed by other's novel variables, so the
// result is deterministic. Commutative and associative up to scope order.
func (f *Factor) Multiply(other *Factor) *Factor {
	union := make([]*Variable, 0, len(f.scope)+len(other.scope))
	union = append(union, f.scope...)
	for _, v := range other.scope {
		if f.position(v.Name()) < 0 {
			union = append(union, v)
		}
	}

	out := newRaw(union)
	posF := scopePositions(union, f)
	posO := scopePositions(union, other)
	idx := make([]int, len(union))
	for i := range out.values {
		fo, oo := 0, 0
		for j, x := range idx {
			if posF[j] >= 0 {
				fo += x * f.strides[posF[j]]
			}
			if posO[j] >= 0 {
				oo += x * other.strides[posO[j]]
			}
		}
		out.values[i] = f.values[fo] * other.values[oo]
		advance(idx, union, out.strides)
	}
	return out
}

// SumOut returns a new factor with v removed from the scope, each remaining
// entry summed over v's domain. Fails if v is not in scope.
func (f *Factor) SumOut(v *Variable) (*Factor, error) {
	pos := f.position(v.Name())
	if pos < 0 {
		return nil, &FactorError{Op: "SumOut", Variable: v.Name(), Cause: ErrVariableNotInScope}
	}

	out := newRaw(removeAt(f.scope, pos))
	idx := make([]int, len(f.scope))
	for _, val := range f.values {
		dst := 0
		for j, x := range idx {
			switch {
			case j < pos:
				dst += x * out.strides[j]
			case j > pos:
				dst += x * out.strides[j-1]
			}
		}
		out.values[dst] += val
		advance(idx, f.scope, f.strides)
	}
	return out, nil
}

// Normalize returns a copy of f scaled so its total mass is 1. Fails with
// ErrZeroMass if the table sums to zero, which happens when evidence has
// assigned probability zero to every outcome.
func (f *Factor) Normalize() (*Factor, error) {
	total := f.Sum()
	if total == 0 {
		return nil, &FactorError{Op: "Normalize", Cause: ErrZeroMass}
	}
	out := newRaw(f.scope)
	for i, val := range f.values {
		out.values[i] = val / total
	}
	return out, nil
}

func removeAt(scope []*Variable, pos int) []*Variable {
	out := make([]*Variable, 0, len(scope)-1)
	out = append(out, scope[:pos]...)
	out = append(out, scope[pos+1:]...)
	return out
}

// scopePositions maps each union position to the operand's scope position,
// or -1 where the operand does not carry that variable.
func scopePositions(union []*Variable, f *Factor) []int {
	out := make([]int, len(union))
	for i, v := range union {
		out[i] = f.position(v.Name())
	}
	return out
}
