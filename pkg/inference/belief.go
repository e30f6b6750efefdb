package inference

import (
	"github.com/dd0wney/cluso-bayes/pkg/factor"
)

// Evidence maps observed variables to the label each was observed at.
type Evidence map[string]string

// Belief is the posterior distribution of a single variable. Observed
// variables get the same uniform representation as unobserved ones: a full
// distribution, degenerate on the observed label.
type Belief struct {
	Variable string
	Probs    map[string]float64
}

// Prob returns the posterior probability of label, or 0 for labels outside
// the variable's domain.
func (b Belief) Prob(label string) float64 {
	return b.Probs[label]
}

// degenerateBelief places probability 1 on the observed label.
func degenerateBelief(v *factor.Variable, observed string) Belief {
	probs := make(map[string]float64, v.Cardinality())
	for _, label := range v.Labels() {
		if label == observed {
			probs[label] = 1
		} else {
			probs[label] = 0
		}
	}
	return Belief{Variable: v.Name(), Probs: probs}
}

// beliefFromFactor reads a normalized single-variable factor into a Belief.
func beliefFromFactor(v *factor.Variable, f *factor.Factor) (Belief, error) {
	probs := make(map[string]float64, v.Cardinality())
	for _, label := range v.Labels() {
		p, err := f.Value(map[string]string{v.Name(): label})
		if err != nil {
			return Belief{}, err
		}
		probs[label] = p
	}
	return Belief{Variable: v.Name(), Probs: probs}, nil
}
