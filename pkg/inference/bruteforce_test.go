package inference

import (
	"testing"

	"github.com/dd0wney/cluso-bayes/pkg/factor"
	"github.com/dd0wney/cluso-bayes/pkg/network"
)

// enumerateMarginal computes q's posterior by full joint enumeration:
// multiply every CPT entry over every complete assignment consistent with
// the evidence, then condition. The oracle the engine must agree with.
func enumerateMarginal(t *testing.T, net *network.Network, evidence Evidence, q string) map[string]float64 {
	t.Helper()

	vars := net.Variables()
	qv := net.Variable(q)
	sums := make(map[string]float64, qv.Cardinality())
	for _, label := range qv.Labels() {
		sums[label] = 0
	}

	assignment := make(map[string]string, len(vars))
	var walk func(i int)
	walk = func(i int) {
		if i == len(vars) {
			joint := 1.0
			for _, v := range vars {
				p, err := net.Factor(v.Name()).Value(assignment)
				if err != nil {
					t.Fatalf("Value failed: %v", err)
				}
				joint *= p
			}
			sums[assignment[q]] += joint
			return
		}
		v := vars[i]
		if label, observed := evidence[v.Name()]; observed {
			assignment[v.Name()] = label
			walk(i + 1)
			return
		}
		for _, label := range v.Labels() {
			assignment[v.Name()] = label
			walk(i + 1)
		}
	}
	walk(0)

	total := 0.0
	for _, p := range sums {
		total += p
	}
	if total == 0 {
		t.Fatalf("Brute-force total for %s is zero", q)
	}
	for label := range sums {
		sums[label] /= total
	}
	return sums
}

func TestBruteForceEquivalence_MontyHall(t *testing.T) {
	net := montyHallNetwork(t)

	cases := []Evidence{
		nil,
		{"guest": "A"},
		{"guest": "A", "monty": "B"},
		{"monty": "C"},
		{"prize": "B"},
	}
	for _, evidence := range cases {
		beliefs, err := Query(net, evidence, nil)
		if err != nil {
			t.Fatalf("Query(%v) failed: %v", evidence, err)
		}
		for q, belief := range beliefs {
			want := enumerateMarginal(t, net, evidence, q)
			for label, p := range want {
				if !almostEqual(belief.Prob(label), p) {
					t.Errorf("evidence %v: P(%s=%s) = %v, brute force %v",
						evidence, q, label, belief.Prob(label), p)
				}
			}
		}
	}
}

func TestBruteForceEquivalence_Chain(t *testing.T) {
	// a -> b -> c with skew CPTs, exercising non-uniform priors.
	a := factor.MustVariable("a", "0", "1")
	b := factor.MustVariable("b", "0", "1")
	c := factor.MustVariable("c", "0", "1")

	net := network.New()
	for _, v := range []*factor.Variable{a, b, c} {
		if err := net.AddVariable(v); err != nil {
			t.Fatal(err)
		}
	}
	net.AddEdge("a", "b")
	net.AddEdge("b", "c")

	aPrior, _ := factor.NewPrior(a, []float64{0.9, 0.1})
	bCPT, _ := factor.NewConditional(b, []*factor.Variable{a}, []float64{
		0.7, 0.3,
		0.2, 0.8,
	})
	cCPT, _ := factor.NewConditional(c, []*factor.Variable{b}, []float64{
		0.6, 0.4,
		0.1, 0.9,
	})
	net.AttachFactor("a", aPrior)
	net.AttachFactor("b", bCPT)
	net.AttachFactor("c", cCPT)
	if err := net.Bake(); err != nil {
		t.Fatalf("Bake failed: %v", err)
	}

	cases := []Evidence{
		nil,
		{"c": "1"},
		{"a": "0", "c": "1"},
		{"b": "0"},
	}
	for _, evidence := range cases {
		beliefs, err := Query(net, evidence, nil)
		if err != nil {
			t.Fatalf("Query(%v) failed: %v", evidence, err)
		}
		for q, belief := range beliefs {
			want := enumerateMarginal(t, net, evidence, q)
			for label, p := range want {
				if !almostEqual(belief.Prob(label), p) {
					t.Errorf("evidence %v: P(%s=%s) = %v, brute force %v",
						evidence, q, label, belief.Prob(label), p)
				}
			}
		}
	}
}
