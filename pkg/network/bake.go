package network

import (
	"strings"

	"github.com/dd0wney/cluso-bayes/pkg/factor"
)

// Bake validates the network and freezes it. In order it verifies that every
// variable has exactly one attached factor whose scope is {itself} union its
// parents and whose conditional rows sum to 1, that the edge relation is
// acyclic, and then it computes and caches a topological order. Any failure
// leaves the network unbaked and mutable. A second Bake is rejected.
func (n *Network) Bake() error {
	if n.baked {
		return &NetworkError{Op: "Bake", Cause: ErrAlreadyBaked}
	}

	for _, v := range n.vars {
		f, ok := n.factors[v.Name()]
		if !ok {
			return &NetworkError{Op: "Bake", Variable: v.Name(), Cause: ErrMissingFactor}
		}
		if err := n.checkScope(v, f); err != nil {
			return err
		}
		if err := f.VerifyConditional(); err != nil {
			return &NetworkError{Op: "Bake", Variable: v.Name(), Cause: err}
		}
	}

	if cycle := n.findCycle(); cycle != nil {
		return &NetworkError{Op: "Bake", Context: strings.Join(cycle, " -> "), Cause: ErrCycle}
	}

	n.topo = n.topologicalOrder()
	n.topoPos = make(map[string]int, len(n.topo))
	for i, v := range n.topo {
		n.topoPos[v.Name()] = i
	}
	n.baked = true
	return nil
}

// checkScope verifies that f's scope set equals {v} union v's parents. Scope
// variables must be the network's registered objects themselves: a foreign
// variable sharing a name could carry a different domain, and its table
// would then be indexed past its bounds by labels the network accepts.
func (n *Network) checkScope(v *factor.Variable, f *factor.Factor) error {
	want := make(map[string]bool, len(n.parents[v.Name()])+1)
	want[v.Name()] = true
	for _, p := range n.parents[v.Name()] {
		want[p] = true
	}

	scope := f.Scope()
	if len(scope) != len(want) {
		return &NetworkError{Op: "Bake", Variable: v.Name(), Cause: ErrScopeMismatch}
	}
	for _, sv := range scope {
		if !want[sv.Name()] {
			return &NetworkError{Op: "Bake", Variable: v.Name(), Context: "unexpected scope variable " + sv.Name(), Cause: ErrScopeMismatch}
		}
		if n.byName[sv.Name()] != sv {
			return &NetworkError{Op: "Bake", Variable: v.Name(), Context: "scope variable " + sv.Name() + " is not the network's variable", Cause: ErrScopeMismatch}
		}
	}
	return nil
}

// findCycle looks for a directed cycle using DFS with three-color marking:
// WHITE unvisited, GRAY in the recursion stack, BLACK finished. A GRAY
// neighbor means a back edge, which is a cycle. Returns the cycle path, or
// nil if the edge relation is acyclic.
func (n *Network) findCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int, len(n.vars))
	parent := make(map[string]string, len(n.vars))

	var visit func(name string) []string
	visit = func(name string) []string {
		color[name] = gray
		for _, child := range n.children[name] {
			switch color[child] {
			case white:
				parent[child] = name
				if cycle := visit(child); cycle != nil {
					return cycle
				}
			case gray:
				// Back edge: trace the recursion stack from name back to child.
				stack := []string{}
				for cur := name; cur != child; cur = parent[cur] {
					stack = append(stack, cur)
				}
				cycle := []string{child}
				for i := len(stack) - 1; i >= 0; i-- {
					cycle = append(cycle, stack[i])
				}
				return append(cycle, child)
			}
		}
		color[name] = black
		return nil
	}

	for _, v := range n.vars {
		if color[v.Name()] == white {
			if cycle := visit(v.Name()); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// topologicalOrder orders the variables so every parent precedes its
// children. Ready variables are taken in insertion order, which makes the
// result deterministic and reproducible across runs. Assumes findCycle has
// already ruled out cycles.
func (n *Network) topologicalOrder() []*factor.Variable {
	inDegree := make(map[string]int, len(n.vars))
	for _, v := range n.vars {
		inDegree[v.Name()] = len(n.parents[v.Name()])
	}

	placed := make(map[string]bool, len(n.vars))
	order := make([]*factor.Variable, 0, len(n.vars))
	for len(order) < len(n.vars) {
		for _, v := range n.vars {
			if placed[v.Name()] || inDegree[v.Name()] != 0 {
				continue
			}
			placed[v.Name()] = true
			order = append(order, v)
			for _, child := range n.children[v.Name()] {
				inDegree[child]--
			}
			break
		}
	}
	return order
}
