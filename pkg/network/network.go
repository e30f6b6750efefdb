// Package network models a discrete Bayesian network as a directed acyclic
// graph of variables, each carrying the factor that conditions it on its
// parents. A network is mutable while being built; Bake validates every
// invariant, caches a topological order, and freezes it. A baked network is
// a plain immutable value, safe for concurrent readers.
package network

import (
	"github.com/dd0wney/cluso-bayes/pkg/factor"
)

// Network is a set of variables, directed parent->child edges, and one
// attached factor per variable.
type Network struct {
	vars     []*factor.Variable // insertion order
	byName   map[string]*factor.Variable
	parents  map[string][]string // edge insertion order
	children map[string][]string
	factors  map[string]*factor.Factor

	baked   bool
	topo    []*factor.Variable
	topoPos map[string]int
}

// New creates an empty, unbaked network.
func New() *Network {
	return &Network{
		byName:   make(map[string]*factor.Variable),
		parents:  make(map[string][]string),
		children: make(map[string][]string),
		factors:  make(map[string]*factor.Factor),
	}
}

// AddVariable adds a variable to the network. Variable names must be unique.
func (n *Network) AddVariable(v *factor.Variable) error {
	if n.baked {
		return &NetworkError{Op: "AddVariable", Variable: v.Name(), Cause: ErrFrozen}
	}
	if _, dup := n.byName[v.Name()]; dup {
		return &NetworkError{Op: "AddVariable", Variable: v.Name(), Cause: ErrDuplicateVariable}
	}
	n.byName[v.Name()] = v
	n.vars = append(n.vars, v)
	return nil
}

// AddEdge adds a directed parent->child edge. Both endpoints must already be
// in the network. Cycles are detected at bake time.
func (n *Network) AddEdge(parent, child string) error {
	if n.baked {
		return &NetworkError{Op: "AddEdge", Cause: ErrFrozen}
	}
	if _, ok := n.byName[parent]; !ok {
		return &NetworkError{Op: "AddEdge", Variable: parent, Cause: ErrUnknownVariable}
	}
	if _, ok := n.byName[child]; !ok {
		return &NetworkError{Op: "AddEdge", Variable: child, Cause: ErrUnknownVariable}
	}
	if parent == child {
		return &NetworkError{Op: "AddEdge", Variable: parent, Cause: ErrSelfEdge}
	}
	for _, p := range n.parents[child] {
		if p == parent {
			return &NetworkError{Op: "AddEdge", Variable: child, Context: "parent " + parent, Cause: ErrDuplicateEdge}
		}
	}
	n.parents[child] = append(n.parents[child], parent)
	n.children[parent] = append(n.children[parent], child)
	return nil
}

// AttachFactor attaches the conditional factor for the named variable. The
// factor's child must be the network's own variable object, not merely share
// its name: a look-alike variable with a different domain would let the
// factor's table disagree with the labels queries index it with. The scope
// is checked against the parent set at bake time, once all edges are known.
func (n *Network) AttachFactor(name string, f *factor.Factor) error {
	if n.baked {
		return &NetworkError{Op: "AttachFactor", Variable: name, Cause: ErrFrozen}
	}
	v, ok := n.byName[name]
	if !ok {
		return &NetworkError{Op: "AttachFactor", Variable: name, Cause: ErrUnknownVariable}
	}
	if _, dup := n.factors[name]; dup {
		return &NetworkError{Op: "AttachFactor", Variable: name, Cause: ErrFactorAttached}
	}
	if f.Child() != v {
		return &NetworkError{Op: "AttachFactor", Variable: name, Cause: ErrWrongChild}
	}
	n.factors[name] = f
	return nil
}

// Baked reports whether the network has been validated and frozen.
func (n *Network) Baked() bool {
	return n.baked
}

// Variables returns the network's variables in insertion order.
func (n *Network) Variables() []*factor.Variable {
	out := make([]*factor.Variable, len(n.vars))
	copy(out, n.vars)
	return out
}

// Variable returns the named variable, or nil if unknown.
func (n *Network) Variable(name string) *factor.Variable {
	return n.byName[name]
}

// Parents returns the named variable's parents in edge insertion order.
func (n *Network) Parents(name string) []string {
	ps := n.parents[name]
	out := make([]string, len(ps))
	copy(out, ps)
	return out
}

// Factor returns the factor attached to the named variable, or nil.
func (n *Network) Factor(name string) *factor.Factor {
	return n.factors[name]
}

// TopologicalOrder returns the cached topological order. It is only
// available after a successful Bake.
func (n *Network) TopologicalOrder() []*factor.Variable {
	out := make([]*factor.Variable, len(n.topo))
	copy(out, n.topo)
	return out
}

// Position returns the named variable's position in the topological order,
// or -1 before bake or for unknown variables.
func (n *Network) Position(name string) int {
	if pos, ok := n.topoPos[name]; ok {
		return pos
	}
	return -1
}
