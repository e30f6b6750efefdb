// Package inference answers exact posterior queries over baked networks by
// variable elimination. The engine is stateless: every call builds its own
// transient factor pool, so a single engine and a single baked network can
// serve concurrent queries without locking.
package inference

import (
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-bayes/pkg/factor"
	"github.com/dd0wney/cluso-bayes/pkg/logging"
	"github.com/dd0wney/cluso-bayes/pkg/metrics"
	"github.com/dd0wney/cluso-bayes/pkg/network"
)

// Engine runs variable elimination against baked networks.
type Engine struct {
	log     logging.Logger
	metrics *metrics.Registry
}

// Options configures an Engine. Zero values mean no logging and no metrics.
type Options struct {
	Logger  logging.Logger
	Metrics *metrics.Registry
}

// NewEngine creates an inference engine.
func NewEngine(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = logging.NopLogger{}
	}
	return &Engine{log: log, metrics: opts.Metrics}
}

// Query computes the posterior marginal of every target variable given the
// evidence. Targets default to every variable not in the evidence. The
// network must be baked; evidence is validated before any elimination work.
func (e *Engine) Query(net *network.Network, evidence Evidence, targets []string) (map[string]Belief, error) {
	start := time.Now()
	log := e.log
	if jl, ok := log.(*logging.JSONLogger); ok {
		log = jl.With(logging.QueryID(uuid.NewString()))
	}

	if !net.Baked() {
		return nil, &network.NetworkError{Op: "Query", Cause: network.ErrNotBaked}
	}
	if err := validateEvidence(net, evidence); err != nil {
		e.record("error", start, queryStats{})
		return nil, err
	}
	targets, err := resolveTargets(net, evidence, targets)
	if err != nil {
		e.record("error", start, queryStats{})
		return nil, err
	}

	log.Info("query started",
		logging.Component("inference"),
		logging.EvidenceCount(len(evidence)),
		logging.Int("targets", len(targets)),
	)

	stats := queryStats{}
	pool, err := reducedPool(net, evidence)
	if err != nil {
		e.record("error", start, stats)
		return nil, err
	}

	targetSet := make(map[string]bool, len(targets))
	for _, q := range targets {
		targetSet[q] = true
	}

	// Eliminate every hidden variable, cheapest first.
	hidden := hiddenVariables(net, evidence, targetSet)
	for len(hidden) > 0 {
		v := nextMinDegree(net, pool, hidden)
		delete(hidden, v.Name())
		pool, err = e.eliminate(log, pool, v, &stats)
		if err != nil {
			e.record("error", start, stats)
			return nil, err
		}
	}

	results := make(map[string]Belief, len(targets))
	for _, q := range targets {
		if observed, ok := evidence[q]; ok {
			results[q] = degenerateBelief(net.Variable(q), observed)
			continue
		}
		belief, err := e.marginal(log, net, pool, q, &stats)
		if err != nil {
			if IsDegenerate(err) && e.metrics != nil {
				e.metrics.RecordDegenerateEvidence()
			}
			log.Warn("query failed", logging.VariableName(q), logging.Error(err))
			e.record("error", start, stats)
			return nil, err
		}
		results[q] = belief
	}

	log.Info("query finished",
		logging.Component("inference"),
		logging.Latency(time.Since(start)),
		logging.FactorCount(len(pool)),
	)
	e.record("success", start, stats)
	return results, nil
}

type queryStats struct {
	products   int
	eliminated int
	maxWidth   int
}

func (e *Engine) record(status string, start time.Time, stats queryStats) {
	if e.metrics == nil {
		return
	}
	e.metrics.RecordQuery(status, time.Since(start), metrics.QueryStats{
		FactorProducts:      stats.products,
		VariablesEliminated: stats.eliminated,
		MaxWidth:            stats.maxWidth,
	})
}

// validateEvidence rejects evidence naming unknown variables or labels
// outside their domains, before any elimination work happens.
func validateEvidence(net *network.Network, evidence Evidence) error {
	for name, label := range evidence {
		v := net.Variable(name)
		if v == nil {
			return &QueryError{Op: "Query", Variable: name, Cause: ErrEvidenceVariable}
		}
		if _, ok := v.Index(label); !ok {
			return &QueryError{Op: "Query", Variable: name, Label: label, Cause: ErrEvidenceLabel}
		}
	}
	return nil
}

// resolveTargets validates explicit targets, or defaults to every variable
// not in the evidence.
func resolveTargets(net *network.Network, evidence Evidence, targets []string) ([]string, error) {
	if targets == nil {
		out := make([]string, 0, len(net.Variables()))
		for _, v := range net.Variables() {
			if _, observed := evidence[v.Name()]; !observed {
				out = append(out, v.Name())
			}
		}
		return out, nil
	}
	out := make([]string, 0, len(targets))
	seen := make(map[string]bool, len(targets))
	for _, q := range targets {
		if net.Variable(q) == nil {
			return nil, &QueryError{Op: "Query", Variable: q, Cause: ErrTargetVariable}
		}
		if !seen[q] {
			seen[q] = true
			out = append(out, q)
		}
	}
	return out, nil
}

// reducedPool collects every variable's factor and restricts each by the
// evidence, so observed variables disappear from all scopes.
func reducedPool(net *network.Network, evidence Evidence) ([]*factor.Factor, error) {
	vars := net.Variables()
	pool := make([]*factor.Factor, 0, len(vars))
	for _, v := range vars {
		f := net.Factor(v.Name())
		for name, label := range evidence {
			if !f.Contains(name) {
				continue
			}
			restricted, err := f.Restrict(net.Variable(name), label)
			if err != nil {
				return nil, err
			}
			f = restricted
		}
		pool = append(pool, f)
	}
	return pool, nil
}

// hiddenVariables returns the variables to be summed out: everything that is
// neither observed nor queried.
func hiddenVariables(net *network.Network, evidence Evidence, targets map[string]bool) map[string]*factor.Variable {
	hidden := make(map[string]*factor.Variable)
	for _, v := range net.Variables() {
		if _, observed := evidence[v.Name()]; observed {
			continue
		}
		if targets[v.Name()] {
			continue
		}
		hidden[v.Name()] = v
	}
	return hidden
}

// nextMinDegree picks the hidden variable appearing in the fewest live
// factors. Ties go to the variable later in the topological order, which
// keeps the elimination order deterministic. The choice affects cost only,
// never the result.
func nextMinDegree(net *network.Network, pool []*factor.Factor, hidden map[string]*factor.Variable) *factor.Variable {
	var best *factor.Variable
	bestDegree := -1
	for _, v := range hidden {
		degree := 0
		for _, f := range pool {
			if f.Contains(v.Name()) {
				degree++
			}
		}
		switch {
		case best == nil,
			degree < bestDegree,
			degree == bestDegree && net.Position(v.Name()) > net.Position(best.Name()):
			best = v
			bestDegree = degree
		}
	}
	return best
}

// eliminate multiplies together every live factor containing v, sums v out
// of the product, and swaps the result in for the consumed factors.
func (e *Engine) eliminate(log logging.Logger, pool []*factor.Factor, v *factor.Variable, stats *queryStats) ([]*factor.Factor, error) {
	rest := make([]*factor.Factor, 0, len(pool))
	var product *factor.Factor
	consumed := 0
	for _, f := range pool {
		if !f.Contains(v.Name()) {
			rest = append(rest, f)
			continue
		}
		consumed++
		if product == nil {
			product = f
			continue
		}
		product = product.Multiply(f)
		stats.products++
		if w := len(product.Scope()); w > stats.maxWidth {
			stats.maxWidth = w
		}
	}
	if product == nil {
		return rest, nil
	}

	summed, err := product.SumOut(v)
	if err != nil {
		log.Error("sum-out failed", logging.VariableName(v.Name()), logging.Error(err))
		return nil, &QueryError{Op: "Eliminate", Variable: v.Name(), Cause: err}
	}
	stats.eliminated++
	log.Debug("variable eliminated",
		logging.VariableName(v.Name()),
		logging.FactorCount(consumed),
		logging.Scope(scopeNames(summed)),
	)
	return append(rest, summed), nil
}

// marginal computes q's posterior from the live pool. Other query variables
// may still be live in factor scopes; they are eliminated here, against the
// full pool, so their own factors stay in play. Afterwards every live factor
// is over {q} or constant; their product normalizes to the marginal.
func (e *Engine) marginal(log logging.Logger, net *network.Network, pool []*factor.Factor, q string, stats *queryStats) (Belief, error) {
	v := net.Variable(q)
	live := append([]*factor.Factor(nil), pool...)
	for {
		residual := residualVariables(net, live, q)
		if len(residual) == 0 {
			break
		}
		rv := nextMinDegree(net, live, residual)
		next, err := e.eliminate(log, live, rv, stats)
		if err != nil {
			return Belief{}, err
		}
		live = next
	}

	var product *factor.Factor
	for _, f := range live {
		if product == nil {
			product = f
			continue
		}
		product = product.Multiply(f)
		stats.products++
	}
	if product == nil || !product.Contains(q) {
		return Belief{}, &QueryError{Op: "Marginal", Variable: q, Cause: ErrTargetVariable}
	}

	normalized, err := product.Normalize()
	if err != nil {
		return Belief{}, &QueryError{Op: "Marginal", Variable: q, Cause: err}
	}
	return beliefFromFactor(v, normalized)
}

// residualVariables collects every variable other than q still appearing in
// a live factor scope.
func residualVariables(net *network.Network, pool []*factor.Factor, q string) map[string]*factor.Variable {
	residual := make(map[string]*factor.Variable)
	for _, f := range pool {
		for _, sv := range f.Scope() {
			if sv.Name() != q {
				residual[sv.Name()] = sv
			}
		}
	}
	return residual
}

func scopeNames(f *factor.Factor) []string {
	scope := f.Scope()
	out := make([]string, len(scope))
	for i, v := range scope {
		out[i] = v.Name()
	}
	return out
}
