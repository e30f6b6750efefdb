package metrics

import (
	"time"
)

// QueryStats summarizes the work a single inference query performed.
type QueryStats struct {
	FactorProducts      int
	VariablesEliminated int
	MaxWidth            int // largest intermediate factor scope
}

// RecordQuery records an inference query with its status and work stats
func (r *Registry) RecordQuery(status string, duration time.Duration, stats QueryStats) {
	r.QueriesTotal.WithLabelValues(status).Inc()
	r.QueryDuration.Observe(duration.Seconds())
	r.FactorProducts.Add(float64(stats.FactorProducts))
	r.VariablesEliminated.Add(float64(stats.VariablesEliminated))
	r.EliminationWidth.Observe(float64(stats.MaxWidth))
}

// RecordDegenerateEvidence counts a query rejected because evidence left
// zero total mass
func (r *Registry) RecordDegenerateEvidence() {
	r.DegenerateEvidence.Inc()
}

// RecordBake records a network bake attempt and, on success, its shape
func (r *Registry) RecordBake(status string, variables, edges int) {
	r.BakesTotal.WithLabelValues(status).Inc()
	if status == "success" {
		r.NetworkVars.Set(float64(variables))
		r.NetworkEdges.Set(float64(edges))
	}
}
