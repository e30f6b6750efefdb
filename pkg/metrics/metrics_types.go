package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metrics for the inference engine
type Registry struct {
	// Query Metrics
	QueriesTotal        *prometheus.CounterVec
	QueryDuration       prometheus.Histogram
	FactorProducts      prometheus.Counter
	VariablesEliminated prometheus.Counter
	EliminationWidth    prometheus.Histogram
	DegenerateEvidence  prometheus.Counter

	// Network Metrics
	BakesTotal   *prometheus.CounterVec
	NetworkVars  prometheus.Gauge
	NetworkEdges prometheus.Gauge

	registry *prometheus.Registry
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the shared global registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}
	r.initQueryMetrics()
	r.initNetworkMetrics()
	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

func (r *Registry) initQueryMetrics() {
	r.QueriesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bayes_queries_total",
			Help: "Total number of inference queries executed",
		},
		[]string{"status"},
	)

	r.QueryDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bayes_query_duration_seconds",
			Help:    "Inference query duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0, 10.0},
		},
	)

	r.FactorProducts = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "bayes_factor_products_total",
			Help: "Total number of factor multiplications performed",
		},
	)

	r.VariablesEliminated = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "bayes_variables_eliminated_total",
			Help: "Total number of variables summed out during elimination",
		},
	)

	r.EliminationWidth = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bayes_elimination_width",
			Help:    "Largest intermediate factor scope produced by a query",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16},
		},
	)

	r.DegenerateEvidence = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "bayes_degenerate_evidence_total",
			Help: "Queries whose evidence assigned zero mass to every outcome",
		},
	)
}

func (r *Registry) initNetworkMetrics() {
	r.BakesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "bayes_network_bakes_total",
			Help: "Total number of network bake attempts",
		},
		[]string{"status"},
	)

	r.NetworkVars = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "bayes_network_variables",
			Help: "Number of variables in the most recently baked network",
		},
	)

	r.NetworkEdges = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "bayes_network_edges",
			Help: "Number of edges in the most recently baked network",
		},
	)
}
