package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	// Verify all metrics are initialized
	if r.QueriesTotal == nil {
		t.Error("QueriesTotal not initialized")
	}
	if r.QueryDuration == nil {
		t.Error("QueryDuration not initialized")
	}
	if r.FactorProducts == nil {
		t.Error("FactorProducts not initialized")
	}
	if r.EliminationWidth == nil {
		t.Error("EliminationWidth not initialized")
	}
	if r.BakesTotal == nil {
		t.Error("BakesTotal not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	// Should return the same instance
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()

	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordQuery(t *testing.T) {
	r := NewRegistry()

	r.RecordQuery("success", 5*time.Millisecond, QueryStats{
		FactorProducts:      3,
		VariablesEliminated: 1,
		MaxWidth:            2,
	})
	r.RecordQuery("success", 2*time.Millisecond, QueryStats{
		FactorProducts:      1,
		VariablesEliminated: 0,
		MaxWidth:            1,
	})
	r.RecordQuery("error", time.Millisecond, QueryStats{})

	counter, err := r.QueriesTotal.GetMetricWithLabelValues("success")
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}

	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if got := metric.GetCounter().GetValue(); got != 2 {
		t.Errorf("QueriesTotal{success} = %v, want 2", got)
	}

	var products dto.Metric
	if err := r.FactorProducts.Write(&products); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if got := products.GetCounter().GetValue(); got != 4 {
		t.Errorf("FactorProducts = %v, want 4", got)
	}
}

func TestRecordBake(t *testing.T) {
	r := NewRegistry()

	r.RecordBake("success", 3, 2)
	r.RecordBake("error", 0, 0)

	var vars dto.Metric
	if err := r.NetworkVars.Write(&vars); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if got := vars.GetGauge().GetValue(); got != 3 {
		t.Errorf("NetworkVars = %v, want 3", got)
	}

	// Failed bakes must not touch the shape gauges
	r.RecordBake("error", 99, 99)
	if err := r.NetworkVars.Write(&vars); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if got := vars.GetGauge().GetValue(); got != 3 {
		t.Errorf("NetworkVars after failed bake = %v, want 3", got)
	}
}

func TestGatherRegisteredMetrics(t *testing.T) {
	r := NewRegistry()
	r.RecordQuery("success", time.Millisecond, QueryStats{MaxWidth: 1})

	families, err := r.GetPrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	found := map[string]bool{}
	for _, fam := range families {
		found[fam.GetName()] = true
	}
	for _, name := range []string{
		"bayes_queries_total",
		"bayes_query_duration_seconds",
		"bayes_elimination_width",
	} {
		if !found[name] {
			t.Errorf("Expected metric family %q to be registered", name)
		}
	}
}
