package inference

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-bayes/pkg/factor"
	"github.com/dd0wney/cluso-bayes/pkg/logging"
	"github.com/dd0wney/cluso-bayes/pkg/metrics"
	"github.com/dd0wney/cluso-bayes/pkg/network"
)

// TestCompleteInferenceWorkflow walks the full build -> bake -> query
// journey with logging and metrics attached, the way an application would
// wire the library.
func TestCompleteInferenceWorkflow(t *testing.T) {
	t.Log("=== Workflow: build, bake, query with observability ===")

	// Step 1: Build the network
	rain := factor.MustVariable("rain", "yes", "no")
	sprinkler := factor.MustVariable("sprinkler", "on", "off")
	grass := factor.MustVariable("grass", "wet", "dry")

	net := network.New()
	require.NoError(t, net.AddVariable(rain))
	require.NoError(t, net.AddVariable(sprinkler))
	require.NoError(t, net.AddVariable(grass))
	require.NoError(t, net.AddEdge("rain", "sprinkler"))
	require.NoError(t, net.AddEdge("rain", "grass"))
	require.NoError(t, net.AddEdge("sprinkler", "grass"))

	rainPrior, err := factor.NewPrior(rain, []float64{0.2, 0.8})
	require.NoError(t, err)
	sprinklerCPT, err := factor.NewConditional(sprinkler, []*factor.Variable{rain}, []float64{
		0.01, 0.99, // rain=yes
		0.4, 0.6, // rain=no
	})
	require.NoError(t, err)
	grassCPT, err := factor.NewConditional(grass, []*factor.Variable{rain, sprinkler}, []float64{
		0.99, 0.01, // rain=yes sprinkler=on
		0.8, 0.2, // rain=yes sprinkler=off
		0.9, 0.1, // rain=no  sprinkler=on
		0.0, 1.0, // rain=no  sprinkler=off
	})
	require.NoError(t, err)

	require.NoError(t, net.AttachFactor("rain", rainPrior))
	require.NoError(t, net.AttachFactor("sprinkler", sprinklerCPT))
	require.NoError(t, net.AttachFactor("grass", grassCPT))

	// Step 2: Bake
	require.NoError(t, net.Bake())
	require.True(t, net.Baked())

	// Step 3: Query with logging and metrics attached
	var logBuf bytes.Buffer
	registry := metrics.NewRegistry()
	engine := NewEngine(Options{
		Logger:  logging.NewJSONLogger(&logBuf, logging.DebugLevel),
		Metrics: registry,
	})

	beliefs, err := engine.Query(net, Evidence{"grass": "wet"}, nil)
	require.NoError(t, err)

	// Observing wet grass must raise belief in both causes.
	rainBelief := beliefs["rain"]
	sprinklerBelief := beliefs["sprinkler"]
	assert.Greater(t, rainBelief.Prob("yes"), 0.2, "wet grass should raise P(rain)")
	assert.Greater(t, sprinklerBelief.Prob("on"), 0.0)

	// Posterior matches the enumeration oracle.
	want := enumerateMarginal(t, net, Evidence{"grass": "wet"}, "rain")
	for label, p := range want {
		assert.InDelta(t, p, rainBelief.Prob(label), factor.ProbTolerance)
	}

	// Step 4: Observability actually fired
	assert.NotZero(t, logBuf.Len(), "engine should have logged the query")

	families, err := registry.GetPrometheusRegistry().Gather()
	require.NoError(t, err)
	names := make(map[string]bool, len(families))
	for _, fam := range families {
		names[fam.GetName()] = true
	}
	assert.True(t, names["bayes_queries_total"], "query counter should be registered")

	// Step 5: The baked network keeps serving queries
	start := time.Now()
	for i := 0; i < 100; i++ {
		_, err := engine.Query(net, Evidence{"grass": "wet"}, []string{"rain"})
		require.NoError(t, err)
	}
	t.Logf("100 queries in %v", time.Since(start))
}
