package inference

import (
	"github.com/dd0wney/cluso-bayes/pkg/network"
)

// Query answers a posterior query with a default, quiet engine. It is the
// package's convenience entry point; construct an Engine directly to attach
// logging or metrics.
func Query(net *network.Network, evidence Evidence, targets []string) (map[string]Belief, error) {
	return defaultEngine.Query(net, evidence, targets)
}

var defaultEngine = NewEngine(Options{})
