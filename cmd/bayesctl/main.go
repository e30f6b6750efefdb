package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dd0wney/cluso-bayes/pkg/inference"
	"github.com/dd0wney/cluso-bayes/pkg/logging"
	"github.com/dd0wney/cluso-bayes/pkg/model"
	"github.com/dd0wney/cluso-bayes/pkg/network"
)

// evidenceFlags collects repeated -e var=label pairs.
type evidenceFlags map[string]string

func (e evidenceFlags) String() string {
	parts := make([]string, 0, len(e))
	for k, v := range e {
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func (e evidenceFlags) Set(value string) error {
	name, label, ok := strings.Cut(value, "=")
	if !ok || name == "" || label == "" {
		return fmt.Errorf("evidence must be var=label, got %q", value)
	}
	e[name] = label
	return nil
}

func main() {
	evidence := evidenceFlags{}
	modelPath := flag.String("model", "", "Path to a YAML network definition (required)")
	targets := flag.String("q", "", "Comma-separated query variables (default: all non-evidence)")
	logLevel := flag.String("log-level", "", "Emit JSON logs at this level (debug, info, warn, error)")
	flag.Var(evidence, "e", "Evidence as var=label (repeatable)")
	flag.Parse()

	if *modelPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: bayesctl -model network.yaml [-e var=label]... [-q var1,var2]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	net, err := model.Load(*modelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load model: %v\n", err)
		os.Exit(1)
	}

	opts := inference.Options{}
	if *logLevel != "" {
		opts.Logger = logging.NewJSONLogger(os.Stderr, logging.ParseLevel(*logLevel))
	}
	engine := inference.NewEngine(opts)

	var queryVars []string
	if *targets != "" {
		queryVars = strings.Split(*targets, ",")
	}

	beliefs, err := engine.Query(net, inference.Evidence(evidence), queryVars)
	if err != nil {
		if inference.IsDegenerate(err) {
			fmt.Fprintf(os.Stderr, "Evidence has zero probability under this model: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Query failed: %v\n", err)
		}
		os.Exit(1)
	}

	printBeliefs(net, beliefs)
}

func printBeliefs(net *network.Network, beliefs map[string]inference.Belief) {
	for _, v := range net.TopologicalOrder() {
		b, ok := beliefs[v.Name()]
		if !ok {
			continue
		}
		fmt.Printf("%s:\n", v.Name())
		for _, label := range v.Labels() {
			fmt.Printf("  %-12s %.6f\n", label, b.Prob(label))
		}
	}
}
