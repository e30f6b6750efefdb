// Package model builds networks from YAML definitions. It is the harness
// surface for CLI tools and tests that want to describe variables and CPTs
// as data instead of code; the engine itself never reads files.
package model

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-bayes/pkg/factor"
	"github.com/dd0wney/cluso-bayes/pkg/metrics"
	"github.com/dd0wney/cluso-bayes/pkg/network"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Spec is a whole-network YAML definition.
type Spec struct {
	Variables []VariableSpec `yaml:"variables" validate:"required,min=1,dive"`
	Factors   []FactorSpec   `yaml:"factors" validate:"required,min=1,dive"`
}

// VariableSpec declares one variable and its domain.
type VariableSpec struct {
	Name   string   `yaml:"name" validate:"required"`
	Labels []string `yaml:"labels" validate:"required,min=1,unique"`
}

// FactorSpec declares the CPT for one variable. A factor with parents lists
// its table parent-major with the child's labels varying fastest; a factor
// without parents is a prior. Parent order implies the network's edges.
type FactorSpec struct {
	Variable string    `yaml:"variable" validate:"required"`
	Parents  []string  `yaml:"parents" validate:"omitempty,unique"`
	Table    []float64 `yaml:"table" validate:"required,min=1,dive,gte=0"`
}

// Parse decodes, validates, and bakes a network from YAML.
func Parse(data []byte) (*network.Network, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("decode model: %w", err)
	}
	if err := validate.Struct(&spec); err != nil {
		return nil, fmt.Errorf("validate model: %w", err)
	}
	return Build(&spec)
}

// Load reads a YAML model file and bakes the network it defines.
func Load(path string) (*network.Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return Parse(data)
}

// Build assembles and bakes a network from an already-validated spec. Bake
// outcomes and the baked network's shape are recorded on the shared metrics
// registry.
func Build(spec *Spec) (*network.Network, error) {
	net := network.New()
	edges := 0
	byName := make(map[string]*factor.Variable, len(spec.Variables))
	for _, vs := range spec.Variables {
		v, err := factor.NewVariable(vs.Name, vs.Labels...)
		if err != nil {
			return nil, err
		}
		if err := net.AddVariable(v); err != nil {
			return nil, err
		}
		byName[vs.Name] = v
	}

	for _, fs := range spec.Factors {
		child, ok := byName[fs.Variable]
		if !ok {
			return nil, &network.NetworkError{Op: "Build", Variable: fs.Variable, Cause: network.ErrUnknownVariable}
		}

		var f *factor.Factor
		var err error
		if len(fs.Parents) == 0 {
			f, err = factor.NewPrior(child, fs.Table)
		} else {
			parents := make([]*factor.Variable, 0, len(fs.Parents))
			for _, p := range fs.Parents {
				pv, ok := byName[p]
				if !ok {
					return nil, &network.NetworkError{Op: "Build", Variable: p, Cause: network.ErrUnknownVariable}
				}
				parents = append(parents, pv)
				if err := net.AddEdge(p, fs.Variable); err != nil {
					return nil, err
				}
				edges++
			}
			f, err = factor.NewConditional(child, parents, fs.Table)
		}
		if err != nil {
			return nil, err
		}
		if err := net.AttachFactor(fs.Variable, f); err != nil {
			return nil, err
		}
	}

	if err := net.Bake(); err != nil {
		metrics.DefaultRegistry().RecordBake("error", len(spec.Variables), edges)
		return nil, err
	}
	metrics.DefaultRegistry().RecordBake("success", len(spec.Variables), edges)
	return net, nil
}
