package target

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type fileTarget struct {
	NumQubits int      `yaml:"num_qubits"`
	Coupling  [][]int  `yaml:"coupling"`
	Basis     []string `yaml:"basis"`
	Directed  bool     `yaml:"directed"`
	Costs     map[string]struct {
		Error    float64 `yaml:"error"`
		Duration float64 `yaml:"duration"`
	} `yaml:"costs"`
}

// Parse builds a target from its YAML description.
func Parse(data []byte) (*Target, error) {
	var f fileTarget
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse target: %w", err)
	}
	couplings := make([][2]int, 0, len(f.Coupling))
	for i, c := range f.Coupling {
		if len(c) != 2 {
			return nil, fmt.Errorf("parse target: coupling %d has %d entries, want 2", i, len(c))
		}
		couplings = append(couplings, [2]int{c[0], c[1]})
	}
	t, err := New(f.NumQubits, couplings, f.Basis)
	if err != nil {
		return nil, fmt.Errorf("parse target: %w", err)
	}
	t.Directed = f.Directed
	for name, c := range f.Costs {
		t.SetCost(name, GateCost{Error: c.Error, Duration: c.Duration})
	}
	return t, nil
}

// LoadFile reads a target description from a YAML file.
func LoadFile(path string) (*Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load target: %w", err)
	}
	return Parse(data)
}
