package circuit

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"qcc/internal/gate"
)

type fileCircuit struct {
	Qubits int      `yaml:"qubits"`
	Clbits int      `yaml:"clbits"`
	Ops    []fileOp `yaml:"ops"`
}

type fileOp struct {
	Name      string    `yaml:"name"`
	Qubits    []int     `yaml:"qubits"`
	Clbits    []int     `yaml:"clbits"`
	Params    []float64 `yaml:"params"`
	Controls  int       `yaml:"controls"`
	CtrlState *int64    `yaml:"ctrl_state"`
}

// Parse builds a circuit from its YAML description. An op entry names a
// standard gate; "controls" plus "ctrl_state" wrap it in additional
// generalized controls, control qubits listed first.
func Parse(data []byte) (*Circuit, error) {
	var f fileCircuit
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse circuit: %w", err)
	}
	c := New(f.Qubits, f.Clbits)
	for i, op := range f.Ops {
		g, err := buildOp(op)
		if err != nil {
			return nil, fmt.Errorf("parse circuit: op %d: %w", i, err)
		}
		if err := c.Append(g, op.Qubits, op.Clbits); err != nil {
			return nil, fmt.Errorf("parse circuit: op %d: %w", i, err)
		}
	}
	return c, nil
}

func buildOp(op fileOp) (gate.Gate, error) {
	if op.Name == gate.NameBarrier {
		return gate.Barrier(len(op.Qubits)), nil
	}
	g, err := gate.ByName(op.Name, op.Params)
	if err != nil {
		return gate.Gate{}, err
	}
	if op.Controls == 0 {
		return g, nil
	}
	state := gate.AllOnes(op.Controls)
	if op.CtrlState != nil {
		state = *op.CtrlState
	}
	return gate.Controlled(g, op.Controls, state)
}

// LoadFile reads a circuit description from a YAML file.
func LoadFile(path string) (*Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load circuit: %w", err)
	}
	return Parse(data)
}
