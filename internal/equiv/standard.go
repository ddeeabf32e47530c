package equiv

import (
	"math"

	"qcc/internal/circuit"
	"qcc/internal/gate"
)

func q(g gate.Gate, qubits ...int) circuit.Instruction {
	return circuit.Instruction{Gate: g, Qubits: qubits}
}

// StandardLibrary returns the built-in rules relating the standard gate
// set. Every equivalence holds up to global phase, which the pipeline
// does not track.
func StandardLibrary() *Library {
	l := NewLibrary()
	add := func(source gate.Gate, params int, expand func(p []float64) []circuit.Instruction) {
		rule := Rule{Source: source.Key(), Params: params, Cost: 1, Expand: expand}
		if err := l.Add(rule); err != nil {
			panic(err)
		}
	}

	add(gate.I(), 0, func([]float64) []circuit.Instruction {
		return nil
	})
	add(gate.H(), 0, func([]float64) []circuit.Instruction {
		return []circuit.Instruction{
			q(gate.RZ(math.Pi/2), 0), q(gate.SX(), 0), q(gate.RZ(math.Pi/2), 0),
		}
	})
	add(gate.H(), 0, func([]float64) []circuit.Instruction {
		return []circuit.Instruction{q(gate.RY(math.Pi/2), 0), q(gate.X(), 0)}
	})
	add(gate.X(), 0, func([]float64) []circuit.Instruction {
		return []circuit.Instruction{q(gate.SX(), 0), q(gate.SX(), 0)}
	})
	add(gate.X(), 0, func([]float64) []circuit.Instruction {
		return []circuit.Instruction{q(gate.U(math.Pi, 0, math.Pi), 0)}
	})
	add(gate.Y(), 0, func([]float64) []circuit.Instruction {
		return []circuit.Instruction{q(gate.X(), 0), q(gate.Z(), 0)}
	})
	add(gate.Z(), 0, func([]float64) []circuit.Instruction {
		return []circuit.Instruction{q(gate.RZ(math.Pi), 0)}
	})
	add(gate.S(), 0, func([]float64) []circuit.Instruction {
		return []circuit.Instruction{q(gate.RZ(math.Pi/2), 0)}
	})
	add(gate.Sdg(), 0, func([]float64) []circuit.Instruction {
		return []circuit.Instruction{q(gate.RZ(-math.Pi/2), 0)}
	})
	add(gate.T(), 0, func([]float64) []circuit.Instruction {
		return []circuit.Instruction{q(gate.RZ(math.Pi/4), 0)}
	})
	add(gate.Tdg(), 0, func([]float64) []circuit.Instruction {
		return []circuit.Instruction{q(gate.RZ(-math.Pi/4), 0)}
	})
	add(gate.SX(), 0, func([]float64) []circuit.Instruction {
		return []circuit.Instruction{q(gate.Sdg(), 0), q(gate.H(), 0), q(gate.Sdg(), 0)}
	})
	add(gate.SXdg(), 0, func([]float64) []circuit.Instruction {
		return []circuit.Instruction{q(gate.S(), 0), q(gate.H(), 0), q(gate.S(), 0)}
	})
	add(gate.P(0), 1, func(p []float64) []circuit.Instruction {
		return []circuit.Instruction{q(gate.RZ(p[0]), 0)}
	})
	add(gate.RZ(0), 1, func(p []float64) []circuit.Instruction {
		return []circuit.Instruction{q(gate.P(p[0]), 0)}
	})
	add(gate.RX(0), 1, func(p []float64) []circuit.Instruction {
		return []circuit.Instruction{q(gate.H(), 0), q(gate.RZ(p[0]), 0), q(gate.H(), 0)}
	})
	add(gate.RY(0), 1, func(p []float64) []circuit.Instruction {
		return []circuit.Instruction{q(gate.Sdg(), 0), q(gate.RX(p[0]), 0), q(gate.S(), 0)}
	})
	add(gate.U(0, 0, 0), 3, func(p []float64) []circuit.Instruction {
		return []circuit.Instruction{q(gate.RZ(p[2]), 0), q(gate.RY(p[0]), 0), q(gate.RZ(p[1]), 0)}
	})
	add(gate.CZ(), 0, func([]float64) []circuit.Instruction {
		return []circuit.Instruction{q(gate.H(), 1), q(gate.CX(), 0, 1), q(gate.H(), 1)}
	})
	add(gate.CX(), 0, func([]float64) []circuit.Instruction {
		return []circuit.Instruction{q(gate.H(), 1), q(gate.CZ(), 0, 1), q(gate.H(), 1)}
	})
	add(gate.Swap(), 0, func([]float64) []circuit.Instruction {
		return []circuit.Instruction{q(gate.CX(), 0, 1), q(gate.CX(), 1, 0), q(gate.CX(), 0, 1)}
	})
	add(gate.CP(0), 1, func(p []float64) []circuit.Instruction {
		return []circuit.Instruction{
			q(gate.P(p[0]/2), 0),
			q(gate.CX(), 0, 1),
			q(gate.P(-p[0]/2), 1),
			q(gate.CX(), 0, 1),
			q(gate.P(p[0]/2), 1),
		}
	})
	add(gate.CRZ(0), 1, func(p []float64) []circuit.Instruction {
		return []circuit.Instruction{
			q(gate.RZ(p[0]/2), 1),
			q(gate.CX(), 0, 1),
			q(gate.RZ(-p[0]/2), 1),
			q(gate.CX(), 0, 1),
		}
	})
	add(gate.CCX(), 0, func([]float64) []circuit.Instruction {
		return []circuit.Instruction{
			q(gate.H(), 2),
			q(gate.CX(), 1, 2),
			q(gate.Tdg(), 2),
			q(gate.CX(), 0, 2),
			q(gate.T(), 2),
			q(gate.CX(), 1, 2),
			q(gate.Tdg(), 2),
			q(gate.CX(), 0, 2),
			q(gate.T(), 1),
			q(gate.T(), 2),
			q(gate.H(), 2),
			q(gate.CX(), 0, 1),
			q(gate.T(), 0),
			q(gate.Tdg(), 1),
			q(gate.CX(), 0, 1),
		}
	})
	return l
}
