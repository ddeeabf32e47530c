// Package gate defines the immutable gate descriptor shared by the
// circuit, DAG, and transpiler packages. A descriptor is pure data: new
// gate kinds are expressed as values with an optional decomposition
// attached, never as new types, so the equivalence search stays generic.
package gate

import (
	"fmt"
	"math"
	"strings"
)

// Tolerance is the default numeric tolerance used when comparing gate
// parameters and matrix entries.
const Tolerance = 1e-10

// Gate describes one operation: its name, qubit/clbit arity, ordered
// numeric parameters, and, for controlled gates, the number of control
// qubits and the control-state bitmask. Descriptors are treated as
// immutable once constructed.
type Gate struct {
	Name   string
	Qubits int
	Clbits int
	Params []float64

	// Controls is the number of leading qubit operands that act as
	// controls. CtrlState bit i concerns control qubit i: 1 requires
	// the excited state, 0 the ground state. For Controls == 0 the
	// mask is meaningless and held at zero.
	Controls  int
	CtrlState int64

	// Base is the controlled gate's underlying operation, if any.
	Base *Gate
}

// Key identifies a descriptor in the equivalence library: name plus
// qubit arity, parameter-agnostic.
type Key struct {
	Name   string
	Qubits int
}

// Key returns the library key for g.
func (g Gate) Key() Key {
	return Key{Name: g.Name, Qubits: g.Qubits}
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d", k.Name, k.Qubits)
}

// AllOnes is the control-state mask requiring every control excited.
func AllOnes(controls int) int64 {
	return (1 << controls) - 1
}

// HasOpenControls reports whether any control qubit is conditioned on
// the ground state.
func (g Gate) HasOpenControls() bool {
	return g.Controls > 0 && g.CtrlState != AllOnes(g.Controls)
}

// ControlBit reports the required state of control qubit i.
func (g Gate) ControlBit(i int) bool {
	return g.CtrlState>>uint(i)&1 == 1
}

// Equal reports whether two descriptors denote the same operation under
// tol: same name, arity, control configuration, and parameters within
// tolerance.
func (g Gate) Equal(other Gate, tol float64) bool {
	if g.Name != other.Name || g.Qubits != other.Qubits || g.Clbits != other.Clbits {
		return false
	}
	if g.Controls != other.Controls || g.CtrlState != other.CtrlState {
		return false
	}
	if len(g.Params) != len(other.Params) {
		return false
	}
	for i, p := range g.Params {
		if math.Abs(p-other.Params[i]) > tol {
			return false
		}
	}
	return true
}

// IsDirective reports whether the gate is a pipeline directive rather
// than a unitary operation (barriers and measurements). Directives are
// kept out of basis translation and swap scoring but still order wires.
func (g Gate) IsDirective() bool {
	return g.Name == NameBarrier || g.Name == NameMeasure
}

func (g Gate) String() string {
	if len(g.Params) == 0 {
		return g.Name
	}
	parts := make([]string, len(g.Params))
	for i, p := range g.Params {
		parts[i] = formatParam(p)
	}
	return fmt.Sprintf("%s(%s)", g.Name, strings.Join(parts, ","))
}

func formatParam(p float64) string {
	return fmt.Sprintf("%.6g", p)
}
