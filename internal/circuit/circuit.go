// Package circuit holds the flat, ordered form of a quantum program:
// the form collaborators hand to the transpiler and the form it hands
// back. The pipeline itself works on the DAG form (package dag).
package circuit

import (
	"fmt"
	"io"

	"qcc/internal/gate"
)

// Instruction is one operation applied to concrete qubit and clbit
// operands. Operands are plain indices into the circuit's registers;
// identity is the index, not an object.
type Instruction struct {
	Gate   gate.Gate
	Qubits []int
	Clbits []int
}

// Circuit is an ordered list of instructions over fixed-size virtual
// registers.
type Circuit struct {
	Qubits       int
	Clbits       int
	Instructions []Instruction
}

// New returns an empty circuit over the given register sizes.
func New(qubits, clbits int) *Circuit {
	return &Circuit{Qubits: qubits, Clbits: clbits}
}

// Append validates operand counts and ranges and adds the instruction.
func (c *Circuit) Append(g gate.Gate, qubits, clbits []int) error {
	if len(qubits) != g.Qubits || len(clbits) != g.Clbits {
		return &ArityError{
			Gate:       g.Name,
			WantQubits: g.Qubits, GotQubits: len(qubits),
			WantClbits: g.Clbits, GotClbits: len(clbits),
		}
	}
	if err := checkOperands(qubits, c.Qubits, "qubit"); err != nil {
		return fmt.Errorf("append %s: %w", g.Name, err)
	}
	if err := checkOperands(clbits, c.Clbits, "clbit"); err != nil {
		return fmt.Errorf("append %s: %w", g.Name, err)
	}
	c.Instructions = append(c.Instructions, Instruction{
		Gate:   g,
		Qubits: append([]int(nil), qubits...),
		Clbits: append([]int(nil), clbits...),
	})
	return nil
}

// MustAppend is Append for statically known-good instructions; it
// panics on error and exists for tests and builders.
func (c *Circuit) MustAppend(g gate.Gate, qubits, clbits []int) {
	if err := c.Append(g, qubits, clbits); err != nil {
		panic(err)
	}
}

// Size returns the number of instructions.
func (c *Circuit) Size() int {
	return len(c.Instructions)
}

// TwoQubitCount returns the number of two-qubit operations, the
// quantity layout and routing care about.
func (c *Circuit) TwoQubitCount() int {
	n := 0
	for _, inst := range c.Instructions {
		if len(inst.Qubits) == 2 && !inst.Gate.IsDirective() {
			n++
		}
	}
	return n
}

// Dump writes a one-instruction-per-line listing, for diagnostics and
// golden tests.
func (c *Circuit) Dump(w io.Writer) {
	fmt.Fprintf(w, "circuit qubits=%d clbits=%d\n", c.Qubits, c.Clbits)
	for _, inst := range c.Instructions {
		fmt.Fprintf(w, "  %s q%v", inst.Gate.String(), inst.Qubits)
		if len(inst.Clbits) > 0 {
			fmt.Fprintf(w, " c%v", inst.Clbits)
		}
		fmt.Fprintln(w)
	}
}

func checkOperands(operands []int, limit int, kind string) error {
	seen := make(map[int]struct{}, len(operands))
	for _, idx := range operands {
		if idx < 0 || idx >= limit {
			return fmt.Errorf("%s operand %d out of range [0,%d)", kind, idx, limit)
		}
		if _, dup := seen[idx]; dup {
			return fmt.Errorf("duplicate %s operand %d", kind, idx)
		}
		seen[idx] = struct{}{}
	}
	return nil
}
