package passes

import (
	"fmt"

	"qcc/internal/circuit"
	"qcc/internal/dag"
	"qcc/internal/equiv"
	"qcc/internal/gate"
	"qcc/internal/target"
	"qcc/internal/transpiler"
)

// BasisTranslator rewrites every operation outside the target
// vocabulary through the equivalence library. Gates controlled on the
// ground state are first conjugated: a NOT on each zero-state control
// before and after the all-ones controlled form, which then translates
// normally.
type BasisTranslator struct {
	target *target.Target
	plan   *equiv.Plan
}

// NewBasisTranslator constructs the pass; the equivalence search
// against the target vocabulary runs once here and is reused for every
// operation.
func NewBasisTranslator(t *target.Target, lib *equiv.Library) *BasisTranslator {
	return &BasisTranslator{target: t, plan: lib.PlanFor(t.Basis())}
}

func (p *BasisTranslator) Name() string          { return "basis-translator" }
func (p *BasisTranslator) Kind() transpiler.Kind { return transpiler.Transformation }

func (p *BasisTranslator) Run(d *dag.DAG, ps *transpiler.PropertySet) error {
	for _, id := range d.TopologicalOrder() {
		n := d.Node(id)
		if n == nil {
			continue
		}
		g := n.Op.Gate
		if g.IsDirective() {
			continue
		}
		if p.target.InBasis(g.Name) && !g.HasOpenControls() {
			continue
		}
		replacement, err := p.translate(g)
		if err != nil {
			return err
		}
		if len(replacement) == 0 {
			if err := d.Remove(id); err != nil {
				return err
			}
			continue
		}
		if err := d.Substitute(id, replacement); err != nil {
			return fmt.Errorf("translate %s: %w", g.Name, err)
		}
	}
	return nil
}

func (p *BasisTranslator) translate(g gate.Gate) ([]circuit.Instruction, error) {
	if g.HasOpenControls() {
		return p.translateOpenControls(g)
	}
	return p.plan.Translate(g)
}

// translateOpenControls wraps the all-ones form in bit-flip conjugation
// and expands each piece into the vocabulary.
func (p *BasisTranslator) translateOpenControls(g gate.Gate) ([]circuit.Instruction, error) {
	closed := g
	closed.CtrlState = gate.AllOnes(g.Controls)
	var flips []circuit.Instruction
	for i := 0; i < g.Controls; i++ {
		if !g.ControlBit(i) {
			flips = append(flips, circuit.Instruction{Gate: gate.X(), Qubits: []int{i}})
		}
	}
	conjugated := make([]circuit.Instruction, 0, 2*len(flips)+1)
	conjugated = append(conjugated, flips...)
	conjugated = append(conjugated, identityOperands(closed))
	conjugated = append(conjugated, flips...)
	return p.expandAll(conjugated)
}

// expandAll pushes a local instruction sequence through the equivalence
// plan, remapping each expansion onto the outer operand positions.
func (p *BasisTranslator) expandAll(instrs []circuit.Instruction) ([]circuit.Instruction, error) {
	var out []circuit.Instruction
	for _, inst := range instrs {
		sub, err := p.plan.Translate(inst.Gate)
		if err != nil {
			return nil, err
		}
		for _, s := range sub {
			mapped := circuit.Instruction{
				Gate:   s.Gate,
				Qubits: make([]int, len(s.Qubits)),
				Clbits: make([]int, len(s.Clbits)),
			}
			for i, q := range s.Qubits {
				mapped.Qubits[i] = inst.Qubits[q]
			}
			for i, c := range s.Clbits {
				mapped.Clbits[i] = inst.Clbits[c]
			}
			out = append(out, mapped)
		}
	}
	return out, nil
}

func identityOperands(g gate.Gate) circuit.Instruction {
	inst := circuit.Instruction{Gate: g, Qubits: make([]int, g.Qubits), Clbits: make([]int, g.Clbits)}
	for i := range inst.Qubits {
		inst.Qubits[i] = i
	}
	for i := range inst.Clbits {
		inst.Clbits[i] = i
	}
	return inst
}
