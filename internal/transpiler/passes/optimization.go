package passes

import (
	"math"

	"qcc/internal/circuit"
	"qcc/internal/dag"
	"qcc/internal/gate"
	"qcc/internal/transpiler"
)

const angleTolerance = 1e-9

// InverseCancellation removes operation pairs that multiply to the
// identity. The partner need not be adjacent: the scan walks forward
// over operations the commutation table proves reorderable, so
// `cx . rz(c0) . cx` still cancels the pair.
type InverseCancellation struct{}

func (InverseCancellation) Name() string          { return "inverse-cancellation" }
func (InverseCancellation) Kind() transpiler.Kind { return transpiler.Transformation }

func (InverseCancellation) Run(d *dag.DAG, ps *transpiler.PropertySet) error {
	for {
		if !cancelOnePair(d) {
			return nil
		}
	}
}

func cancelOnePair(d *dag.DAG) bool {
	for _, id := range d.TopologicalOrder() {
		n := d.Node(id)
		if n == nil || n.Op.Gate.IsDirective() || len(n.Op.Clbits) > 0 {
			continue
		}
		inv, ok := n.Op.Gate.Inverse()
		if !ok {
			continue
		}
		partner := findCancelPartner(d, n, inv)
		if partner == dag.NoNode {
			continue
		}
		if err := d.Remove(id); err != nil {
			continue
		}
		if err := d.Remove(partner); err != nil {
			// Unreachable: partner was live above, and removing n
			// does not touch it.
			panic(err)
		}
		return true
	}
	return false
}

// findCancelPartner walks each of n's wires forward to the first node
// that is the inverse on the same operands, skipping over operations
// the commutation table proves reorderable; cancellation needs every
// wire to reach the same inverse node. The inverse check comes before
// the commutation check because a gate always commutes with its own
// inverse.
func findCancelPartner(d *dag.DAG, n *dag.Node, inv gate.Gate) dag.NodeID {
	partner := dag.NoNode
	for _, w := range n.Wires() {
		stop := scanWire(d, n, inv, w)
		if stop == dag.NoNode {
			return dag.NoNode
		}
		if partner == dag.NoNode {
			partner = stop
		} else if partner != stop {
			return dag.NoNode
		}
	}
	return partner
}

func scanWire(d *dag.DAG, n *dag.Node, inv gate.Gate, w dag.Wire) dag.NodeID {
	cur := d.SuccOnWire(n.ID, w)
	for cur != dag.NoNode {
		node := d.Node(cur)
		if node == nil || node.Kind != dag.OpNode {
			return dag.NoNode
		}
		if node.Op.Gate.Equal(inv, gate.Tolerance) &&
			sameOperands(n.Op.Qubits, node.Op.Qubits) && len(node.Op.Clbits) == 0 {
			return cur
		}
		if !Commute(n.Op.Gate, n.Op.Qubits, node.Op.Gate, node.Op.Qubits, n.Op.Clbits, node.Op.Clbits) {
			return dag.NoNode
		}
		cur = d.SuccOnWire(cur, w)
	}
	return dag.NoNode
}

func sameOperands(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// RotationMerge fuses adjacent same-name rotations on a wire into one
// with the summed angle, dropping rotations that reduce to identity
// modulo 2 pi.
type RotationMerge struct{}

func (RotationMerge) Name() string          { return "rotation-merge" }
func (RotationMerge) Kind() transpiler.Kind { return transpiler.Transformation }

func (RotationMerge) Run(d *dag.DAG, ps *transpiler.PropertySet) error {
	for {
		if !mergeOneRotation(d) {
			return nil
		}
	}
}

func mergeOneRotation(d *dag.DAG) bool {
	for _, id := range d.TopologicalOrder() {
		n := d.Node(id)
		if n == nil {
			continue
		}
		g := n.Op.Gate
		if _, ok := g.RotationAxis(); !ok || g.Controls > 0 {
			continue
		}
		w := dag.Wire{Kind: dag.QubitWire, Index: n.Op.Qubits[0]}

		// A lone rotation of an effectively zero angle goes away on
		// its own.
		if zeroAngle(g.Params[0]) {
			if err := d.Remove(id); err == nil {
				return true
			}
			continue
		}
		succ := d.SuccOnWire(id, w)
		m := d.Node(succ)
		if m == nil || m.Kind != dag.OpNode || m.Op.Gate.Name != g.Name {
			continue
		}
		sum := g.Params[0] + m.Op.Gate.Params[0]
		if err := d.Remove(succ); err != nil {
			continue
		}
		if zeroAngle(sum) {
			if err := d.Remove(id); err != nil {
				panic(err)
			}
			return true
		}
		merged := g
		merged.Params = []float64{sum}
		if err := d.Substitute(id, []circuit.Instruction{{Gate: merged, Qubits: []int{0}}}); err != nil {
			panic(err)
		}
		return true
	}
	return false
}

func zeroAngle(theta float64) bool {
	m := math.Mod(theta, 2*math.Pi)
	if m < 0 {
		m += 2 * math.Pi
	}
	return m < angleTolerance || 2*math.Pi-m < angleTolerance
}
