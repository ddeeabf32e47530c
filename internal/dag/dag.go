// Package dag implements the circuit intermediate representation: a
// directed acyclic graph with one node per operation plus per-wire
// boundary nodes. Nodes live in an arena and are addressed by stable
// integer IDs; edges are per-wire predecessor/successor links, so the
// structure carries no owning back-references and removal or
// replacement is O(degree).
package dag

import (
	"container/heap"
	"fmt"
	"io"

	"qcc/internal/circuit"
	"qcc/internal/gate"
)

// NodeID addresses a node in the arena. IDs are never reused; removed
// nodes stay tombstoned.
type NodeID int

// NoNode is the null node ID.
const NoNode NodeID = -1

// WireKind distinguishes qubit from classical-bit wires.
type WireKind uint8

const (
	QubitWire WireKind = iota
	ClbitWire
)

// Wire identifies one qubit or classical-bit resource.
type Wire struct {
	Kind  WireKind
	Index int
}

func (w Wire) String() string {
	if w.Kind == QubitWire {
		return fmt.Sprintf("q%d", w.Index)
	}
	return fmt.Sprintf("c%d", w.Index)
}

// NodeKind tags the node variant.
type NodeKind uint8

const (
	// OpNode is an operation node.
	OpNode NodeKind = iota
	// InNode front-anchors a wire.
	InNode
	// OutNode back-anchors a wire.
	OutNode
)

// Node is one arena entry. For OpNode, Op carries the descriptor and
// operands; for boundaries, Wire names the anchored resource. Nodes are
// never mutated after creation: passes replace, they do not edit.
type Node struct {
	ID   NodeID
	Kind NodeKind
	Wire Wire
	Op   circuit.Instruction

	removed bool
}

// Wires returns the wires the node touches, qubits first, in operand
// order.
func (n *Node) Wires() []Wire {
	if n.Kind != OpNode {
		return []Wire{n.Wire}
	}
	wires := make([]Wire, 0, len(n.Op.Qubits)+len(n.Op.Clbits))
	for _, q := range n.Op.Qubits {
		wires = append(wires, Wire{QubitWire, q})
	}
	for _, c := range n.Op.Clbits {
		wires = append(wires, Wire{ClbitWire, c})
	}
	return wires
}

// DAG is one circuit in graph form.
type DAG struct {
	qubits int
	clbits int

	nodes []*Node
	pred  []map[Wire]NodeID
	succ  []map[Wire]NodeID

	in  map[Wire]NodeID
	out map[Wire]NodeID

	size int
}

// New returns an empty DAG over the given register sizes, with the
// boundary pairs for every wire already linked.
func New(qubits, clbits int) *DAG {
	d := &DAG{
		qubits: qubits,
		clbits: clbits,
		in:     make(map[Wire]NodeID, qubits+clbits),
		out:    make(map[Wire]NodeID, qubits+clbits),
	}
	for i := 0; i < qubits; i++ {
		d.addBoundaryPair(Wire{QubitWire, i})
	}
	for i := 0; i < clbits; i++ {
		d.addBoundaryPair(Wire{ClbitWire, i})
	}
	return d
}

func (d *DAG) addBoundaryPair(w Wire) {
	in := d.newNode(&Node{Kind: InNode, Wire: w})
	out := d.newNode(&Node{Kind: OutNode, Wire: w})
	d.link(in, out, w)
	d.in[w] = in
	d.out[w] = out
}

func (d *DAG) newNode(n *Node) NodeID {
	id := NodeID(len(d.nodes))
	n.ID = id
	d.nodes = append(d.nodes, n)
	d.pred = append(d.pred, make(map[Wire]NodeID, 2))
	d.succ = append(d.succ, make(map[Wire]NodeID, 2))
	return id
}

func (d *DAG) link(from, to NodeID, w Wire) {
	d.succ[from][w] = to
	d.pred[to][w] = from
}

// Qubits returns the qubit register size.
func (d *DAG) Qubits() int { return d.qubits }

// Clbits returns the classical register size.
func (d *DAG) Clbits() int { return d.clbits }

// Size returns the number of live operation nodes.
func (d *DAG) Size() int { return d.size }

// Node returns the arena entry for id, or nil for tombstoned or
// out-of-range IDs.
func (d *DAG) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(d.nodes) {
		return nil
	}
	n := d.nodes[id]
	if n.removed {
		return nil
	}
	return n
}

// AddOperation appends an operation at the tails of its wires,
// preserving per-wire order. It fails with *circuit.ArityError when
// operand counts mismatch the descriptor's arity.
func (d *DAG) AddOperation(g gate.Gate, qubits, clbits []int) (NodeID, error) {
	if len(qubits) != g.Qubits || len(clbits) != g.Clbits {
		return NoNode, &circuit.ArityError{
			Gate:       g.Name,
			WantQubits: g.Qubits, GotQubits: len(qubits),
			WantClbits: g.Clbits, GotClbits: len(clbits),
		}
	}
	inst := circuit.Instruction{
		Gate:   g,
		Qubits: append([]int(nil), qubits...),
		Clbits: append([]int(nil), clbits...),
	}
	node := &Node{Kind: OpNode, Op: inst}
	for _, w := range node.Wires() {
		if _, ok := d.out[w]; !ok {
			return NoNode, fmt.Errorf("add %s: wire %s not in DAG", g.Name, w)
		}
	}
	id := d.newNode(node)
	for _, w := range node.Wires() {
		out := d.out[w]
		prev := d.pred[out][w]
		d.link(prev, id, w)
		d.link(id, out, w)
	}
	d.size++
	return id, nil
}

// Remove deletes an operation node, splicing its wires shut.
func (d *DAG) Remove(id NodeID) error {
	n := d.Node(id)
	if n == nil || n.Kind != OpNode {
		return fmt.Errorf("remove: node %d is not a live operation", id)
	}
	for _, w := range n.Wires() {
		prev := d.pred[id][w]
		next := d.succ[id][w]
		d.link(prev, next, w)
	}
	n.removed = true
	d.size--
	return nil
}

// Substitute replaces one operation node with an ordered chain of
// instructions over the same operand set. Replacement operands are
// local: qubit index i means the i-th qubit operand of the replaced
// node, and likewise for clbits. Every wire of the original node must
// be covered or the call fails with *WireMismatchError.
func (d *DAG) Substitute(id NodeID, replacement []circuit.Instruction) error {
	n := d.Node(id)
	if n == nil || n.Kind != OpNode {
		return fmt.Errorf("substitute: node %d is not a live operation", id)
	}
	nq, nc := len(n.Op.Qubits), len(n.Op.Clbits)
	coveredQ := make([]bool, nq)
	coveredC := make([]bool, nc)
	for _, inst := range replacement {
		if len(inst.Qubits) != inst.Gate.Qubits || len(inst.Clbits) != inst.Gate.Clbits {
			return &circuit.ArityError{
				Gate:       inst.Gate.Name,
				WantQubits: inst.Gate.Qubits, GotQubits: len(inst.Qubits),
				WantClbits: inst.Gate.Clbits, GotClbits: len(inst.Clbits),
			}
		}
		for _, q := range inst.Qubits {
			if q < 0 || q >= nq {
				return &WireMismatchError{Node: id, Detail: fmt.Sprintf("local qubit %d out of range [0,%d)", q, nq)}
			}
			coveredQ[q] = true
		}
		for _, c := range inst.Clbits {
			if c < 0 || c >= nc {
				return &WireMismatchError{Node: id, Detail: fmt.Sprintf("local clbit %d out of range [0,%d)", c, nc)}
			}
			coveredC[c] = true
		}
	}
	for q, ok := range coveredQ {
		if !ok {
			return &WireMismatchError{Node: id, Detail: fmt.Sprintf("qubit operand %d (wire q%d) not covered", q, n.Op.Qubits[q])}
		}
	}
	for c, ok := range coveredC {
		if !ok {
			return &WireMismatchError{Node: id, Detail: fmt.Sprintf("clbit operand %d (wire c%d) not covered", c, n.Op.Clbits[c])}
		}
	}

	// Detach the node, remembering the cut ends per wire, then thread
	// the replacement chain through the cut.
	tail := make(map[Wire]NodeID)
	next := make(map[Wire]NodeID)
	for _, w := range n.Wires() {
		tail[w] = d.pred[id][w]
		next[w] = d.succ[id][w]
	}
	n.removed = true
	d.size--

	for _, inst := range replacement {
		mapped := circuit.Instruction{
			Gate:   inst.Gate,
			Qubits: make([]int, len(inst.Qubits)),
			Clbits: make([]int, len(inst.Clbits)),
		}
		for i, q := range inst.Qubits {
			mapped.Qubits[i] = n.Op.Qubits[q]
		}
		for i, c := range inst.Clbits {
			mapped.Clbits[i] = n.Op.Clbits[c]
		}
		node := &Node{Kind: OpNode, Op: mapped}
		nid := d.newNode(node)
		for _, w := range node.Wires() {
			d.link(tail[w], nid, w)
			tail[w] = nid
		}
		d.size++
	}
	for _, w := range n.Wires() {
		d.link(tail[w], next[w], w)
	}
	return nil
}

// PredOnWire returns the node preceding id on wire w.
func (d *DAG) PredOnWire(id NodeID, w Wire) NodeID {
	if p, ok := d.pred[id][w]; ok {
		return p
	}
	return NoNode
}

// SuccOnWire returns the node following id on wire w.
func (d *DAG) SuccOnWire(id NodeID, w Wire) NodeID {
	if s, ok := d.succ[id][w]; ok {
		return s
	}
	return NoNode
}

// OpPredecessors returns the distinct operation nodes that directly
// precede id on any wire, in ascending ID order.
func (d *DAG) OpPredecessors(id NodeID) []NodeID {
	return d.opNeighbors(id, d.pred)
}

// OpSuccessors returns the distinct operation nodes that directly
// follow id on any wire, in ascending ID order.
func (d *DAG) OpSuccessors(id NodeID) []NodeID {
	return d.opNeighbors(id, d.succ)
}

func (d *DAG) opNeighbors(id NodeID, adj []map[Wire]NodeID) []NodeID {
	seen := make(map[NodeID]struct{})
	var out []NodeID
	for _, nb := range adj[id] {
		n := d.Node(nb)
		if n == nil || n.Kind != OpNode {
			continue
		}
		if _, dup := seen[nb]; dup {
			continue
		}
		seen[nb] = struct{}{}
		out = append(out, nb)
	}
	sortNodeIDs(out)
	return out
}

// TopologicalOrder returns the live operation nodes in an order
// respecting every wire's direction. Ready nodes are drained in
// ascending ID order so the result is deterministic.
func (d *DAG) TopologicalOrder() []NodeID {
	indeg := make(map[NodeID]int, d.size)
	for _, n := range d.nodes {
		if n.removed || n.Kind != OpNode {
			continue
		}
		indeg[n.ID] = len(d.OpPredecessors(n.ID))
	}
	ready := &nodeIDHeap{}
	heap.Init(ready)
	for id, deg := range indeg {
		if deg == 0 {
			heap.Push(ready, id)
		}
	}
	order := make([]NodeID, 0, d.size)
	for ready.Len() > 0 {
		id := heap.Pop(ready).(NodeID)
		order = append(order, id)
		for _, s := range d.OpSuccessors(id) {
			indeg[s]--
			if indeg[s] == 0 {
				heap.Push(ready, s)
			}
		}
	}
	return order
}

// TwoQubitOps returns the live operations with qubit arity 2, excluding
// directives, in topological order. The router lives on this view.
func (d *DAG) TwoQubitOps() []NodeID {
	var out []NodeID
	for _, id := range d.TopologicalOrder() {
		n := d.nodes[id]
		if len(n.Op.Qubits) == 2 && !n.Op.Gate.IsDirective() {
			out = append(out, id)
		}
	}
	return out
}

// Depth returns the longest operation chain over any path, directives
// included.
func (d *DAG) Depth() int {
	depth := make(map[NodeID]int, d.size)
	max := 0
	for _, id := range d.TopologicalOrder() {
		best := 0
		for _, p := range d.OpPredecessors(id) {
			if depth[p] > best {
				best = depth[p]
			}
		}
		depth[id] = best + 1
		if depth[id] > max {
			max = depth[id]
		}
	}
	return max
}

// CountOps tallies live operations by gate name.
func (d *DAG) CountOps() map[string]int {
	counts := make(map[string]int)
	for _, n := range d.nodes {
		if !n.removed && n.Kind == OpNode {
			counts[n.Op.Gate.Name]++
		}
	}
	return counts
}

// FromCircuit loads a flat circuit into DAG form.
func FromCircuit(c *circuit.Circuit) (*DAG, error) {
	d := New(c.Qubits, c.Clbits)
	for i, inst := range c.Instructions {
		if _, err := d.AddOperation(inst.Gate, inst.Qubits, inst.Clbits); err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
	}
	return d, nil
}

// ToCircuit converts back to flat form in topological order.
func (d *DAG) ToCircuit() *circuit.Circuit {
	c := circuit.New(d.qubits, d.clbits)
	for _, id := range d.TopologicalOrder() {
		op := d.nodes[id].Op
		c.Instructions = append(c.Instructions, circuit.Instruction{
			Gate:   op.Gate,
			Qubits: append([]int(nil), op.Qubits...),
			Clbits: append([]int(nil), op.Clbits...),
		})
	}
	return c
}

// ReplaceWith swaps d's contents for o's. Passes that rebuild the
// graph wholesale (routing emits a fresh physical DAG) use this to
// publish the result through the pipeline's single DAG instance.
func (d *DAG) ReplaceWith(o *DAG) {
	*d = *o
}

// Validate walks every wire checking the structural invariants: each
// wire is a boundary-anchored chain, every live operation appears on
// exactly the wires of its operands, and the graph is acyclic.
func (d *DAG) Validate() error {
	onWires := make(map[NodeID]int)
	for w, in := range d.in {
		id := in
		steps := 0
		for {
			next, ok := d.succ[id][w]
			if !ok {
				return fmt.Errorf("wire %s: chain broken after node %d", w, id)
			}
			n := d.nodes[next]
			if n.removed {
				return fmt.Errorf("wire %s: tombstoned node %d still linked", w, next)
			}
			if back, ok := d.pred[next][w]; !ok || back != id {
				return fmt.Errorf("wire %s: back-link of node %d does not match %d", w, next, id)
			}
			if n.Kind == OpNode {
				onWires[next]++
			}
			if next == d.out[w] {
				break
			}
			id = next
			steps++
			if steps > len(d.nodes) {
				return fmt.Errorf("wire %s: chain exceeds arena size, cycle suspected", w)
			}
		}
	}
	live := 0
	for _, n := range d.nodes {
		if n.removed || n.Kind != OpNode {
			continue
		}
		live++
		want := len(n.Op.Qubits) + len(n.Op.Clbits)
		if onWires[n.ID] != want {
			return fmt.Errorf("node %d: appears on %d wires, operands require %d", n.ID, onWires[n.ID], want)
		}
	}
	if live != d.size {
		return fmt.Errorf("size accounting: counted %d live operations, recorded %d", live, d.size)
	}
	if got := len(d.TopologicalOrder()); got != d.size {
		return fmt.Errorf("topological order covers %d of %d operations, cycle suspected", got, d.size)
	}
	return nil
}

// Dump writes the topological listing, one node per line.
func (d *DAG) Dump(w io.Writer) {
	fmt.Fprintf(w, "dag qubits=%d clbits=%d size=%d\n", d.qubits, d.clbits, d.size)
	for _, id := range d.TopologicalOrder() {
		op := d.nodes[id].Op
		fmt.Fprintf(w, "  [%d] %s q%v", id, op.Gate.String(), op.Qubits)
		if len(op.Clbits) > 0 {
			fmt.Fprintf(w, " c%v", op.Clbits)
		}
		fmt.Fprintln(w)
	}
}

type nodeIDHeap []NodeID

func (h nodeIDHeap) Len() int            { return len(h) }
func (h nodeIDHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h nodeIDHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *nodeIDHeap) Push(x interface{}) { *h = append(*h, x.(NodeID)) }
func (h *nodeIDHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func sortNodeIDs(ids []NodeID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}
