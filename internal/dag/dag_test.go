package dag

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"qcc/internal/circuit"
	"qcc/internal/gate"
)

func buildBell(t *testing.T) *DAG {
	t.Helper()
	c := circuit.New(2, 2)
	c.MustAppend(gate.H(), []int{0}, nil)
	c.MustAppend(gate.CX(), []int{0, 1}, nil)
	c.MustAppend(gate.Measure(), []int{0}, []int{0})
	c.MustAppend(gate.Measure(), []int{1}, []int{1})
	d, err := FromCircuit(c)
	if err != nil {
		t.Fatalf("FromCircuit: %v", err)
	}
	return d
}

func names(c *circuit.Circuit) []string {
	var out []string
	for _, inst := range c.Instructions {
		out = append(out, inst.Gate.Name)
	}
	return out
}

func TestRoundTripPreservesOrder(t *testing.T) {
	d := buildBell(t)
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	got := names(d.ToCircuit())
	want := []string{"h", "cx", "measure", "measure"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestTopologicalOrderRespectsWires(t *testing.T) {
	d := New(2, 0)
	h, _ := d.AddOperation(gate.H(), []int{0}, nil)
	cx, _ := d.AddOperation(gate.CX(), []int{0, 1}, nil)
	x, _ := d.AddOperation(gate.X(), []int{1}, nil)
	order := d.TopologicalOrder()
	pos := make(map[NodeID]int)
	for i, id := range order {
		pos[id] = i
	}
	if pos[h] > pos[cx] || pos[cx] > pos[x] {
		t.Errorf("order %v violates wire dependencies h=%d cx=%d x=%d", order, h, cx, x)
	}
}

func TestAddOperationArity(t *testing.T) {
	d := New(2, 0)
	_, err := d.AddOperation(gate.CX(), []int{0}, nil)
	var arity *circuit.ArityError
	if !errors.As(err, &arity) {
		t.Fatalf("err = %v, want *circuit.ArityError", err)
	}
	if d.Size() != 0 {
		t.Errorf("failed add changed size to %d", d.Size())
	}
}

func TestRemoveSplicesWire(t *testing.T) {
	d := New(1, 0)
	a, _ := d.AddOperation(gate.H(), []int{0}, nil)
	b, _ := d.AddOperation(gate.X(), []int{0}, nil)
	c, _ := d.AddOperation(gate.H(), []int{0}, nil)
	if err := d.Remove(b); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate after remove: %v", err)
	}
	if d.Node(b) != nil {
		t.Error("removed node still resolvable")
	}
	w := Wire{QubitWire, 0}
	if got := d.SuccOnWire(a, w); got != c {
		t.Errorf("SuccOnWire(a) = %d, want %d", got, c)
	}
	if err := d.Remove(b); err == nil {
		t.Error("double remove: want error")
	}
	if got := names(d.ToCircuit()); len(got) != 2 {
		t.Errorf("circuit after remove = %v, want 2 instructions", got)
	}
}

func TestSubstituteThreadsChain(t *testing.T) {
	d := buildBell(t)
	var cxID NodeID = NoNode
	for _, id := range d.TopologicalOrder() {
		if d.Node(id).Op.Gate.Name == gate.NameCX {
			cxID = id
		}
	}
	replacement := []circuit.Instruction{
		{Gate: gate.H(), Qubits: []int{1}},
		{Gate: gate.CZ(), Qubits: []int{0, 1}},
		{Gate: gate.H(), Qubits: []int{1}},
	}
	if err := d.Substitute(cxID, replacement); err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("Validate after substitute: %v", err)
	}
	got := names(d.ToCircuit())
	// The first measurement was created before the substitution's
	// trailing h, so the ID-ordered topological drain emits it first.
	want := []string{"h", "h", "cz", "measure", "h", "measure"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("substituted circuit mismatch (-want +got):\n%s", diff)
	}
	// Local operand 1 must have mapped onto the original wire q1.
	for _, id := range d.TopologicalOrder() {
		if d.Node(id).Op.Gate.Name == gate.NameCZ {
			if diff := cmp.Diff([]int{0, 1}, d.Node(id).Op.Qubits); diff != "" {
				t.Errorf("cz operands mismatch (-want +got):\n%s", diff)
			}
		}
	}
}

func TestSubstituteRequiresWireCoverage(t *testing.T) {
	d := New(2, 0)
	cx, _ := d.AddOperation(gate.CX(), []int{0, 1}, nil)
	err := d.Substitute(cx, []circuit.Instruction{{Gate: gate.H(), Qubits: []int{1}}})
	var mismatch *WireMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want *WireMismatchError", err)
	}
	err = d.Substitute(cx, []circuit.Instruction{{Gate: gate.CX(), Qubits: []int{0, 5}}})
	if !errors.As(err, &mismatch) {
		t.Fatalf("out-of-range local operand: err = %v, want *WireMismatchError", err)
	}
}

func TestSubstituteEmptyNotAllowed(t *testing.T) {
	d := New(1, 0)
	h, _ := d.AddOperation(gate.H(), []int{0}, nil)
	if err := d.Substitute(h, nil); err == nil {
		t.Error("empty replacement leaves wires uncovered, want error")
	}
}

func TestDepth(t *testing.T) {
	d := New(2, 0)
	d.AddOperation(gate.H(), []int{0}, nil)
	d.AddOperation(gate.H(), []int{1}, nil)
	if got := d.Depth(); got != 1 {
		t.Errorf("parallel depth = %d, want 1", got)
	}
	d.AddOperation(gate.CX(), []int{0, 1}, nil)
	d.AddOperation(gate.X(), []int{1}, nil)
	if got := d.Depth(); got != 3 {
		t.Errorf("depth = %d, want 3", got)
	}
}

func TestCountOpsAndTwoQubitOps(t *testing.T) {
	d := buildBell(t)
	counts := d.CountOps()
	want := map[string]int{"h": 1, "cx": 1, "measure": 2}
	if diff := cmp.Diff(want, counts); diff != "" {
		t.Fatalf("CountOps mismatch (-want +got):\n%s", diff)
	}
	two := d.TwoQubitOps()
	if len(two) != 1 || d.Node(two[0]).Op.Gate.Name != "cx" {
		t.Errorf("TwoQubitOps = %v, want the single cx", two)
	}
}

func TestReplaceWith(t *testing.T) {
	d := buildBell(t)
	o := New(3, 0)
	o.AddOperation(gate.H(), []int{2}, nil)
	d.ReplaceWith(o)
	if d.Qubits() != 3 || d.Size() != 1 {
		t.Errorf("after ReplaceWith: qubits=%d size=%d, want 3 and 1", d.Qubits(), d.Size())
	}
}

func TestDeterministicOrder(t *testing.T) {
	build := func() *DAG {
		d := New(3, 0)
		d.AddOperation(gate.H(), []int{0}, nil)
		d.AddOperation(gate.H(), []int{2}, nil)
		d.AddOperation(gate.H(), []int{1}, nil)
		d.AddOperation(gate.CX(), []int{0, 1}, nil)
		return d
	}
	a := build().TopologicalOrder()
	b := build().TopologicalOrder()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("orders differ between identical builds (-a +b):\n%s", diff)
	}
}
