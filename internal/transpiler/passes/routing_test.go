package passes

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"qcc/internal/circuit"
	"qcc/internal/gate"
	"qcc/internal/target"
	"qcc/internal/transpiler"
)

func routed(t *testing.T, c *circuit.Circuit, tg *target.Target, cfg RoutingConfig) (*circuit.Circuit, *transpiler.Layout, error) {
	t.Helper()
	d := dagFrom(t, c)
	ps := transpiler.NewPropertySet()
	ps.Set(transpiler.KeyLayout, transpiler.TrivialLayout(tg.NumQubits()))
	if err := NewRouter(tg, cfg).Run(d, ps); err != nil {
		return nil, nil, err
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("routed DAG invalid: %v", err)
	}
	layout, err := ps.RequireLayout(transpiler.KeyFinalLayout, "test")
	if err != nil {
		t.Fatalf("final layout missing: %v", err)
	}
	return d.ToCircuit(), layout, nil
}

func TestLinearChainSingleSwap(t *testing.T) {
	// One operation between the two ends of a 3-qubit line needs
	// exactly one swap.
	tg := lineTarget(t, 3)
	c := circuit.New(3, 0)
	c.MustAppend(gate.CX(), []int{0, 2}, nil)
	out, layout, err := routed(t, c, tg, DefaultRoutingConfig())
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if got := out.Size(); got != 2 {
		t.Fatalf("output has %d operations, want swap + cx", got)
	}
	if out.Instructions[0].Gate.Name != gate.NameSwap {
		t.Fatalf("first operation = %s, want swap", out.Instructions[0].Gate.Name)
	}
	cx := out.Instructions[1]
	if cx.Gate.Name != gate.NameCX {
		t.Fatalf("second operation = %s, want cx", cx.Gate.Name)
	}
	if !tg.Adjacent(cx.Qubits[0], cx.Qubits[1]) {
		t.Errorf("cx on non-adjacent physicals %v", cx.Qubits)
	}
	if err := layout.Validate(); err != nil {
		t.Errorf("final layout not a bijection: %v", err)
	}
	if layout.Equal(transpiler.TrivialLayout(3)) {
		t.Error("final layout unchanged despite an inserted swap")
	}
}

func TestAlreadyRoutedUntouched(t *testing.T) {
	tg := lineTarget(t, 3)
	c := circuit.New(3, 0)
	c.MustAppend(gate.H(), []int{0}, nil)
	c.MustAppend(gate.CX(), []int{0, 1}, nil)
	c.MustAppend(gate.CX(), []int{1, 2}, nil)
	out, layout, err := routed(t, c, tg, DefaultRoutingConfig())
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	var names []string
	for _, inst := range out.Instructions {
		names = append(names, inst.Gate.Name)
	}
	if diff := cmp.Diff([]string{"h", "cx", "cx"}, names); diff != "" {
		t.Fatalf("adjacent circuit was rewritten (-want +got):\n%s", diff)
	}
	if !layout.Equal(transpiler.TrivialLayout(3)) {
		t.Errorf("final layout = %s, want identity", layout)
	}
}

func TestRoutingLegality(t *testing.T) {
	tg := lineTarget(t, 5)
	c := circuit.New(5, 5)
	c.MustAppend(gate.H(), []int{0}, nil)
	c.MustAppend(gate.CX(), []int{0, 4}, nil)
	c.MustAppend(gate.CX(), []int{1, 3}, nil)
	c.MustAppend(gate.CZ(), []int{4, 0}, nil)
	c.MustAppend(gate.Barrier(5), []int{0, 1, 2, 3, 4}, nil)
	c.MustAppend(gate.CX(), []int{2, 0}, nil)
	for i := 0; i < 5; i++ {
		c.MustAppend(gate.Measure(), []int{i}, []int{i})
	}
	out, layout, err := routed(t, c, tg, DefaultRoutingConfig())
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	twoQubit := 0
	for _, inst := range out.Instructions {
		if len(inst.Qubits) != 2 || inst.Gate.IsDirective() {
			continue
		}
		twoQubit++
		if !tg.Adjacent(inst.Qubits[0], inst.Qubits[1]) {
			t.Errorf("%s on non-adjacent physical qubits %v", inst.Gate.Name, inst.Qubits)
		}
	}
	if twoQubit == 0 {
		t.Fatal("no two-qubit operations survived routing")
	}
	if err := layout.Validate(); err != nil {
		t.Errorf("final layout not a bijection: %v", err)
	}
	// Every input operation must still be present, plus inserted swaps.
	if out.Size() < c.Size() {
		t.Errorf("output has %d operations, input had %d", out.Size(), c.Size())
	}
}

func TestRoutingDeterministicWithSeed(t *testing.T) {
	tg := lineTarget(t, 5)
	c := circuit.New(5, 0)
	c.MustAppend(gate.CX(), []int{0, 4}, nil)
	c.MustAppend(gate.CX(), []int{3, 0}, nil)
	c.MustAppend(gate.CX(), []int{4, 1}, nil)
	cfg := DefaultRoutingConfig()
	cfg.Seed = 7

	dump := func() string {
		out, layout, err := routed(t, c, tg, cfg)
		if err != nil {
			t.Fatalf("route: %v", err)
		}
		var sb strings.Builder
		out.Dump(&sb)
		sb.WriteString(layout.String())
		return sb.String()
	}
	if a, b := dump(), dump(); a != b {
		t.Errorf("two seeded runs differ:\n%s\n---\n%s", a, b)
	}
}

func TestRoutingSeedRecorded(t *testing.T) {
	tg := lineTarget(t, 3)
	c := circuit.New(3, 0)
	c.MustAppend(gate.CX(), []int{0, 2}, nil)
	d := dagFrom(t, c)
	ps := transpiler.NewPropertySet()
	ps.Set(transpiler.KeyLayout, transpiler.TrivialLayout(3))
	cfg := DefaultRoutingConfig()
	cfg.Seed = 42
	if err := NewRouter(tg, cfg).Run(d, ps); err != nil {
		t.Fatalf("route: %v", err)
	}
	v, ok := ps.Lookup(transpiler.KeyRoutingSeed)
	if !ok || v.(int64) != 42 {
		t.Errorf("routing seed property = (%v, %v), want 42", v, ok)
	}
}

func TestRoutingDisconnectedPair(t *testing.T) {
	tg, err := target.New(4, [][2]int{{0, 1}, {2, 3}}, nil)
	if err != nil {
		t.Fatalf("target.New: %v", err)
	}
	c := circuit.New(4, 0)
	c.MustAppend(gate.CX(), []int{0, 2}, nil)
	_, _, err = routed(t, c, tg, DefaultRoutingConfig())
	var re *RoutingError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *RoutingError", err)
	}
}

func TestRoutingSwapCap(t *testing.T) {
	tg := lineTarget(t, 4)
	c := circuit.New(4, 0)
	c.MustAppend(gate.CX(), []int{0, 3}, nil)
	cfg := DefaultRoutingConfig()
	cfg.MaxSwaps = 1
	_, _, err := routed(t, c, tg, cfg)
	var re *RoutingError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *RoutingError when the cap is exceeded", err)
	}
}

func TestRoutingRejectsWideOperations(t *testing.T) {
	tg := lineTarget(t, 3)
	c := circuit.New(3, 0)
	c.MustAppend(gate.CCX(), []int{0, 1, 2}, nil)
	_, _, err := routed(t, c, tg, DefaultRoutingConfig())
	if err == nil {
		t.Fatal("three-qubit operation accepted by the router")
	}
}

func TestRoutingRequiresLayout(t *testing.T) {
	tg := lineTarget(t, 3)
	c := circuit.New(3, 0)
	c.MustAppend(gate.CX(), []int{0, 1}, nil)
	d := dagFrom(t, c)
	err := NewRouter(tg, DefaultRoutingConfig()).Run(d, transpiler.NewPropertySet())
	var pre *transpiler.PassPreconditionError
	if !errors.As(err, &pre) {
		t.Fatalf("err = %v, want *PassPreconditionError", err)
	}
}
