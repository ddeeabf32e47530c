package passes

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"qcc/internal/circuit"
	"qcc/internal/equiv"
	"qcc/internal/gate"
	"qcc/internal/transpiler"
)

func TestBasisClosure(t *testing.T) {
	tg := lineTarget(t, 3, "rz", "sx", "cx")
	c := circuit.New(3, 1)
	c.MustAppend(gate.H(), []int{0}, nil)
	c.MustAppend(gate.T(), []int{1}, nil)
	c.MustAppend(gate.CZ(), []int{0, 1}, nil)
	c.MustAppend(gate.Swap(), []int{1, 2}, nil)
	c.MustAppend(gate.CCX(), []int{0, 1, 2}, nil)
	c.MustAppend(gate.Barrier(3), []int{0, 1, 2}, nil)
	c.MustAppend(gate.Measure(), []int{2}, []int{0})
	d := dagFrom(t, c)
	pass := NewBasisTranslator(tg, equiv.StandardLibrary())
	if err := pass.Run(d, transpiler.NewPropertySet()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("translated DAG invalid: %v", err)
	}
	for _, id := range d.TopologicalOrder() {
		name := d.Node(id).Op.Gate.Name
		if !tg.InBasis(name) {
			t.Errorf("operation %s outside the vocabulary", name)
		}
	}
	counts := d.CountOps()
	if counts["barrier"] != 1 || counts["measure"] != 1 {
		t.Errorf("directives not preserved: %v", counts)
	}
}

func TestBasisAlreadyNativeUntouched(t *testing.T) {
	tg := lineTarget(t, 2, "rz", "sx", "cx")
	c := circuit.New(2, 0)
	c.MustAppend(gate.RZ(0.5), []int{0}, nil)
	c.MustAppend(gate.SX(), []int{1}, nil)
	c.MustAppend(gate.CX(), []int{0, 1}, nil)
	d := dagFrom(t, c)
	pass := NewBasisTranslator(tg, equiv.StandardLibrary())
	if err := pass.Run(d, transpiler.NewPropertySet()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	var names []string
	for _, inst := range d.ToCircuit().Instructions {
		names = append(names, inst.Gate.Name)
	}
	if diff := cmp.Diff([]string{"rz", "sx", "cx"}, names); diff != "" {
		t.Fatalf("native circuit rewritten (-want +got):\n%s", diff)
	}
}

func TestBasisOpenControlConjugation(t *testing.T) {
	// A cx conditioned on the control's ground state becomes
	// x-conjugation around the closed form.
	tg := lineTarget(t, 2, "x", "cx")
	open, err := gate.Controlled(gate.X(), 1, 0)
	if err != nil {
		t.Fatalf("Controlled: %v", err)
	}
	c := circuit.New(2, 0)
	c.MustAppend(open, []int{0, 1}, nil)
	d := dagFrom(t, c)
	pass := NewBasisTranslator(tg, equiv.StandardLibrary())
	if err := pass.Run(d, transpiler.NewPropertySet()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	out := d.ToCircuit()
	var got []circuit.Instruction
	for _, inst := range out.Instructions {
		got = append(got, circuit.Instruction{Gate: gate.Gate{Name: inst.Gate.Name}, Qubits: inst.Qubits})
	}
	want := []circuit.Instruction{
		{Gate: gate.Gate{Name: "x"}, Qubits: []int{0}},
		{Gate: gate.Gate{Name: "cx"}, Qubits: []int{0, 1}},
		{Gate: gate.Gate{Name: "x"}, Qubits: []int{0}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("open-control expansion mismatch (-want +got):\n%s", diff)
	}
}

func TestBasisOpenControlSemantics(t *testing.T) {
	// The conjugated sequence must implement the open-control unitary
	// on every computational basis state: flip the target exactly when
	// the control is in the ground state.
	open, err := gate.Controlled(gate.X(), 1, 0)
	if err != nil {
		t.Fatalf("Controlled: %v", err)
	}
	for in := 0; in < 4; in++ {
		amps, err := open.ApplyToBasis(in)
		if err != nil {
			t.Fatalf("ApplyToBasis(%d): %v", in, err)
		}
		want := in
		if in&1 == 0 {
			want = in ^ 0b10
		}
		for i, a := range amps {
			mag := real(a)*real(a) + imag(a)*imag(a)
			if (i == want) != (mag > 0.5) {
				t.Errorf("input %#b: amplitude %d has |a|^2=%v, want peak only at %#b", in, i, mag, want)
			}
		}
	}
}

func TestBasisIdentityRemoved(t *testing.T) {
	tg := lineTarget(t, 1, "x")
	c := circuit.New(1, 0)
	c.MustAppend(gate.I(), []int{0}, nil)
	c.MustAppend(gate.X(), []int{0}, nil)
	d := dagFrom(t, c)
	pass := NewBasisTranslator(tg, equiv.StandardLibrary())
	if err := pass.Run(d, transpiler.NewPropertySet()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("DAG invalid after identity removal: %v", err)
	}
	counts := d.CountOps()
	if counts["id"] != 0 || counts["x"] != 1 {
		t.Errorf("counts after translation = %v, want only the x", counts)
	}
}

func TestBasisUntranslatable(t *testing.T) {
	tg := lineTarget(t, 2, "rz")
	c := circuit.New(2, 0)
	c.MustAppend(gate.CX(), []int{0, 1}, nil)
	d := dagFrom(t, c)
	pass := NewBasisTranslator(tg, equiv.StandardLibrary())
	err := pass.Run(d, transpiler.NewPropertySet())
	var bte *equiv.BasisTranslationError
	if !errors.As(err, &bte) {
		t.Fatalf("err = %v, want *equiv.BasisTranslationError", err)
	}
}
