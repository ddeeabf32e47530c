package circuit

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"qcc/internal/gate"
)

func TestAppendArityChecked(t *testing.T) {
	c := New(3, 1)
	err := c.Append(gate.CX(), []int{0}, nil)
	var arity *ArityError
	if !errors.As(err, &arity) {
		t.Fatalf("Append with one operand: err = %v, want *ArityError", err)
	}
	if arity.WantQubits != 2 || arity.GotQubits != 1 {
		t.Errorf("ArityError = %+v, want 2 qubits got 1", arity)
	}
	if err := c.Append(gate.Measure(), []int{0}, nil); err == nil {
		t.Error("measure without clbit operand: want error")
	}
}

func TestAppendOperandValidation(t *testing.T) {
	c := New(2, 0)
	if err := c.Append(gate.H(), []int{2}, nil); err == nil {
		t.Error("out-of-range operand: want error")
	}
	if err := c.Append(gate.CX(), []int{1, 1}, nil); err == nil {
		t.Error("duplicate operand: want error")
	}
	if c.Size() != 0 {
		t.Errorf("failed appends left %d instructions", c.Size())
	}
}

func TestTwoQubitCount(t *testing.T) {
	c := New(3, 0)
	c.MustAppend(gate.H(), []int{0}, nil)
	c.MustAppend(gate.CX(), []int{0, 1}, nil)
	c.MustAppend(gate.Swap(), []int{1, 2}, nil)
	c.MustAppend(gate.Barrier(2), []int{0, 1}, nil)
	if got := c.TwoQubitCount(); got != 2 {
		t.Errorf("TwoQubitCount = %d, want 2 (barrier excluded)", got)
	}
}

func TestParseYAML(t *testing.T) {
	const src = `
qubits: 3
clbits: 1
ops:
  - name: h
    qubits: [0]
  - name: rz
    qubits: [1]
    params: [1.5]
  - name: cx
    qubits: [0, 2]
  - name: x
    qubits: [0, 1, 2]
    controls: 2
    ctrl_state: 1
  - name: barrier
    qubits: [0, 1, 2]
  - name: measure
    qubits: [2]
    clbits: [0]
`
	c, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Qubits != 3 || c.Clbits != 1 {
		t.Fatalf("registers = (%d, %d), want (3, 1)", c.Qubits, c.Clbits)
	}
	var names []string
	for _, inst := range c.Instructions {
		names = append(names, inst.Gate.Name)
	}
	want := []string{"h", "rz", "cx", "ccx", "barrier", "measure"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("gate names mismatch (-want +got):\n%s", diff)
	}
	ccx := c.Instructions[3].Gate
	if ccx.Controls != 2 || ccx.CtrlState != 1 {
		t.Errorf("controlled op = %d controls state %d, want 2 controls state 1", ccx.Controls, ccx.CtrlState)
	}
}

func TestParseDefaultsToClosedControls(t *testing.T) {
	const src = `
qubits: 2
ops:
  - name: x
    qubits: [0, 1]
    controls: 1
`
	c, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	g := c.Instructions[0].Gate
	if g.CtrlState != gate.AllOnes(1) {
		t.Errorf("CtrlState = %d, want all-ones default", g.CtrlState)
	}
}

func TestParseErrors(t *testing.T) {
	for _, tt := range []struct{ name, src string }{
		{"unknown gate", "qubits: 1\nops:\n  - name: bogus\n    qubits: [0]\n"},
		{"bad arity", "qubits: 2\nops:\n  - name: cx\n    qubits: [0]\n"},
		{"out of range", "qubits: 1\nops:\n  - name: h\n    qubits: [4]\n"},
		{"not yaml", ":\n-"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.src)); err == nil {
				t.Error("want error")
			}
		})
	}
}

func TestDump(t *testing.T) {
	c := New(2, 0)
	c.MustAppend(gate.RZ(0.5), []int{0}, nil)
	c.MustAppend(gate.CX(), []int{0, 1}, nil)
	var sb strings.Builder
	c.Dump(&sb)
	out := sb.String()
	for _, want := range []string{"circuit qubits=2", "rz(0.5) q[0]", "cx q[0 1]"} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump output missing %q:\n%s", want, out)
		}
	}
}
