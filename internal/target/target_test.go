package target

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func linear(t *testing.T, n int, basis ...string) *Target {
	t.Helper()
	var couplings [][2]int
	for i := 0; i+1 < n; i++ {
		couplings = append(couplings, [2]int{i, i + 1})
	}
	tg, err := New(n, couplings, basis)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return tg
}

func TestAdjacencyAndDistance(t *testing.T) {
	tg := linear(t, 3)
	if !tg.Adjacent(0, 1) || !tg.Adjacent(1, 0) {
		t.Error("coupling 0-1 not symmetric-adjacent")
	}
	if tg.Adjacent(0, 2) {
		t.Error("0 and 2 are not coupled")
	}
	if tg.Adjacent(1, 1) {
		t.Error("a qubit is not adjacent to itself")
	}
	for _, tt := range []struct{ a, b, want int }{
		{0, 0, 0}, {0, 1, 1}, {0, 2, 2}, {2, 0, 2},
	} {
		if got := tg.Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("Distance(%d,%d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
	if !tg.Connected() {
		t.Error("linear graph reports disconnected")
	}
}

func TestDisconnectedGraph(t *testing.T) {
	tg, err := New(4, [][2]int{{0, 1}, {2, 3}}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tg.Connected() {
		t.Error("two components report connected")
	}
	if got := tg.Distance(0, 2); got != -1 {
		t.Errorf("Distance across components = %d, want -1", got)
	}
}

func TestNeighborsAndEdges(t *testing.T) {
	tg := linear(t, 4)
	if diff := cmp.Diff([]int{0, 2}, tg.Neighbors(1)); diff != "" {
		t.Errorf("Neighbors(1) mismatch (-want +got):\n%s", diff)
	}
	want := [][2]int{{0, 1}, {1, 2}, {2, 3}}
	if diff := cmp.Diff(want, tg.Edges()); diff != "" {
		t.Errorf("Edges mismatch (-want +got):\n%s", diff)
	}
	if tg.Degree(0) != 1 || tg.Degree(1) != 2 {
		t.Errorf("degrees = (%d, %d), want (1, 2)", tg.Degree(0), tg.Degree(1))
	}
}

func TestBasisMembership(t *testing.T) {
	tg := linear(t, 2, "rz", "sx", "cx")
	for _, name := range []string{"rz", "sx", "cx", "barrier", "measure"} {
		if !tg.InBasis(name) {
			t.Errorf("InBasis(%q) = false, want true", name)
		}
	}
	if tg.InBasis("h") {
		t.Error("InBasis(h) = true, want false")
	}
	// The returned set is a copy; mutating it must not leak back.
	b := tg.Basis()
	b.Add("h")
	if tg.InBasis("h") {
		t.Error("mutating the returned basis changed the target")
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(0, nil, nil); err == nil {
		t.Error("zero qubits: want error")
	}
	if _, err := New(2, [][2]int{{0, 5}}, nil); err == nil {
		t.Error("out-of-range coupling: want error")
	}
	if _, err := New(2, [][2]int{{1, 1}}, nil); err == nil {
		t.Error("self-loop coupling: want error")
	}
}

func TestParseYAML(t *testing.T) {
	const src = `
num_qubits: 3
coupling:
  - [0, 1]
  - [1, 2]
basis: [rz, sx, cx]
costs:
  cx:
    error: 0.01
    duration: 300
`
	tg, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tg.NumQubits() != 3 || !tg.Adjacent(0, 1) || !tg.InBasis("sx") {
		t.Error("parsed target does not match description")
	}
	c, ok := tg.Cost("cx")
	if !ok || c.Error != 0.01 || c.Duration != 300 {
		t.Errorf("Cost(cx) = (%+v, %v), want error 0.01 duration 300", c, ok)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte("num_qubits: 2\ncoupling:\n  - [0, 1, 2]\n")); err == nil {
		t.Error("three-entry coupling: want error")
	}
	if _, err := Parse([]byte(":\n-")); err == nil {
		t.Error("malformed yaml: want error")
	}
}
