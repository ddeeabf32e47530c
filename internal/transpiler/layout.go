package transpiler

import (
	"fmt"
	"strings"
)

// Layout is the bijection between virtual and physical qubit indices.
// Both directions always cover the full physical register: virtual
// indices at or beyond the circuit's qubit count are ancilla fillers,
// so the mapping is total at every point it is queried.
type Layout struct {
	v2p []int
	p2v []int
}

// TrivialLayout maps virtual qubit i to physical qubit i over n
// physical qubits.
func TrivialLayout(n int) *Layout {
	l := &Layout{v2p: make([]int, n), p2v: make([]int, n)}
	for i := 0; i < n; i++ {
		l.v2p[i] = i
		l.p2v[i] = i
	}
	return l
}

// NewLayout builds a layout from a virtual-to-physical table, failing
// unless the table is a permutation.
func NewLayout(v2p []int) (*Layout, error) {
	n := len(v2p)
	l := &Layout{v2p: append([]int(nil), v2p...), p2v: make([]int, n)}
	for i := range l.p2v {
		l.p2v[i] = -1
	}
	for v, p := range v2p {
		if p < 0 || p >= n {
			return nil, fmt.Errorf("layout: physical index %d out of range [0,%d)", p, n)
		}
		if l.p2v[p] != -1 {
			return nil, fmt.Errorf("layout: physical qubit %d assigned twice", p)
		}
		l.p2v[p] = v
	}
	return l, nil
}

// Len returns the number of qubit pairs in the bijection.
func (l *Layout) Len() int { return len(l.v2p) }

// Physical returns the physical qubit holding virtual qubit v.
func (l *Layout) Physical(v int) int { return l.v2p[v] }

// Virtual returns the virtual qubit held by physical qubit p.
func (l *Layout) Virtual(p int) int { return l.p2v[p] }

// SwapPhysical exchanges the virtual qubits held by two physical
// qubits; this is the only mutation routing performs.
func (l *Layout) SwapPhysical(a, b int) {
	va, vb := l.p2v[a], l.p2v[b]
	l.p2v[a], l.p2v[b] = vb, va
	l.v2p[va], l.v2p[vb] = b, a
}

// Copy returns an independent layout.
func (l *Layout) Copy() *Layout {
	return &Layout{
		v2p: append([]int(nil), l.v2p...),
		p2v: append([]int(nil), l.p2v...),
	}
}

// V2P returns a copy of the virtual-to-physical table.
func (l *Layout) V2P() []int {
	return append([]int(nil), l.v2p...)
}

// Validate checks that the mapping is still a total bijection.
func (l *Layout) Validate() error {
	if len(l.v2p) != len(l.p2v) {
		return fmt.Errorf("layout: table sizes differ (%d vs %d)", len(l.v2p), len(l.p2v))
	}
	for v, p := range l.v2p {
		if p < 0 || p >= len(l.p2v) {
			return fmt.Errorf("layout: virtual %d maps to out-of-range physical %d", v, p)
		}
		if l.p2v[p] != v {
			return fmt.Errorf("layout: virtual %d -> physical %d not mirrored (physical holds %d)", v, p, l.p2v[p])
		}
	}
	return nil
}

// Equal reports whether two layouts are the same bijection.
func (l *Layout) Equal(other *Layout) bool {
	if other == nil || len(l.v2p) != len(other.v2p) {
		return false
	}
	for v, p := range l.v2p {
		if other.v2p[v] != p {
			return false
		}
	}
	return true
}

func (l *Layout) String() string {
	var sb strings.Builder
	sb.WriteString("layout{")
	for v, p := range l.v2p {
		if v > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%d->%d", v, p)
	}
	sb.WriteString("}")
	return sb.String()
}
