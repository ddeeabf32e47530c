package passes

import (
	"reflect"

	"qcc/internal/dag"
	"qcc/internal/target"
	"qcc/internal/transpiler"
)

// Depth writes the circuit depth.
type Depth struct{}

func (Depth) Name() string          { return "depth" }
func (Depth) Kind() transpiler.Kind { return transpiler.Analysis }

func (Depth) Run(d *dag.DAG, ps *transpiler.PropertySet) error {
	ps.Set(transpiler.KeyDepth, d.Depth())
	return nil
}

// Size writes the operation count.
type Size struct{}

func (Size) Name() string          { return "size" }
func (Size) Kind() transpiler.Kind { return transpiler.Analysis }

func (Size) Run(d *dag.DAG, ps *transpiler.PropertySet) error {
	ps.Set(transpiler.KeySize, d.Size())
	return nil
}

// CountOps writes the per-gate-name operation tally.
type CountOps struct{}

func (CountOps) Name() string          { return "count-ops" }
func (CountOps) Kind() transpiler.Kind { return transpiler.Analysis }

func (CountOps) Run(d *dag.DAG, ps *transpiler.PropertySet) error {
	ps.Set(transpiler.KeyCountOps, d.CountOps())
	return nil
}

// FixedPoint checks whether a named property stopped changing between
// consecutive runs and records the answer under
// "fixed_point.<property>". Do-while optimization loops terminate on
// that flag.
type FixedPoint struct {
	Property string

	previous any
	seen     bool
}

// NewFixedPoint constructs the pass for one property.
func NewFixedPoint(property string) *FixedPoint {
	return &FixedPoint{Property: property}
}

func (p *FixedPoint) Name() string          { return "fixed-point(" + p.Property + ")" }
func (p *FixedPoint) Kind() transpiler.Kind { return transpiler.Analysis }

func (p *FixedPoint) Run(d *dag.DAG, ps *transpiler.PropertySet) error {
	current, err := ps.Require(p.Property, p.Name())
	if err != nil {
		return err
	}
	key := transpiler.KeyFixedPointPrefix + p.Property
	if p.seen {
		ps.Set(key, reflect.DeepEqual(p.previous, current))
	} else {
		ps.Set(key, false)
	}
	p.previous = current
	p.seen = true
	return nil
}

// CheckMap verifies that every two-qubit operation acts on
// coupling-adjacent qubits, interpreting operand indices as physical,
// and writes the boolean "is_swap_mapped".
type CheckMap struct {
	target *target.Target
}

// NewCheckMap constructs the pass.
func NewCheckMap(t *target.Target) *CheckMap {
	return &CheckMap{target: t}
}

func (p *CheckMap) Name() string          { return "check-map" }
func (p *CheckMap) Kind() transpiler.Kind { return transpiler.Analysis }

func (p *CheckMap) Run(d *dag.DAG, ps *transpiler.PropertySet) error {
	mapped := true
	for _, id := range d.TwoQubitOps() {
		qs := d.Node(id).Op.Qubits
		if !p.target.Adjacent(qs[0], qs[1]) {
			mapped = false
			break
		}
	}
	ps.Set(transpiler.KeyIsSwapMapped, mapped)
	return nil
}

// LayoutScore sums the coupling distance in excess of adjacency over
// all two-qubit operations under the current layout: zero means the
// layout needs no routing at all.
type LayoutScore struct {
	target *target.Target
}

// NewLayoutScore constructs the pass.
func NewLayoutScore(t *target.Target) *LayoutScore {
	return &LayoutScore{target: t}
}

func (p *LayoutScore) Name() string          { return "layout-score" }
func (p *LayoutScore) Kind() transpiler.Kind { return transpiler.Analysis }

func (p *LayoutScore) Run(d *dag.DAG, ps *transpiler.PropertySet) error {
	layout, err := ps.RequireLayout(transpiler.KeyLayout, p.Name())
	if err != nil {
		return err
	}
	score := 0
	for _, id := range d.TwoQubitOps() {
		qs := d.Node(id).Op.Qubits
		dist := p.target.Distance(layout.Physical(qs[0]), layout.Physical(qs[1]))
		if dist > 1 {
			score += dist - 1
		}
	}
	ps.Set(transpiler.KeyLayoutScore, score)
	return nil
}
