// Package target describes the hardware a circuit is compiled for: the
// physical qubit count, the coupling graph, the native basis
// vocabulary, and optional per-gate cost figures.
package target

import (
	"fmt"
	"math"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// GateCost carries the optional per-gate calibration figures used for
// cost-aware scoring.
type GateCost struct {
	Error    float64
	Duration float64
}

// Target is immutable once built; pipeline runs share it freely.
type Target struct {
	numQubits int
	graph     *simple.UndirectedGraph
	dist      path.AllShortest
	connected bool
	basis     mapset.Set[string]
	costs     map[string]GateCost

	// Directed records that the provider distinguishes edge
	// direction. Routing treats couplings symmetrically either way;
	// direction fixup is a provider concern.
	Directed bool
}

// New builds a target over numQubits physical qubits with the given
// undirected coupling edges and native basis gate names.
func New(numQubits int, couplings [][2]int, basis []string) (*Target, error) {
	if numQubits <= 0 {
		return nil, fmt.Errorf("target needs at least one physical qubit, got %d", numQubits)
	}
	g := simple.NewUndirectedGraph()
	for i := 0; i < numQubits; i++ {
		g.AddNode(simple.Node(i))
	}
	for _, c := range couplings {
		a, b := c[0], c[1]
		if a < 0 || a >= numQubits || b < 0 || b >= numQubits {
			return nil, fmt.Errorf("coupling [%d %d] out of range [0,%d)", a, b, numQubits)
		}
		if a == b {
			return nil, fmt.Errorf("coupling [%d %d] is a self-loop", a, b)
		}
		g.SetEdge(simple.Edge{F: simple.Node(a), T: simple.Node(b)})
	}
	dist, _ := path.FloydWarshall(g)
	connected := true
	for i := 1; i < numQubits; i++ {
		if math.IsInf(dist.Weight(0, int64(i)), 1) {
			connected = false
			break
		}
	}
	t := &Target{
		numQubits: numQubits,
		graph:     g,
		dist:      dist,
		connected: connected,
		basis:     mapset.NewSet[string](),
		costs:     make(map[string]GateCost),
	}
	for _, name := range basis {
		t.basis.Add(name)
	}
	return t, nil
}

// NumQubits returns the physical qubit count.
func (t *Target) NumQubits() int { return t.numQubits }

// Adjacent reports whether a two-qubit operation is natively executable
// between physical qubits a and b.
func (t *Target) Adjacent(a, b int) bool {
	if a == b {
		return false
	}
	return t.graph.HasEdgeBetween(int64(a), int64(b))
}

// Distance returns the coupling-graph distance between physical qubits,
// or -1 when they are disconnected.
func (t *Target) Distance(a, b int) int {
	if a == b {
		return 0
	}
	w := t.dist.Weight(int64(a), int64(b))
	if math.IsInf(w, 1) {
		return -1
	}
	return int(w)
}

// Degree returns the coupling degree of a physical qubit.
func (t *Target) Degree(p int) int {
	return t.graph.From(int64(p)).Len()
}

// Neighbors returns the physical qubits coupled to p, ascending.
func (t *Target) Neighbors(p int) []int {
	it := t.graph.From(int64(p))
	var out []int
	for it.Next() {
		out = append(out, int(it.Node().ID()))
	}
	sort.Ints(out)
	return out
}

// Edges returns every coupling as an ordered pair (low, high), sorted.
// Routing iterates this for candidate swaps, so the order is part of
// the deterministic-output contract.
func (t *Target) Edges() [][2]int {
	var out [][2]int
	it := t.graph.Edges()
	for it.Next() {
		e := it.Edge()
		a, b := int(e.From().ID()), int(e.To().ID())
		if a > b {
			a, b = b, a
		}
		out = append(out, [2]int{a, b})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// InBasis reports whether a gate name is native vocabulary. Barriers
// and measurements are always accepted.
func (t *Target) InBasis(name string) bool {
	if name == "barrier" || name == "measure" {
		return true
	}
	return t.basis.ContainsOne(name)
}

// Basis returns a copy of the vocabulary set.
func (t *Target) Basis() mapset.Set[string] {
	return t.basis.Clone()
}

// SetCost records calibration figures for a gate name.
func (t *Target) SetCost(name string, c GateCost) {
	t.costs[name] = c
}

// Cost returns recorded calibration figures for a gate name.
func (t *Target) Cost(name string) (GateCost, bool) {
	c, ok := t.costs[name]
	return c, ok
}

// Connected reports whether the coupling graph is a single component.
func (t *Target) Connected() bool { return t.connected }
