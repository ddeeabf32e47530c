package passes

import (
	"math/rand"
	"sort"

	"qcc/internal/dag"
	"qcc/internal/target"
	"qcc/internal/transpiler"
)

// TrivialLayout assigns virtual qubit i to physical qubit i.
type TrivialLayout struct {
	target *target.Target
}

// NewTrivialLayout constructs the pass.
func NewTrivialLayout(t *target.Target) *TrivialLayout {
	return &TrivialLayout{target: t}
}

func (p *TrivialLayout) Name() string          { return "trivial-layout" }
func (p *TrivialLayout) Kind() transpiler.Kind { return transpiler.Analysis }

func (p *TrivialLayout) Run(d *dag.DAG, ps *transpiler.PropertySet) error {
	if d.Qubits() > p.target.NumQubits() {
		return &InsufficientQubitsError{Virtual: d.Qubits(), Physical: p.target.NumQubits()}
	}
	ps.Set(transpiler.KeyLayout, transpiler.TrivialLayout(p.target.NumQubits()))
	return nil
}

// DenseLayout selects a well-connected subset of physical qubits by
// greedily maximizing coupling degree into the chosen subset, then
// assigns the most-interacting virtual qubits to the best-connected
// members. Physical qubits left over hold ancilla fillers so the
// layout stays a total bijection.
type DenseLayout struct {
	target *target.Target
}

// NewDenseLayout constructs the pass.
func NewDenseLayout(t *target.Target) *DenseLayout {
	return &DenseLayout{target: t}
}

func (p *DenseLayout) Name() string          { return "dense-layout" }
func (p *DenseLayout) Kind() transpiler.Kind { return transpiler.Analysis }

func (p *DenseLayout) Run(d *dag.DAG, ps *transpiler.PropertySet) error {
	t := p.target
	n := d.Qubits()
	if n > t.NumQubits() {
		return &InsufficientQubitsError{Virtual: n, Physical: t.NumQubits()}
	}
	chosen := densestSubset(t, n)

	// Rank chosen physicals by connectivity inside the subset.
	inSubset := make(map[int]bool, n)
	for _, p := range chosen {
		inSubset[p] = true
	}
	innerDegree := func(q int) int {
		deg := 0
		for _, nb := range t.Neighbors(q) {
			if inSubset[nb] {
				deg++
			}
		}
		return deg
	}
	sort.SliceStable(chosen, func(i, j int) bool {
		di, dj := innerDegree(chosen[i]), innerDegree(chosen[j])
		if di != dj {
			return di > dj
		}
		return chosen[i] < chosen[j]
	})

	// Rank virtual qubits by how often they appear in two-qubit ops.
	interactions := make([]int, n)
	for _, id := range d.TwoQubitOps() {
		for _, q := range d.Node(id).Op.Qubits {
			interactions[q]++
		}
	}
	virtuals := make([]int, n)
	for i := range virtuals {
		virtuals[i] = i
	}
	sort.SliceStable(virtuals, func(i, j int) bool {
		if interactions[virtuals[i]] != interactions[virtuals[j]] {
			return interactions[virtuals[i]] > interactions[virtuals[j]]
		}
		return virtuals[i] < virtuals[j]
	})

	v2p := make([]int, t.NumQubits())
	for i := range v2p {
		v2p[i] = -1
	}
	for i, v := range virtuals {
		v2p[v] = chosen[i]
	}
	fillAncillas(v2p, t.NumQubits())
	layout, err := transpiler.NewLayout(v2p)
	if err != nil {
		return err
	}
	ps.Set(transpiler.KeyLayout, layout)
	return nil
}

// densestSubset grows a subset of the requested size from the
// highest-degree qubit, always adding the candidate with the most
// couplings into the subset. Ties break to the lower index so the
// result is reproducible.
func densestSubset(t *target.Target, size int) []int {
	start, bestDeg := 0, -1
	for q := 0; q < t.NumQubits(); q++ {
		if deg := t.Degree(q); deg > bestDeg {
			start, bestDeg = q, deg
		}
	}
	chosen := []int{start}
	inSubset := map[int]bool{start: true}
	for len(chosen) < size {
		best, bestScore, bestTotal := -1, -1, -1
		for q := 0; q < t.NumQubits(); q++ {
			if inSubset[q] {
				continue
			}
			score := 0
			for _, nb := range t.Neighbors(q) {
				if inSubset[nb] {
					score++
				}
			}
			total := t.Degree(q)
			if score > bestScore || (score == bestScore && total > bestTotal) {
				best, bestScore, bestTotal = q, score, total
			}
		}
		chosen = append(chosen, best)
		inSubset[best] = true
	}
	return chosen
}

func fillAncillas(v2p []int, numPhysical int) {
	used := make([]bool, numPhysical)
	for _, p := range v2p {
		if p >= 0 {
			used[p] = true
		}
	}
	next := 0
	for v := range v2p {
		if v2p[v] != -1 {
			continue
		}
		for used[next] {
			next++
		}
		v2p[v] = next
		used[next] = true
	}
}

// SearchLayoutConfig tunes the local-search layout pass.
type SearchLayoutConfig struct {
	// MaxSweeps bounds full improvement sweeps over physical pairs.
	MaxSweeps int
	// Seed shuffles the sweep order when non-negative; the default
	// (-1) keeps the systematic deterministic order.
	Seed int64
}

// DefaultSearchLayoutConfig returns the stock tuning.
func DefaultSearchLayoutConfig() SearchLayoutConfig {
	return SearchLayoutConfig{MaxSweeps: 16, Seed: -1}
}

// SearchLayout refines a dense starting assignment by local search:
// it repeatedly applies the first physical-pair swap that lowers the
// total coupling distance of the circuit's two-qubit operations,
// until a sweep finds no improving move or the sweep bound is hit.
type SearchLayout struct {
	target *target.Target
	cfg    SearchLayoutConfig
}

// NewSearchLayout constructs the pass.
func NewSearchLayout(t *target.Target, cfg SearchLayoutConfig) *SearchLayout {
	if cfg.MaxSweeps <= 0 {
		cfg.MaxSweeps = DefaultSearchLayoutConfig().MaxSweeps
	}
	return &SearchLayout{target: t, cfg: cfg}
}

func (p *SearchLayout) Name() string          { return "search-layout" }
func (p *SearchLayout) Kind() transpiler.Kind { return transpiler.Analysis }

func (p *SearchLayout) Run(d *dag.DAG, ps *transpiler.PropertySet) error {
	seed := NewDenseLayout(p.target)
	if err := seed.Run(d, ps); err != nil {
		return err
	}
	layout, err := ps.RequireLayout(transpiler.KeyLayout, p.Name())
	if err != nil {
		return err
	}
	layout = layout.Copy()

	pairs := p.collectPairs(d)
	score := func(l *transpiler.Layout) int {
		total := 0
		for _, pr := range pairs {
			total += p.target.Distance(l.Physical(pr[0]), l.Physical(pr[1]))
		}
		return total
	}

	physPairs := allPhysicalPairs(p.target.NumQubits())
	var rng *rand.Rand
	if p.cfg.Seed >= 0 {
		rng = rand.New(rand.NewSource(p.cfg.Seed))
	}
	current := score(layout)
	for sweep := 0; sweep < p.cfg.MaxSweeps; sweep++ {
		if rng != nil {
			rng.Shuffle(len(physPairs), func(i, j int) {
				physPairs[i], physPairs[j] = physPairs[j], physPairs[i]
			})
		}
		improved := false
		for _, pp := range physPairs {
			layout.SwapPhysical(pp[0], pp[1])
			if next := score(layout); next < current {
				current = next
				improved = true
			} else {
				layout.SwapPhysical(pp[0], pp[1])
			}
		}
		if !improved {
			break
		}
	}
	ps.Set(transpiler.KeyLayout, layout)
	return nil
}

func (p *SearchLayout) collectPairs(d *dag.DAG) [][2]int {
	var pairs [][2]int
	for _, id := range d.TwoQubitOps() {
		qs := d.Node(id).Op.Qubits
		pairs = append(pairs, [2]int{qs[0], qs[1]})
	}
	return pairs
}

func allPhysicalPairs(n int) [][2]int {
	var out [][2]int
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			out = append(out, [2]int{a, b})
		}
	}
	return out
}
