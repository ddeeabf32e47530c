package passes

import (
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"qcc/internal/dag"
	"qcc/internal/gate"
	"qcc/internal/target"
	"qcc/internal/transpiler"
)

// RoutingConfig tunes the swap-insertion heuristic. The scoring formula
// and window size are deliberately configuration, validated against the
// routing-legality and determinism properties rather than against fixed
// numbers.
type RoutingConfig struct {
	// LookaheadWindow is how many upcoming two-qubit operations past
	// the frontier contribute to swap scores. Zero disables lookahead.
	LookaheadWindow int
	// LookaheadWeight scales the lookahead term against the frontier
	// term.
	LookaheadWeight float64
	// MaxSwaps caps total swap insertions; exceeding it is a hard
	// RoutingError.
	MaxSwaps int
	// Seed enables randomized tie-breaking among equal-best swaps when
	// non-negative. The seed is reported in the property store.
	Seed int64
}

// DefaultRoutingConfig returns the stock tuning.
func DefaultRoutingConfig() RoutingConfig {
	return RoutingConfig{
		LookaheadWindow: 20,
		LookaheadWeight: 0.5,
		MaxSwaps:        10000,
		Seed:            -1,
	}
}

// Router inserts swap operations so every two-qubit operation acts on
// coupling-adjacent physical qubits. It consumes the layout property,
// rewrites the DAG onto physical qubit indices, and writes the final
// layout. The algorithm is a greedy frontier heuristic with bounded
// lookahead; it trades optimality (NP-hard in general) for near-linear
// running time.
type Router struct {
	target *target.Target
	cfg    RoutingConfig
}

// NewRouter constructs the pass.
func NewRouter(t *target.Target, cfg RoutingConfig) *Router {
	def := DefaultRoutingConfig()
	if cfg.LookaheadWindow < 0 {
		cfg.LookaheadWindow = 0
	}
	if cfg.LookaheadWeight <= 0 {
		cfg.LookaheadWeight = def.LookaheadWeight
	}
	if cfg.MaxSwaps <= 0 {
		cfg.MaxSwaps = def.MaxSwaps
	}
	return &Router{target: t, cfg: cfg}
}

func (p *Router) Name() string          { return "lookahead-swap" }
func (p *Router) Kind() transpiler.Kind { return transpiler.Transformation }

func (p *Router) Run(d *dag.DAG, ps *transpiler.PropertySet) error {
	layout, err := ps.RequireLayout(transpiler.KeyLayout, p.Name())
	if err != nil {
		return err
	}
	if layout.Len() != p.target.NumQubits() {
		return fmt.Errorf("layout covers %d qubits, target has %d", layout.Len(), p.target.NumQubits())
	}
	layout = layout.Copy()

	var rng *rand.Rand
	if p.cfg.Seed >= 0 {
		rng = rand.New(rand.NewSource(p.cfg.Seed))
		ps.Set(transpiler.KeyRoutingSeed, p.cfg.Seed)
	}

	state, err := newRoutingState(d, p.target, layout)
	if err != nil {
		return err
	}
	out := dag.New(p.target.NumQubits(), d.Clbits())

	swaps := 0
	for state.remaining > 0 {
		if state.executeReady(out) {
			continue
		}
		best, err := p.chooseSwap(state, rng)
		if err != nil {
			return err
		}
		if _, err := out.AddOperation(gate.Swap(), []int{best[0], best[1]}, nil); err != nil {
			return fmt.Errorf("insert swap: %w", err)
		}
		layout.SwapPhysical(best[0], best[1])
		swaps++
		if swaps > p.cfg.MaxSwaps {
			return &RoutingError{Swaps: swaps, Limit: p.cfg.MaxSwaps}
		}
	}

	if err := layout.Validate(); err != nil {
		return fmt.Errorf("final layout corrupt: %w", err)
	}
	d.ReplaceWith(out)
	ps.Set(transpiler.KeyFinalLayout, layout)
	return nil
}

// routingState tracks frontier progress over the source DAG.
type routingState struct {
	src    *dag.DAG
	target *target.Target
	layout *transpiler.Layout

	order     []dag.NodeID
	indegree  map[dag.NodeID]int
	ready     []dag.NodeID
	executed  map[dag.NodeID]bool
	twoQubit  []dag.NodeID
	remaining int
}

func newRoutingState(d *dag.DAG, t *target.Target, layout *transpiler.Layout) (*routingState, error) {
	s := &routingState{
		src:      d,
		target:   t,
		layout:   layout,
		order:    d.TopologicalOrder(),
		indegree: make(map[dag.NodeID]int),
		executed: make(map[dag.NodeID]bool),
	}
	s.remaining = len(s.order)
	for _, id := range s.order {
		n := d.Node(id)
		if len(n.Op.Qubits) > 2 && !n.Op.Gate.IsDirective() {
			return nil, fmt.Errorf("routing requires operations on at most 2 qubits, found %s on %d", n.Op.Gate.Name, len(n.Op.Qubits))
		}
		s.indegree[id] = len(d.OpPredecessors(id))
		if s.indegree[id] == 0 {
			s.ready = append(s.ready, id)
		}
		if len(n.Op.Qubits) == 2 && !n.Op.Gate.IsDirective() {
			s.twoQubit = append(s.twoQubit, id)
		}
	}
	sortNodeIDs(s.ready)
	return s, nil
}

// executeReady drains every currently executable frontier operation
// into the physical DAG. It reports whether anything executed.
func (s *routingState) executeReady(out *dag.DAG) bool {
	progress := false
	for {
		advanced := false
		for i := 0; i < len(s.ready); i++ {
			id := s.ready[i]
			if !s.executable(id) {
				continue
			}
			s.emit(out, id)
			s.ready = append(s.ready[:i], s.ready[i+1:]...)
			i--
			for _, succ := range s.src.OpSuccessors(id) {
				s.indegree[succ]--
				if s.indegree[succ] == 0 {
					s.ready = insertSorted(s.ready, succ)
				}
			}
			advanced = true
			progress = true
		}
		if !advanced {
			return progress
		}
	}
}

func (s *routingState) executable(id dag.NodeID) bool {
	n := s.src.Node(id)
	if n.Op.Gate.IsDirective() || len(n.Op.Qubits) != 2 {
		return true
	}
	a := s.layout.Physical(n.Op.Qubits[0])
	b := s.layout.Physical(n.Op.Qubits[1])
	return s.target.Adjacent(a, b)
}

func (s *routingState) emit(out *dag.DAG, id dag.NodeID) {
	n := s.src.Node(id)
	phys := make([]int, len(n.Op.Qubits))
	for i, q := range n.Op.Qubits {
		phys[i] = s.layout.Physical(q)
	}
	if _, err := out.AddOperation(n.Op.Gate, phys, n.Op.Clbits); err != nil {
		// The source DAG was validated; a failure here is a
		// programming error, not an input error.
		panic(fmt.Sprintf("routing emit: %v", err))
	}
	s.executed[id] = true
	s.remaining--
}

// blockedPairs returns the virtual qubit pairs of frontier two-qubit
// operations that are not yet adjacent.
func (s *routingState) blockedPairs() [][2]int {
	var pairs [][2]int
	for _, id := range s.ready {
		n := s.src.Node(id)
		if len(n.Op.Qubits) != 2 || n.Op.Gate.IsDirective() {
			continue
		}
		pairs = append(pairs, [2]int{n.Op.Qubits[0], n.Op.Qubits[1]})
	}
	return pairs
}

// lookaheadPairs returns the next window of not-yet-executed two-qubit
// operations beyond the frontier.
func (s *routingState) lookaheadPairs(window int) [][2]int {
	if window <= 0 {
		return nil
	}
	inFrontier := make(map[dag.NodeID]bool, len(s.ready))
	for _, id := range s.ready {
		inFrontier[id] = true
	}
	var pairs [][2]int
	for _, id := range s.twoQubit {
		if len(pairs) >= window {
			break
		}
		if s.executed[id] || inFrontier[id] {
			continue
		}
		n := s.src.Node(id)
		pairs = append(pairs, [2]int{n.Op.Qubits[0], n.Op.Qubits[1]})
	}
	return pairs
}

// chooseSwap scores every candidate swap on coupling edges touching a
// blocked operation's qubits and returns the best. Candidates are
// scored concurrently; the reduction takes the minimum score with the
// lowest edge as tie-break, so the result is independent of goroutine
// scheduling.
func (p *Router) chooseSwap(s *routingState, rng *rand.Rand) ([2]int, error) {
	blocked := s.blockedPairs()
	if len(blocked) == 0 {
		return [2]int{}, &RoutingError{Swaps: 0, Limit: p.cfg.MaxSwaps, Reason: "frontier stalled with no blocked two-qubit operation"}
	}
	for _, pr := range blocked {
		a := s.layout.Physical(pr[0])
		b := s.layout.Physical(pr[1])
		if s.target.Distance(a, b) < 0 {
			return [2]int{}, &RoutingError{Swaps: 0, Limit: p.cfg.MaxSwaps,
				Reason: fmt.Sprintf("physical qubits %d and %d are disconnected in the coupling graph", a, b)}
		}
	}
	lookahead := s.lookaheadPairs(p.cfg.LookaheadWindow)
	candidates := p.candidateSwaps(s, blocked)
	if len(candidates) == 0 {
		return [2]int{}, &RoutingError{Swaps: 0, Limit: p.cfg.MaxSwaps, Reason: "no candidate swaps on the coupling graph"}
	}

	scores := make([]float64, len(candidates))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, cand := range candidates {
		i, cand := i, cand
		g.Go(func() error {
			scores[i] = p.scoreSwap(s, cand, blocked, lookahead)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return [2]int{}, err
	}

	bestIdx := 0
	for i := 1; i < len(candidates); i++ {
		if scores[i] < scores[bestIdx] {
			bestIdx = i
		}
	}
	if rng != nil {
		var ties []int
		for i := range candidates {
			if scores[i] == scores[bestIdx] {
				ties = append(ties, i)
			}
		}
		bestIdx = ties[rng.Intn(len(ties))]
	}
	return candidates[bestIdx], nil
}

// candidateSwaps lists coupling edges incident to any blocked
// operation's physical qubits, in the target's deterministic edge
// order.
func (p *Router) candidateSwaps(s *routingState, blocked [][2]int) [][2]int {
	involved := make(map[int]bool, 2*len(blocked))
	for _, pr := range blocked {
		involved[s.layout.Physical(pr[0])] = true
		involved[s.layout.Physical(pr[1])] = true
	}
	var out [][2]int
	for _, e := range p.target.Edges() {
		if involved[e[0]] || involved[e[1]] {
			out = append(out, e)
		}
	}
	return out
}

// scoreSwap evaluates a candidate as the summed post-swap coupling
// distance over blocked frontier pairs plus a weighted lookahead term.
// Lower is better.
func (p *Router) scoreSwap(s *routingState, cand [2]int, blocked, lookahead [][2]int) float64 {
	phys := func(v int) int {
		q := s.layout.Physical(v)
		switch q {
		case cand[0]:
			return cand[1]
		case cand[1]:
			return cand[0]
		}
		return q
	}
	score := 0.0
	for _, pr := range blocked {
		score += float64(p.target.Distance(phys(pr[0]), phys(pr[1])))
	}
	if len(lookahead) > 0 {
		la := 0.0
		for _, pr := range lookahead {
			la += float64(p.target.Distance(phys(pr[0]), phys(pr[1])))
		}
		score += p.cfg.LookaheadWeight * la / float64(len(lookahead))
	}
	return score
}

func insertSorted(ids []dag.NodeID, id dag.NodeID) []dag.NodeID {
	pos := len(ids)
	for i, v := range ids {
		if id < v {
			pos = i
			break
		}
	}
	ids = append(ids, 0)
	copy(ids[pos+1:], ids[pos:])
	ids[pos] = id
	return ids
}

func sortNodeIDs(ids []dag.NodeID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
}
