// Package equiv holds the equivalence library: decomposition rules
// keyed by gate name and arity, and the search that plans a rewrite of
// any descriptor into a target vocabulary.
package equiv

import (
	"fmt"
	"math"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"qcc/internal/circuit"
	"qcc/internal/gate"
)

// Rule is one parameterized decomposition: the source descriptor
// expressed as a fixed sequence of other descriptors. Expand maps the
// source's parameters onto the sequence; operand indices are local
// (0..arity-1). Cost must be positive; it is the search's edge weight.
type Rule struct {
	Source gate.Key
	Params int
	Cost   float64
	Expand func(params []float64) []circuit.Instruction

	produces []gate.Key
}

// Library is a set of rules indexed by source key.
type Library struct {
	rules map[gate.Key][]Rule
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{rules: make(map[gate.Key][]Rule)}
}

// Add registers a rule. The expansion's gate keys are recorded once,
// with zeroed parameters, since keys are parameter-agnostic.
func (l *Library) Add(r Rule) error {
	if r.Expand == nil {
		return fmt.Errorf("rule for %s has no expansion", r.Source)
	}
	if r.Cost <= 0 {
		return fmt.Errorf("rule for %s has non-positive cost %v", r.Source, r.Cost)
	}
	sample := r.Expand(make([]float64, r.Params))
	seen := make(map[gate.Key]struct{})
	for _, inst := range sample {
		k := inst.Gate.Key()
		if k == r.Source {
			return fmt.Errorf("rule for %s expands to itself", r.Source)
		}
		if _, dup := seen[k]; !dup {
			seen[k] = struct{}{}
			r.produces = append(r.produces, k)
		}
	}
	sort.Slice(r.produces, func(i, j int) bool {
		if r.produces[i].Name != r.produces[j].Name {
			return r.produces[i].Name < r.produces[j].Name
		}
		return r.produces[i].Qubits < r.produces[j].Qubits
	})
	l.rules[r.Source] = append(l.rules[r.Source], r)
	return nil
}

// Rules returns the registered rules for a key.
func (l *Library) Rules(k gate.Key) []Rule {
	return l.rules[k]
}

// Plan is the result of the equivalence search against one vocabulary:
// for every reachable key, the cheapest rule taking it toward the
// vocabulary. Plans are immutable and reusable across operations.
type Plan struct {
	lib    *Library
	basis  mapset.Set[string]
	choice map[gate.Key]int
	cost   map[gate.Key]float64
}

// PlanFor runs the search. Costs satisfy the shortest-path recurrence
// cost(key) = min over rules of rule.Cost + sum cost(produced keys),
// with vocabulary members at cost zero; the recurrence is relaxed to a
// fixed point Bellman-Ford style, which handles expansion into several
// gates (a hyper-edge) that plain BFS cannot.
func (l *Library) PlanFor(basis mapset.Set[string]) *Plan {
	p := &Plan{
		lib:    l,
		basis:  basis.Clone(),
		choice: make(map[gate.Key]int),
		cost:   make(map[gate.Key]float64),
	}
	keyCost := func(k gate.Key) float64 {
		if basis.ContainsOne(k.Name) {
			return 0
		}
		if c, ok := p.cost[k]; ok {
			return c
		}
		return math.Inf(1)
	}
	for iter := 0; iter <= len(l.rules); iter++ {
		changed := false
		for src, rules := range l.rules {
			for i, r := range rules {
				total := r.Cost
				for _, k := range r.produces {
					total += keyCost(k)
				}
				if total < keyCost(src) {
					p.cost[src] = total
					p.choice[src] = i
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return p
}

// Translate rewrites one descriptor into vocabulary-only instructions
// over local operand indices. Descriptors already in the vocabulary
// pass through unchanged; untranslatable descriptors fail with
// *BasisTranslationError. Open-control descriptors are rejected: the
// rules assume all-ones control state, so callers must close the
// controls by conjugation first.
func (p *Plan) Translate(g gate.Gate) ([]circuit.Instruction, error) {
	if g.HasOpenControls() {
		return nil, fmt.Errorf("gate %s has open controls; close them before translation", g.Name)
	}
	if g.IsDirective() || p.basis.ContainsOne(g.Name) {
		return []circuit.Instruction{identityInstruction(g)}, nil
	}
	key := g.Key()
	idx, ok := p.choice[key]
	if !ok {
		return nil, &BasisTranslationError{Gate: g.Name, Qubits: g.Qubits}
	}
	rule := p.lib.rules[key][idx]
	var out []circuit.Instruction
	for _, inst := range rule.Expand(g.Params) {
		sub, err := p.Translate(inst.Gate)
		if err != nil {
			return nil, err
		}
		for _, s := range sub {
			mapped := circuit.Instruction{
				Gate:   s.Gate,
				Qubits: make([]int, len(s.Qubits)),
				Clbits: make([]int, len(s.Clbits)),
			}
			for i, q := range s.Qubits {
				mapped.Qubits[i] = inst.Qubits[q]
			}
			for i, c := range s.Clbits {
				mapped.Clbits[i] = inst.Clbits[c]
			}
			out = append(out, mapped)
		}
	}
	return out, nil
}

// Translatable reports whether a key can reach the vocabulary.
func (p *Plan) Translatable(k gate.Key) bool {
	if p.basis.ContainsOne(k.Name) {
		return true
	}
	_, ok := p.choice[k]
	return ok
}

func identityInstruction(g gate.Gate) circuit.Instruction {
	inst := circuit.Instruction{Gate: g, Qubits: make([]int, g.Qubits), Clbits: make([]int, g.Clbits)}
	for i := range inst.Qubits {
		inst.Qubits[i] = i
	}
	for i := range inst.Clbits {
		inst.Clbits[i] = i
	}
	return inst
}
