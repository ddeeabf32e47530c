package transpiler

import (
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"

	"qcc/internal/dag"
)

// DefaultMaxLoopIterations bounds do-while items that do not set their
// own bound.
const DefaultMaxLoopIterations = 1000

type workItem struct {
	passes        []Pass
	condition     Predicate
	doWhile       Predicate
	maxIterations int
}

// Manager schedules an ordered list of passes over one DAG with three
// flow primitives: plain sequence, a condition that skips a
// sub-sequence, and a bounded do-while loop for fixed-point
// optimization. Passes run strictly sequentially; the manager owns the
// property store for the duration of one Run.
type Manager struct {
	items []workItem
	log   *zap.Logger
}

// NewManager returns an empty manager logging through log; a nil logger
// disables logging.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{log: log}
}

// Append schedules passes to run unconditionally.
func (m *Manager) Append(passes ...Pass) {
	m.items = append(m.items, workItem{passes: passes})
}

// AppendConditional schedules passes that run only when cond holds over
// the property store at that point in the pipeline.
func (m *Manager) AppendConditional(cond Predicate, passes ...Pass) {
	m.items = append(m.items, workItem{passes: passes, condition: cond})
}

// AppendDoWhile schedules passes that repeat while cond holds, up to
// maxIterations (<= 0 selects DefaultMaxLoopIterations). Reaching the
// bound is not an error; it is recorded under KeyLoopBoundReached.
func (m *Manager) AppendDoWhile(cond Predicate, maxIterations int, passes ...Pass) {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxLoopIterations
	}
	m.items = append(m.items, workItem{passes: passes, doWhile: cond, maxIterations: maxIterations})
}

// Run executes the pipeline against d with a fresh property store and
// returns the completed store. Any pass error aborts the run; no
// partial pipeline output is returned.
func (m *Manager) Run(d *dag.DAG) (*PropertySet, error) {
	ps := NewPropertySet()
	// Names of passes whose results are still valid: analysis results
	// survive until the next transformation invalidates them, so an
	// analysis pass scheduled twice without an intervening mutation
	// runs once.
	valid := mapset.NewSet[string]()
	for i, item := range m.items {
		switch {
		case item.condition != nil:
			if !item.condition(ps) {
				m.log.Debug("condition not met, skipping item", zap.Int("item", i))
				continue
			}
			if err := m.runPasses(d, ps, valid, item.passes); err != nil {
				return nil, err
			}
		case item.doWhile != nil:
			iterations := 0
			for {
				iterations++
				if err := m.runPasses(d, ps, valid, item.passes); err != nil {
					return nil, err
				}
				if !item.doWhile(ps) {
					break
				}
				if iterations >= item.maxIterations {
					m.log.Warn("do-while bound reached without convergence",
						zap.Int("item", i), zap.Int("iterations", iterations))
					ps.Set(KeyLoopBoundReached, true)
					break
				}
			}
			m.log.Debug("do-while item finished", zap.Int("item", i), zap.Int("iterations", iterations))
		default:
			if err := m.runPasses(d, ps, valid, item.passes); err != nil {
				return nil, err
			}
		}
	}
	return ps, nil
}

func (m *Manager) runPasses(d *dag.DAG, ps *PropertySet, valid mapset.Set[string], passes []Pass) error {
	for _, p := range passes {
		if p.Kind() == Analysis && valid.ContainsOne(p.Name()) {
			m.log.Debug("analysis result still valid, skipping", zap.String("pass", p.Name()))
			continue
		}
		start := time.Now()
		if err := p.Run(d, ps); err != nil {
			m.log.Error("pass failed", zap.String("pass", p.Name()), zap.Error(err))
			return fmt.Errorf("pass %s: %w", p.Name(), err)
		}
		m.log.Debug("pass completed",
			zap.String("pass", p.Name()),
			zap.String("kind", p.Kind().String()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Int("dag_size", d.Size()))
		if p.Kind() == Transformation {
			valid.Clear()
		} else {
			valid.Add(p.Name())
		}
	}
	return nil
}
