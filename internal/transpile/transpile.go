// Package transpile assembles preset pass pipelines and exposes the
// one-call entry point collaborators use: circuit in, hardware-legal
// circuit plus final layout and pipeline diagnostics out.
package transpile

import (
	"fmt"

	"go.uber.org/zap"

	"qcc/internal/circuit"
	"qcc/internal/dag"
	"qcc/internal/equiv"
	"qcc/internal/target"
	"qcc/internal/transpiler"
	"qcc/internal/transpiler/passes"
)

// DefaultLevel is used when the caller does not pick an optimization
// level.
const DefaultLevel = 1

// Options selects the preset composition. The zero value means level
// DefaultLevel, no seeded randomness, no logging.
type Options struct {
	// Level picks the preset pipeline, 0-3; higher is more thorough
	// and slower.
	Level int
	// Seed enables seeded randomized tie-breaking in routing and
	// layout search when non-negative. Two runs with the same seed and
	// inputs produce identical output.
	Seed int64
	// Routing overrides the stock router tuning when non-nil.
	Routing *passes.RoutingConfig
	// Library overrides the standard equivalence library when non-nil.
	Library *equiv.Library
	// Logger receives per-pass diagnostics; nil disables logging.
	Logger *zap.Logger
}

// Result is the pipeline output.
type Result struct {
	Circuit    *circuit.Circuit
	Layout     *transpiler.Layout
	Properties *transpiler.PropertySet
}

// Transpile compiles c for t under opts. Either the full pipeline
// produces a valid circuit or an error is returned; there is no
// partial output.
func Transpile(c *circuit.Circuit, t *target.Target, opts Options) (*Result, error) {
	d, err := dag.FromCircuit(c)
	if err != nil {
		return nil, fmt.Errorf("load circuit: %w", err)
	}
	mgr, err := NewPassManager(t, opts)
	if err != nil {
		return nil, err
	}
	ps, err := mgr.Run(d)
	if err != nil {
		return nil, err
	}
	layout, err := ps.RequireLayout(transpiler.KeyFinalLayout, "transpile")
	if err != nil {
		return nil, err
	}
	return &Result{Circuit: d.ToCircuit(), Layout: layout, Properties: ps}, nil
}

// NewPassManager builds the preset pipeline for an optimization level.
func NewPassManager(t *target.Target, opts Options) (*transpiler.Manager, error) {
	if opts.Level < 0 || opts.Level > 3 {
		return nil, fmt.Errorf("optimization level %d out of range [0,3]", opts.Level)
	}
	if opts.Seed < 0 {
		opts.Seed = -1
	}
	lib := opts.Library
	if lib == nil {
		lib = equiv.StandardLibrary()
	}
	routing := stockRoutingConfig(opts)
	mgr := transpiler.NewManager(opts.Logger)

	switch opts.Level {
	case 0:
		mgr.Append(passes.NewTrivialLayout(t))
	case 1:
		mgr.Append(passes.NewTrivialLayout(t))
	case 2:
		mgr.Append(passes.NewDenseLayout(t))
	case 3:
		mgr.Append(passes.NewSearchLayout(t, passes.SearchLayoutConfig{Seed: opts.Seed}))
	}
	mgr.Append(passes.NewLayoutScore(t))

	// Translate ahead of routing so the router only ever sees one- and
	// two-qubit operations.
	mgr.Append(passes.NewBasisTranslator(t, lib))
	mgr.Append(passes.NewRouter(t, routing))
	// Routing may introduce swaps outside the vocabulary; a second
	// translation closes the basis again.
	mgr.Append(passes.NewBasisTranslator(t, lib))

	if opts.Level >= 1 {
		mgr.Append(passes.InverseCancellation{})
	}
	if opts.Level >= 2 {
		maxIter := 10
		if opts.Level == 3 {
			maxIter = 100
		}
		mgr.AppendDoWhile(
			transpiler.PropertyFalse(transpiler.KeyFixedPointPrefix+transpiler.KeyDepth),
			maxIter,
			passes.InverseCancellation{},
			passes.RotationMerge{},
			passes.Depth{},
			passes.NewFixedPoint(transpiler.KeyDepth),
		)
	}

	mgr.Append(passes.Depth{}, passes.Size{}, passes.CountOps{}, passes.NewCheckMap(t))
	return mgr, nil
}

func stockRoutingConfig(opts Options) passes.RoutingConfig {
	cfg := passes.DefaultRoutingConfig()
	if opts.Routing != nil {
		cfg = *opts.Routing
	}
	if opts.Routing == nil {
		if opts.Level == 0 {
			cfg.LookaheadWindow = 0
		}
		if opts.Level == 3 {
			cfg.LookaheadWindow = 40
		}
		cfg.Seed = opts.Seed
	}
	return cfg
}
