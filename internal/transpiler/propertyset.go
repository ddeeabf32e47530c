package transpiler

import (
	"fmt"
	"sort"
)

// Well-known property keys written by the stock passes.
const (
	KeyLayout           = "layout"
	KeyFinalLayout      = "final_layout"
	KeyDepth            = "depth"
	KeySize             = "size"
	KeyCountOps         = "count_ops"
	KeyIsSwapMapped     = "is_swap_mapped"
	KeyLayoutScore      = "layout_score"
	KeyRoutingSeed      = "routing_seed"
	KeyLoopBoundReached = "loop_bound_reached"

	// KeyFixedPointPrefix prefixes per-property fixed-point flags,
	// e.g. "fixed_point.depth".
	KeyFixedPointPrefix = "fixed_point."
)

// PropertySet is the typed, named key/value context threaded through a
// pipeline run. Analysis passes write the keys they declare; any later
// pass may read them. Its lifetime is one pipeline run.
type PropertySet struct {
	values map[string]any
}

// NewPropertySet returns an empty store.
func NewPropertySet() *PropertySet {
	return &PropertySet{values: make(map[string]any)}
}

// Set stores a value under key, replacing any previous value from an
// earlier run of the same pass (fixed-point loops rewrite their keys on
// every iteration).
func (ps *PropertySet) Set(key string, value any) {
	ps.values[key] = value
}

// Lookup returns the value for key and whether it was ever written.
func (ps *PropertySet) Lookup(key string) (any, bool) {
	v, ok := ps.values[key]
	return v, ok
}

// Require returns the value for key or a *PassPreconditionError naming
// the reading pass when the key was never written.
func (ps *PropertySet) Require(key, pass string) (any, error) {
	v, ok := ps.values[key]
	if !ok {
		return nil, &PassPreconditionError{Pass: pass, Key: key}
	}
	return v, nil
}

// Int reads an integer property.
func (ps *PropertySet) Int(key string) (int, bool) {
	v, ok := ps.values[key]
	if !ok {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}

// Bool reads a boolean property; unwritten keys read as false.
func (ps *PropertySet) Bool(key string) bool {
	v, ok := ps.values[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Layout reads a layout-valued property.
func (ps *PropertySet) Layout(key string) (*Layout, bool) {
	v, ok := ps.values[key]
	if !ok {
		return nil, false
	}
	l, ok := v.(*Layout)
	return l, ok
}

// RequireLayout is Require with the layout type pinned.
func (ps *PropertySet) RequireLayout(key, pass string) (*Layout, error) {
	v, err := ps.Require(key, pass)
	if err != nil {
		return nil, err
	}
	l, ok := v.(*Layout)
	if !ok {
		return nil, fmt.Errorf("pass %s: property %q holds %T, not a layout", pass, key, v)
	}
	return l, nil
}

// Keys returns every written key, sorted.
func (ps *PropertySet) Keys() []string {
	keys := make([]string, 0, len(ps.values))
	for k := range ps.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
