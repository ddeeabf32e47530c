// Package transpiler provides the pass abstraction, the property store,
// the layout bijection, and the pass manager that orchestrates a
// pipeline of passes over one circuit DAG.
package transpiler

import "qcc/internal/dag"

// Kind splits passes into the two capabilities the pipeline knows.
type Kind int

const (
	// Analysis passes read the DAG and write the property-store keys
	// they declare; they never mutate the DAG.
	Analysis Kind = iota
	// Transformation passes may mutate the DAG.
	Transformation
)

func (k Kind) String() string {
	if k == Analysis {
		return "analysis"
	}
	return "transformation"
}

// Pass is the unit of pipeline work. Run executes against the DAG and
// the shared property store; a returned error aborts the whole run with
// no partial output.
type Pass interface {
	Name() string
	Kind() Kind
	Run(d *dag.DAG, ps *PropertySet) error
}

// Predicate decides flow-control branches from the property store.
type Predicate func(ps *PropertySet) bool

// PropertyTrue returns a predicate reading a boolean key; unwritten
// keys read as false.
func PropertyTrue(key string) Predicate {
	return func(ps *PropertySet) bool { return ps.Bool(key) }
}

// PropertyFalse negates PropertyTrue.
func PropertyFalse(key string) Predicate {
	return func(ps *PropertySet) bool { return !ps.Bool(key) }
}
