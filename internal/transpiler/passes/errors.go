// Package passes contains the stock analysis and transformation passes:
// layout selection, swap routing, basis translation, circuit metrics,
// and the peephole optimizations used by the fixed-point loops.
package passes

import "fmt"

// InsufficientQubitsError reports a circuit wider than the target.
type InsufficientQubitsError struct {
	Virtual  int
	Physical int
}

func (e *InsufficientQubitsError) Error() string {
	return fmt.Sprintf("circuit uses %d virtual qubits but the target has only %d physical qubits", e.Virtual, e.Physical)
}

// RoutingError reports that the router exhausted its iteration cap (or
// hit an unroutable configuration) before emptying the frontier. It is
// a hard failure, never a silent truncation.
type RoutingError struct {
	Swaps  int
	Limit  int
	Reason string
}

func (e *RoutingError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("routing failed after %d swap(s): %s", e.Swaps, e.Reason)
	}
	return fmt.Sprintf("routing exceeded the iteration cap (%d swaps inserted, limit %d) without emptying the frontier", e.Swaps, e.Limit)
}
