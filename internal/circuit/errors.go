package circuit

import "fmt"

// ArityError reports an operand-count mismatch against a gate
// descriptor's declared arity.
type ArityError struct {
	Gate       string
	WantQubits int
	GotQubits  int
	WantClbits int
	GotClbits  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("gate %q expects %d qubit(s) and %d clbit(s), got %d and %d",
		e.Gate, e.WantQubits, e.WantClbits, e.GotQubits, e.GotClbits)
}
