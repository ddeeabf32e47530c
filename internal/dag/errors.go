package dag

import "fmt"

// WireMismatchError reports a substitution whose replacement does not
// cover exactly the wires of the replaced node.
type WireMismatchError struct {
	Node   NodeID
	Detail string
}

func (e *WireMismatchError) Error() string {
	return fmt.Sprintf("substitute node %d: %s", e.Node, e.Detail)
}
