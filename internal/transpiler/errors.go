package transpiler

import "fmt"

// PassPreconditionError reports a pass reading a property-store key
// that no earlier pass wrote. Pass ordering is a correctness
// requirement; this error means the pipeline was mis-assembled.
type PassPreconditionError struct {
	Pass string
	Key  string
}

func (e *PassPreconditionError) Error() string {
	return fmt.Sprintf("pass %s requires property %q, which no earlier pass wrote", e.Pass, e.Key)
}
