package equiv

import "fmt"

// BasisTranslationError reports an operation with no equivalence path
// into the target vocabulary. It is never swallowed: an untranslatable
// gate aborts the pipeline.
type BasisTranslationError struct {
	Gate   string
	Qubits int
}

func (e *BasisTranslationError) Error() string {
	return fmt.Sprintf("no equivalence path from gate %q (%d qubit) to the target vocabulary", e.Gate, e.Qubits)
}
