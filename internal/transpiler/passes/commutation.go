package passes

import "qcc/internal/gate"

// wireRole classifies how a gate acts on one of its qubit wires for
// commutation purposes. Control wires are diagonal regardless of
// control polarity: conjugating a diagonal block by NOT keeps it
// diagonal, so generalized control states stay inside the rule set.
type wireRole int

const (
	roleNone wireRole = iota
	roleDiagonal
	roleXAxis
)

func roleOn(g gate.Gate, operand int) wireRole {
	if g.IsDirective() {
		return roleNone
	}
	if operand < g.Controls {
		return roleDiagonal
	}
	name := g.Name
	if g.Controls > 0 && g.Base != nil {
		name = g.Base.Name
	}
	switch name {
	case gate.NameI, gate.NameZ, gate.NameS, gate.NameSdg, gate.NameT, gate.NameTdg,
		gate.NameRZ, gate.NameP:
		return roleDiagonal
	case gate.NameX, gate.NameSX, gate.NameSXdg, gate.NameRX:
		return roleXAxis
	}
	return roleNone
}

// Commute reports whether two operations may be reordered. Operations
// sharing no qubits always commute; otherwise every shared qubit must
// carry the same non-trivial role on both sides. The rule set is
// conservative: it proves commutation from the static table, never
// infers it ad hoc, so a false negative only costs an optimization.
func Commute(a gate.Gate, aQubits []int, b gate.Gate, bQubits []int, aClbits, bClbits []int) bool {
	if len(aClbits) > 0 && len(bClbits) > 0 {
		// Classical wires are never reordered.
		for _, x := range aClbits {
			for _, y := range bClbits {
				if x == y {
					return false
				}
			}
		}
	}
	if a.IsDirective() || b.IsDirective() {
		return false
	}
	for ai, qa := range aQubits {
		for bi, qb := range bQubits {
			if qa != qb {
				continue
			}
			ra, rb := roleOn(a, ai), roleOn(b, bi)
			if ra == roleNone || ra != rb {
				return false
			}
		}
	}
	return true
}
