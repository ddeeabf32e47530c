package gate

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// Matrix returns the unitary of the gate as a 2^n x 2^n complex dense
// matrix. The basis-state convention is little-endian: qubit operand i
// corresponds to bit i of the basis index, so control qubits (the
// leading operands) occupy the low bits. Directives have no unitary.
func (g Gate) Matrix() (*mat.CDense, error) {
	if g.IsDirective() {
		return nil, fmt.Errorf("gate %q has no unitary", g.Name)
	}
	if g.Controls > 0 {
		if g.Base == nil {
			return nil, fmt.Errorf("controlled gate %q has no base descriptor", g.Name)
		}
		base, err := g.Base.Matrix()
		if err != nil {
			return nil, err
		}
		return embedControlled(base, g.Controls, g.CtrlState, g.Qubits)
	}
	switch g.Name {
	case NameSwap:
		m := identity(4)
		m.Set(1, 1, 0)
		m.Set(2, 2, 0)
		m.Set(1, 2, 1)
		m.Set(2, 1, 1)
		return m, nil
	}
	u, err := oneQubitMatrix(g)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func oneQubitMatrix(g Gate) (*mat.CDense, error) {
	const invSqrt2 = 1 / math.Sqrt2
	e := func(theta float64) complex128 { return cmplx.Exp(complex(0, theta)) }
	entries := func(a, b, c, d complex128) *mat.CDense {
		return mat.NewCDense(2, 2, []complex128{a, b, c, d})
	}
	switch g.Name {
	case NameI:
		return entries(1, 0, 0, 1), nil
	case NameX:
		return entries(0, 1, 1, 0), nil
	case NameY:
		return entries(0, complex(0, -1), complex(0, 1), 0), nil
	case NameZ:
		return entries(1, 0, 0, -1), nil
	case NameH:
		return entries(complex(invSqrt2, 0), complex(invSqrt2, 0), complex(invSqrt2, 0), complex(-invSqrt2, 0)), nil
	case NameS:
		return entries(1, 0, 0, complex(0, 1)), nil
	case NameSdg:
		return entries(1, 0, 0, complex(0, -1)), nil
	case NameT:
		return entries(1, 0, 0, e(math.Pi/4)), nil
	case NameTdg:
		return entries(1, 0, 0, e(-math.Pi/4)), nil
	case NameSX:
		p := complex(0.5, 0.5)
		m := complex(0.5, -0.5)
		return entries(p, m, m, p), nil
	case NameSXdg:
		p := complex(0.5, -0.5)
		m := complex(0.5, 0.5)
		return entries(p, m, m, p), nil
	case NameRX:
		th := g.Params[0] / 2
		return entries(complex(math.Cos(th), 0), complex(0, -math.Sin(th)),
			complex(0, -math.Sin(th)), complex(math.Cos(th), 0)), nil
	case NameRY:
		th := g.Params[0] / 2
		return entries(complex(math.Cos(th), 0), complex(-math.Sin(th), 0),
			complex(math.Sin(th), 0), complex(math.Cos(th), 0)), nil
	case NameRZ:
		th := g.Params[0] / 2
		return entries(e(-th), 0, 0, e(th)), nil
	case NameP:
		return entries(1, 0, 0, e(g.Params[0])), nil
	case NameU:
		th, phi, lam := g.Params[0]/2, g.Params[1], g.Params[2]
		return entries(
			complex(math.Cos(th), 0),
			-e(lam)*complex(math.Sin(th), 0),
			e(phi)*complex(math.Sin(th), 0),
			e(phi+lam)*complex(math.Cos(th), 0)), nil
	}
	return nil, fmt.Errorf("no matrix definition for gate %q", g.Name)
}

// embedControlled builds the full unitary of a gate with the given
// number of controls conditioned on state, acting on total qubits.
func embedControlled(base *mat.CDense, controls int, state int64, total int) (*mat.CDense, error) {
	baseRows, _ := base.Dims()
	dim := 1 << total
	if baseRows<<controls != dim {
		return nil, fmt.Errorf("base matrix dimension %d does not match %d qubits with %d controls", baseRows, total, controls)
	}
	ctrlMask := int(AllOnes(controls))
	out := mat.NewCDense(dim, dim, nil)
	for col := 0; col < dim; col++ {
		ctrlBits := col & ctrlMask
		if int64(ctrlBits) != state {
			out.Set(col, col, 1)
			continue
		}
		colT := col >> controls
		for rowT := 0; rowT < baseRows; rowT++ {
			v := base.At(rowT, colT)
			if v == 0 {
				continue
			}
			row := rowT<<controls | ctrlBits
			out.Set(row, col, v)
		}
	}
	return out, nil
}

func identity(dim int) *mat.CDense {
	m := mat.NewCDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// ApplyToBasis applies the gate's unitary to the computational basis
// state with the given little-endian index and returns the resulting
// amplitude vector. Used by equivalence checks and tests.
func (g Gate) ApplyToBasis(index int) ([]complex128, error) {
	m, err := g.Matrix()
	if err != nil {
		return nil, err
	}
	dim, _ := m.Dims()
	if index < 0 || index >= dim {
		return nil, fmt.Errorf("basis index %d out of range for %d-qubit gate %q", index, g.Qubits, g.Name)
	}
	out := make([]complex128, dim)
	for row := 0; row < dim; row++ {
		out[row] = m.At(row, index)
	}
	return out, nil
}
