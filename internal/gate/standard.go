package gate

import (
	"fmt"
	"strings"
)

// Canonical gate names. Lower case throughout, matching the usual
// OpenQASM spelling.
const (
	NameI       = "id"
	NameX       = "x"
	NameY       = "y"
	NameZ       = "z"
	NameH       = "h"
	NameS       = "s"
	NameSdg     = "sdg"
	NameT       = "t"
	NameTdg     = "tdg"
	NameSX      = "sx"
	NameSXdg    = "sxdg"
	NameRX      = "rx"
	NameRY      = "ry"
	NameRZ      = "rz"
	NameP       = "p"
	NameU       = "u"
	NameCX      = "cx"
	NameCZ      = "cz"
	NameCP      = "cp"
	NameCRZ     = "crz"
	NameSwap    = "swap"
	NameCCX     = "ccx"
	NameBarrier = "barrier"
	NameMeasure = "measure"
)

func I() Gate   { return Gate{Name: NameI, Qubits: 1} }
func X() Gate   { return Gate{Name: NameX, Qubits: 1} }
func Y() Gate   { return Gate{Name: NameY, Qubits: 1} }
func Z() Gate   { return Gate{Name: NameZ, Qubits: 1} }
func H() Gate   { return Gate{Name: NameH, Qubits: 1} }
func S() Gate   { return Gate{Name: NameS, Qubits: 1} }
func Sdg() Gate { return Gate{Name: NameSdg, Qubits: 1} }
func T() Gate   { return Gate{Name: NameT, Qubits: 1} }
func Tdg() Gate { return Gate{Name: NameTdg, Qubits: 1} }
func SX() Gate  { return Gate{Name: NameSX, Qubits: 1} }
func SXdg() Gate {
	return Gate{Name: NameSXdg, Qubits: 1}
}

func RX(theta float64) Gate { return Gate{Name: NameRX, Qubits: 1, Params: []float64{theta}} }
func RY(theta float64) Gate { return Gate{Name: NameRY, Qubits: 1, Params: []float64{theta}} }
func RZ(theta float64) Gate { return Gate{Name: NameRZ, Qubits: 1, Params: []float64{theta}} }
func P(theta float64) Gate  { return Gate{Name: NameP, Qubits: 1, Params: []float64{theta}} }

func U(theta, phi, lambda float64) Gate {
	return Gate{Name: NameU, Qubits: 1, Params: []float64{theta, phi, lambda}}
}

func CX() Gate {
	base := X()
	return Gate{Name: NameCX, Qubits: 2, Controls: 1, CtrlState: 1, Base: &base}
}

func CZ() Gate {
	base := Z()
	return Gate{Name: NameCZ, Qubits: 2, Controls: 1, CtrlState: 1, Base: &base}
}

func CP(theta float64) Gate {
	base := P(theta)
	return Gate{Name: NameCP, Qubits: 2, Params: []float64{theta}, Controls: 1, CtrlState: 1, Base: &base}
}

func CRZ(theta float64) Gate {
	base := RZ(theta)
	return Gate{Name: NameCRZ, Qubits: 2, Params: []float64{theta}, Controls: 1, CtrlState: 1, Base: &base}
}

func Swap() Gate { return Gate{Name: NameSwap, Qubits: 2} }

func CCX() Gate {
	base := X()
	return Gate{Name: NameCCX, Qubits: 3, Controls: 2, CtrlState: 3, Base: &base}
}

// Measure reads one qubit into one classical bit.
func Measure() Gate { return Gate{Name: NameMeasure, Qubits: 1, Clbits: 1} }

// Barrier is an ordering fence across n qubits.
func Barrier(n int) Gate { return Gate{Name: NameBarrier, Qubits: n} }

// Controlled wraps base with controls additional control qubits
// conditioned on state. The control qubits are the leading operands.
func Controlled(base Gate, controls int, state int64) (Gate, error) {
	if controls <= 0 {
		return Gate{}, fmt.Errorf("controlled gate needs at least one control, got %d", controls)
	}
	if state < 0 || state > AllOnes(controls) {
		return Gate{}, fmt.Errorf("control state %#b out of range for %d controls", state, controls)
	}
	b := base
	totalControls := controls
	if base.Controls > 0 {
		// Controlling an already-controlled gate stacks the masks,
		// new controls in the low bits.
		b = *base.Base
		totalControls = controls + base.Controls
		state |= base.CtrlState << uint(controls)
	}
	name := strings.Repeat("c", controls) + base.Name
	return Gate{
		Name:      name,
		Qubits:    controls + base.Qubits,
		Clbits:    base.Clbits,
		Params:    base.Params,
		Controls:  totalControls,
		CtrlState: state,
		Base:      &b,
	}, nil
}

type builder struct {
	params int
	qubits int
	build  func(params []float64) Gate
}

var registry = map[string]builder{
	NameI:       {0, 1, func([]float64) Gate { return I() }},
	NameX:       {0, 1, func([]float64) Gate { return X() }},
	NameY:       {0, 1, func([]float64) Gate { return Y() }},
	NameZ:       {0, 1, func([]float64) Gate { return Z() }},
	NameH:       {0, 1, func([]float64) Gate { return H() }},
	NameS:       {0, 1, func([]float64) Gate { return S() }},
	NameSdg:     {0, 1, func([]float64) Gate { return Sdg() }},
	NameT:       {0, 1, func([]float64) Gate { return T() }},
	NameTdg:     {0, 1, func([]float64) Gate { return Tdg() }},
	NameSX:      {0, 1, func([]float64) Gate { return SX() }},
	NameSXdg:    {0, 1, func([]float64) Gate { return SXdg() }},
	NameRX:      {1, 1, func(p []float64) Gate { return RX(p[0]) }},
	NameRY:      {1, 1, func(p []float64) Gate { return RY(p[0]) }},
	NameRZ:      {1, 1, func(p []float64) Gate { return RZ(p[0]) }},
	NameP:       {1, 1, func(p []float64) Gate { return P(p[0]) }},
	NameU:       {3, 1, func(p []float64) Gate { return U(p[0], p[1], p[2]) }},
	NameCX:      {0, 2, func([]float64) Gate { return CX() }},
	NameCZ:      {0, 2, func([]float64) Gate { return CZ() }},
	NameCP:      {1, 2, func(p []float64) Gate { return CP(p[0]) }},
	NameCRZ:     {1, 2, func(p []float64) Gate { return CRZ(p[0]) }},
	NameSwap:    {0, 2, func([]float64) Gate { return Swap() }},
	NameCCX:     {0, 3, func([]float64) Gate { return CCX() }},
	NameMeasure: {0, 1, func([]float64) Gate { return Measure() }},
}

// ByName builds a standard gate from its canonical name. It is the
// entry point for tool inputs (target basis lists, circuit files).
func ByName(name string, params []float64) (Gate, error) {
	b, ok := registry[name]
	if !ok {
		return Gate{}, fmt.Errorf("unknown gate %q", name)
	}
	if len(params) != b.params {
		return Gate{}, fmt.Errorf("gate %q takes %d parameter(s), got %d", name, b.params, len(params))
	}
	return b.build(params), nil
}

// IsStandard reports whether name is a known standard gate.
func IsStandard(name string) bool {
	_, ok := registry[name]
	return ok || name == NameBarrier
}

var inverseNames = map[string]string{
	NameI:    NameI,
	NameX:    NameX,
	NameY:    NameY,
	NameZ:    NameZ,
	NameH:    NameH,
	NameS:    NameSdg,
	NameSdg:  NameS,
	NameT:    NameTdg,
	NameTdg:  NameT,
	NameSX:   NameSXdg,
	NameSXdg: NameSX,
	NameCX:   NameCX,
	NameCZ:   NameCZ,
	NameSwap: NameSwap,
	NameCCX:  NameCCX,
}

// Inverse returns the inverse descriptor and true when one is known:
// self- or pair-inverse names, or rotations with negated angles.
// Directives and unknown gates report false.
func (g Gate) Inverse() (Gate, bool) {
	if g.IsDirective() {
		return Gate{}, false
	}
	if inv, ok := inverseNames[g.Name]; ok && len(g.Params) == 0 {
		out := g
		out.Name = inv
		if g.Controls > 0 {
			// Control polarity is unchanged by inversion.
			base, ok := g.Base.Inverse()
			if !ok {
				return Gate{}, false
			}
			out.Base = &base
		}
		return out, true
	}
	switch g.Name {
	case NameRX, NameRY, NameRZ, NameP, NameCP, NameCRZ:
		out := g
		out.Params = []float64{-g.Params[0]}
		if g.Base != nil {
			base, ok := g.Base.Inverse()
			if !ok {
				return Gate{}, false
			}
			out.Base = &base
		}
		return out, true
	}
	return Gate{}, false
}

// RotationAxis reports the Bloch axis of single-qubit rotation gates
// ("x", "y", "z") and whether the gate is such a rotation. Phase gates
// count as z rotations for merging purposes.
func (g Gate) RotationAxis() (string, bool) {
	switch g.Name {
	case NameRX:
		return "x", true
	case NameRY:
		return "y", true
	case NameRZ, NameP:
		return "z", true
	}
	return "", false
}
