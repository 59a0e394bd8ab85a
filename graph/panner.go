// SPDX-License-Identifier: EPL-2.0

package graph

import "math"

// StereoPanner positions its input in the stereo field with an equal-power
// law. Pan runs from -1 (left) to 1 (right). Output is always stereo.
type StereoPanner struct {
	nodeBase

	pan   *Param
	block [][]float64
}

func NewStereoPanner(ctx BaseContext) *StereoPanner {
	e := ctx.engine()
	p := &StereoPanner{pan: newParam(e, 0, -1, 1)}
	p.init(e, p, modeClampedMax, 2)
	return p
}

func (p *StereoPanner) Pan() *Param { return p.pan }

func (p *StereoPanner) process(in [][]float64) [][]float64 {
	if len(in) == 0 {
		return nil
	}

	pan := p.pan.values(p.e.tick)
	p.block = ensureChannels(p.block, 2)
	left, right := p.block[0], p.block[1]

	if len(in) == 1 {
		for i, x := range in[0] {
			a := (pan[i] + 1) / 2 * math.Pi / 2
			left[i] = x * math.Cos(a)
			right[i] = x * math.Sin(a)
		}
		return p.block
	}

	inL, inR := in[0], in[1]
	for i := range Quantum {
		l, r := inL[i], inR[i]
		if pan[i] <= 0 {
			a := (pan[i] + 1) * math.Pi / 2
			left[i] = l + r*math.Cos(a)
			right[i] = r * math.Sin(a)
		} else {
			a := pan[i] * math.Pi / 2
			left[i] = l * math.Cos(a)
			right[i] = r + l*math.Sin(a)
		}
	}

	return p.block
}
