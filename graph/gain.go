// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// Gain multiplies its input by the gain parameter.
type Gain struct {
	nodeBase

	gain *Param
	buf  [][]float64
}

// NewGain creates a gain node with a gain of 1.
func NewGain(ctx BaseContext) *Gain {
	e := ctx.engine()
	g := &Gain{gain: newParam(e, 1, math.Inf(-1), math.Inf(1))}
	g.init(e, g, modeMax, 0)
	return g
}

func (g *Gain) Gain() *Param { return g.gain }

// wantsInput skips pulling the inputs when the output is certain to be
// silent for this quantum.
func (g *Gain) wantsInput() bool {
	g.gain.values(g.e.tick)
	return !g.gain.isZero()
}

func (g *Gain) process(in [][]float64) [][]float64 {
	if len(in) == 0 {
		return nil
	}

	vals := g.gain.values(g.e.tick)
	g.buf = ensureChannels(g.buf, len(in))
	for c, ch := range in {
		if g.gain.static {
			vecmath.ScaleBlock(g.buf[c], ch, vals[0])
		} else {
			vecmath.MulBlock(g.buf[c], ch, vals)
		}
	}

	return g.buf
}
