// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"

	"github.com/ik5/audtrim/utils"
)

// Compressor is a stereo-linked feed-forward dynamics compressor with a
// soft knee and automatic makeup gain.
type Compressor struct {
	nodeBase

	threshold *Param // dB
	knee      *Param // dB
	ratio     *Param
	attack    *Param // seconds
	release   *Param // seconds

	env   float64 // smoothed gain change, dB, <= 0
	block [][]float64
}

// NewCompressor creates a compressor with threshold -24 dB, knee 30 dB,
// ratio 12, attack 3 ms and release 250 ms.
func NewCompressor(ctx BaseContext) *Compressor {
	e := ctx.engine()
	c := &Compressor{
		threshold: newParam(e, -24, -100, 0),
		knee:      newParam(e, 30, 0, 40),
		ratio:     newParam(e, 12, 1, 20),
		attack:    newParam(e, 0.003, 0, 1),
		release:   newParam(e, 0.25, 0, 1),
	}
	c.init(e, c, modeMax, 0)
	return c
}

func (c *Compressor) Threshold() *Param { return c.threshold }
func (c *Compressor) Knee() *Param      { return c.knee }
func (c *Compressor) Ratio() *Param     { return c.ratio }
func (c *Compressor) Attack() *Param    { return c.attack }
func (c *Compressor) Release() *Param   { return c.release }

// Reduction returns the current gain reduction in dB, zero or negative.
func (c *Compressor) Reduction() float64 {
	c.e.mu.Lock()
	defer c.e.mu.Unlock()

	return c.env
}

// staticCurve returns the output level in dB for an input level x in dB.
func staticCurve(x, threshold, knee, ratio float64) float64 {
	over := x - threshold
	switch {
	case 2*over < -knee:
		return x
	case knee > 0 && 2*math.Abs(over) <= knee:
		d := over + knee/2
		return x + (1/ratio-1)*d*d/(2*knee)
	default:
		return threshold + over/ratio
	}
}

func smoothing(seconds, rate float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return math.Exp(-1 / (seconds * rate))
}

func (c *Compressor) process(in [][]float64) [][]float64 {
	tick := c.e.tick
	threshold := c.threshold.kValue(tick)
	knee := c.knee.kValue(tick)
	ratio := c.ratio.kValue(tick)
	att := smoothing(c.attack.kValue(tick), c.e.rate)
	rel := smoothing(c.release.kValue(tick), c.e.rate)

	if len(in) == 0 {
		c.env *= math.Pow(rel, Quantum)
		return nil
	}

	makeup := -0.6 * staticCurve(0, threshold, knee, ratio)

	c.block = ensureChannels(c.block, len(in))
	for i := range Quantum {
		level := 0.0
		for _, ch := range in {
			level = max(level, math.Abs(ch[i]))
		}

		target := 0.0
		if level > 1e-9 {
			x := utils.GainToDecibels(level)
			target = staticCurve(x, threshold, knee, ratio) - x
		}

		coef := rel
		if target < c.env {
			coef = att
		}
		c.env = coef*c.env + (1-coef)*target

		g := utils.DecibelsToGain(c.env + makeup)
		for ch, src := range in {
			c.block[ch][i] = src[i] * g
		}
	}

	return c.block
}
