// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"

	"github.com/ik5/audtrim/utils"
)

// Delay delays its input by the delayTime parameter. It is the only node
// that may close a cycle; its delay is never shorter than one quantum.
type Delay struct {
	nodeBase

	maxDelay  float64
	delayTime *Param

	ring    [][]float64
	written int64 // absolute frame of the next write
	loud    int64 // absolute frame after the last non-zero input

	block [][]float64
}

// NewDelay creates a delay line holding up to maxDelay seconds.
func NewDelay(ctx BaseContext, maxDelay float64) (*Delay, error) {
	if maxDelay <= 0 || math.IsNaN(maxDelay) || math.IsInf(maxDelay, 0) {
		return nil, ErrInvalidDelay
	}

	e := ctx.engine()
	d := &Delay{
		maxDelay:  maxDelay,
		delayTime: newParam(e, 0, 0, maxDelay),
		written:   e.frame,
	}
	d.init(e, d, modeMax, 0)
	d.loud = e.frame - d.size() - 1
	return d, nil
}

func (d *Delay) DelayTime() *Param { return d.delayTime }
func (d *Delay) MaxDelay() float64 { return d.maxDelay }

func (d *Delay) size() int64 {
	return int64(math.Ceil(d.maxDelay*d.e.rate)) + 2*Quantum + 4
}

// wantsInput registers the delay for a deferred write and reports false:
// output comes from history, so the inputs are pulled after the quantum.
func (d *Delay) wantsInput() bool {
	d.e.pulledDelays = append(d.e.pulledDelays, d)
	return false
}

// at reads the ring at absolute frame pos. Frames not yet written read as
// the newest written frame.
func (d *Delay) at(ch []float64, pos int64) float64 {
	if pos >= d.written {
		pos = d.written - 1
	}
	if pos < 0 || pos < d.written-int64(len(ch)) {
		return 0
	}
	return ch[pos%int64(len(ch))]
}

// catchUp writes silence for quanta in which nothing was committed.
func (d *Delay) catchUp(frame int64) {
	if d.written >= frame {
		return
	}
	gap := frame - d.written
	for _, ch := range d.ring {
		n := min(gap, int64(len(ch)))
		for i := range n {
			ch[(d.written+i)%int64(len(ch))] = 0
		}
	}
	d.written = frame
}

func (d *Delay) process([][]float64) [][]float64 {
	frame := d.e.frame
	d.catchUp(frame)

	if len(d.ring) == 0 || frame-d.loud > d.size() {
		return nil
	}

	minDelay := Quantum / d.e.rate
	times := d.delayTime.values(d.e.tick)

	d.block = ensureChannels(d.block, len(d.ring))
	for c, ch := range d.ring {
		dst := d.block[c]
		for i := range Quantum {
			t := min(max(times[i], minDelay), d.maxDelay)
			pos := float64(frame+int64(i)) - t*d.e.rate
			i1 := int64(math.Floor(pos))
			frac := pos - float64(i1)
			dst[i] = utils.CubicInterpolate(
				d.at(ch, i1-1), d.at(ch, i1), d.at(ch, i1+1), d.at(ch, i1+2), frac)
		}
	}

	return d.block
}

// commit pulls the delay's inputs for quantum tick and appends them to the
// ring.
func (d *Delay) commit(tick uint64) {
	frame := d.e.frame
	d.catchUp(frame)

	in := d.mixInputs(tick)
	if len(in) == 0 {
		d.catchUp(frame + Quantum)
		return
	}

	for len(d.ring) < len(in) {
		d.ring = append(d.ring, make([]float64, d.size()))
	}

	for c, ch := range d.ring {
		var src []float64
		if c < len(in) {
			src = in[c]
		}
		for i := range Quantum {
			v := 0.0
			if src != nil {
				v = src[i]
			}
			if v != 0 {
				d.loud = frame + Quantum
			}
			ch[(frame+int64(i))%int64(len(ch))] = v
		}
	}
	d.written = frame + Quantum
}
