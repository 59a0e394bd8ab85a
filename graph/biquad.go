// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"

	"github.com/ik5/audtrim/utils"
)

// FilterType selects a Biquad response.
type FilterType int

const (
	Highpass FilterType = iota
	LowShelf
	HighShelf
)

func (t FilterType) String() string {
	switch t {
	case Highpass:
		return "highpass"
	case LowShelf:
		return "lowshelf"
	case HighShelf:
		return "highshelf"
	default:
		return "unknown"
	}
}

// shelfQ gives the shelf slope S = 1.
const shelfQ = math.Sqrt2 / 2

// coefficients of a normalized biquad (a0 = 1), Direct Form II Transposed:
//
//	y  = b0*x + d0
//	d0 = b1*x - a1*y + d1
//	d1 = b2*x - a2*y
type coefficients struct {
	b0, b1, b2 float64
	a1, a2     float64
}

var identity = coefficients{b0: 1}

func design(typ FilterType, freq, q, gainDB, rate float64) coefficients {
	nyquist := rate / 2
	switch {
	case freq <= 0 || math.IsNaN(freq):
		if typ == HighShelf {
			return coefficients{b0: utils.DecibelsToGain(gainDB)}
		}
		return identity
	case freq >= nyquist:
		switch typ {
		case Highpass:
			return coefficients{}
		case LowShelf:
			return coefficients{b0: utils.DecibelsToGain(gainDB)}
		default:
			return identity
		}
	}

	w0 := 2 * math.Pi * freq / rate
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	if q <= 0 || math.IsNaN(q) {
		q = shelfQ
	}
	alpha := sw / (2 * q)

	var b0, b1, b2, a0, a1, a2 float64
	switch typ {
	case Highpass:
		b0 = (1 + cw) / 2
		b1 = -(1 + cw)
		b2 = (1 + cw) / 2
		a0 = 1 + alpha
		a1 = -2 * cw
		a2 = 1 - alpha
	case LowShelf:
		a := math.Pow(10, gainDB/40)
		beta := 2 * math.Sqrt(a) * alpha
		b0 = a * ((a + 1) - (a-1)*cw + beta)
		b1 = 2 * a * ((a - 1) - (a+1)*cw)
		b2 = a * ((a + 1) - (a-1)*cw - beta)
		a0 = (a + 1) + (a-1)*cw + beta
		a1 = -2 * ((a - 1) + (a+1)*cw)
		a2 = (a + 1) + (a-1)*cw - beta
	case HighShelf:
		a := math.Pow(10, gainDB/40)
		beta := 2 * math.Sqrt(a) * alpha
		b0 = a * ((a + 1) + (a-1)*cw + beta)
		b1 = -2 * a * ((a - 1) + (a+1)*cw)
		b2 = a * ((a + 1) + (a-1)*cw - beta)
		a0 = (a + 1) - (a-1)*cw + beta
		a1 = 2 * ((a - 1) - (a+1)*cw)
		a2 = (a + 1) - (a-1)*cw - beta
	default:
		return identity
	}

	return coefficients{
		b0: b0 / a0,
		b1: b1 / a0,
		b2: b2 / a0,
		a1: a1 / a0,
		a2: a2 / a0,
	}
}

// magnitude returns |H(e^jw)| at freq.
func (c coefficients) magnitude(freq, rate float64) float64 {
	w := 2 * math.Pi * freq / rate
	cos1, sin1 := math.Cos(w), math.Sin(w)
	cos2, sin2 := math.Cos(2*w), math.Sin(2*w)

	nr := c.b0 + c.b1*cos1 + c.b2*cos2
	ni := -c.b1*sin1 - c.b2*sin2
	dr := 1 + c.a1*cos1 + c.a2*cos2
	di := -c.a1*sin1 - c.a2*sin2

	return math.Sqrt((nr*nr + ni*ni) / (dr*dr + di*di))
}

type biquadState struct{ d0, d1 float64 }

// Biquad is a second-order IIR filter. Its parameters are read once per
// quantum.
type Biquad struct {
	nodeBase

	typ       FilterType
	frequency *Param
	q         *Param
	gain      *Param

	coef    coefficients
	last    [3]float64 // frequency, q, gain the coefficients were built from
	state   []biquadState
	block   [][]float64
	silence [][]float64
}

// NewBiquad creates a filter of the given type at 350 Hz with Q 1/√2 and
// 0 dB gain.
func NewBiquad(ctx BaseContext, typ FilterType) *Biquad {
	e := ctx.engine()
	b := &Biquad{
		typ:       typ,
		frequency: newParam(e, 350, 0, e.rate/2),
		q:         newParam(e, shelfQ, 0.0001, 1000),
		gain:      newParam(e, 0, -40, 40),
		last:      [3]float64{math.NaN(), math.NaN(), math.NaN()},
	}
	b.init(e, b, modeMax, 0)
	return b
}

func (b *Biquad) Type() FilterType  { return b.typ }
func (b *Biquad) Frequency() *Param { return b.frequency }
func (b *Biquad) Q() *Param         { return b.q }

// Gain is the shelf gain in dB. Highpass filters ignore it.
func (b *Biquad) Gain() *Param { return b.gain }

// Response returns the filter's magnitude at freq for the parameters'
// current values.
func (b *Biquad) Response(freq float64) float64 {
	b.e.mu.Lock()
	now := b.e.now()
	c := design(b.typ, b.frequency.clamp(b.frequency.valueAt(now)), b.q.clamp(b.q.valueAt(now)),
		b.gain.clamp(b.gain.valueAt(now)), b.e.rate)
	b.e.mu.Unlock()

	return c.magnitude(freq, b.e.rate)
}

func (b *Biquad) update(tick uint64) {
	cur := [3]float64{b.frequency.kValue(tick), b.q.kValue(tick), b.gain.kValue(tick)}
	if cur == b.last {
		return
	}
	b.last = cur
	if b.typ == LowShelf || b.typ == HighShelf {
		cur[1] = shelfQ
	}
	b.coef = design(b.typ, cur[0], cur[1], cur[2], b.e.rate)
}

func (b *Biquad) quiet() bool {
	for _, s := range b.state {
		if s.d0 != 0 || s.d1 != 0 {
			return false
		}
	}
	return true
}

func (b *Biquad) process(in [][]float64) [][]float64 {
	b.update(b.e.tick)

	if len(in) == 0 {
		if b.quiet() {
			return nil
		}
		// let the tail ring out
		b.silence = ensureChannels(b.silence, len(b.state))
		in = b.silence
	}

	for len(b.state) < len(in) {
		b.state = append(b.state, biquadState{})
	}
	b.block = ensureChannels(b.block, len(in))

	c := b.coef
	for ch, src := range in {
		s := &b.state[ch]
		dst := b.block[ch]
		for i, x := range src {
			y := c.b0*x + s.d0
			s.d0 = c.b1*x - c.a1*y + s.d1
			s.d1 = c.b2*x - c.a2*y
			dst[i] = y
		}
		if math.Abs(s.d0) < 1e-15 && math.Abs(s.d1) < 1e-15 {
			s.d0, s.d1 = 0, 0
		}
	}

	return b.block
}
