// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/ik5/audtrim/audio"
)

const (
	partSize = Quantum
	fftSize  = 2 * partSize

	// impulse normalization constants, matching browser convolvers
	gainCalibration     = 0.00125
	gainCalibrationRate = 44100
	minPower            = 0.000125
)

// Convolver convolves its input with a stereo impulse response using
// uniformly partitioned overlap-save FFT convolution. Output is always
// stereo; a mono input feeds both impulse channels.
type Convolver struct {
	nodeBase

	plan  *algofft.Plan[complex128]
	parts int
	ir    [2][][]complex128 // per output channel, per partition spectrum
	scale float64

	fdl    [][][]complex128 // per input channel, ring of input spectra
	pos    int
	prev   [][]float64
	silent int

	frame []complex128
	acc   []complex128
	zeros [][]float64
	block [][]float64
}

// NewConvolver creates a convolver with no impulse response. It outputs
// silence until SetBuffer is called.
func NewConvolver(ctx BaseContext) (*Convolver, error) {
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("convolver fft plan: %w", err)
	}

	c := &Convolver{
		plan:  plan,
		frame: make([]complex128, fftSize),
		acc:   make([]complex128, fftSize),
	}
	c.init(ctx.engine(), c, modeClampedMax, 2)
	return c, nil
}

// impulseScale returns the gain that levels an impulse response of
// arbitrary power.
func impulseScale(ir *audio.Buffer) float64 {
	power := 0.0
	for _, ch := range ir.Channels {
		for _, v := range ch {
			power += float64(v) * float64(v)
		}
	}
	power = math.Sqrt(power / float64(ir.NumChannels()*ir.Frames()))
	if math.IsNaN(power) || math.IsInf(power, 0) || power < minPower {
		power = minPower
	}

	return 1 / power * gainCalibration * gainCalibrationRate / float64(ir.SampleRate)
}

// SetBuffer installs ir as the impulse response. Only the first two
// channels are used; a mono response is applied to both outputs. With
// normalize set the response is scaled to a calibrated level.
func (c *Convolver) SetBuffer(ir *audio.Buffer, normalize bool) error {
	if err := ir.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrEmptyImpulse, err)
	}
	if float64(ir.SampleRate) != c.e.rate {
		return ErrBufferRateMismatch
	}

	scale := 1.0
	if normalize {
		scale = impulseScale(ir)
	}

	parts := (ir.Frames() + partSize - 1) / partSize
	var spectra [2][][]complex128
	for o := range 2 {
		if o >= ir.NumChannels() {
			spectra[o] = spectra[0]
			break
		}
		spectra[o] = make([][]complex128, parts)
		src := ir.Channels[o]
		for k := range parts {
			buf := make([]complex128, fftSize)
			seg := src[k*partSize : min((k+1)*partSize, len(src))]
			for i, v := range seg {
				buf[i] = complex(float64(v)*scale, 0)
			}
			if err := c.plan.Forward(buf, buf); err != nil {
				return fmt.Errorf("impulse partition %d: %w", k, err)
			}
			spectra[o][k] = buf
		}
	}

	c.e.mu.Lock()
	defer c.e.mu.Unlock()

	c.ir = spectra
	c.parts = parts
	c.scale = scale
	c.fdl = nil
	c.prev = nil
	c.pos = 0
	c.silent = 0

	return nil
}

// Normalization returns the scale applied to the current impulse response.
func (c *Convolver) Normalization() float64 {
	c.e.mu.Lock()
	defer c.e.mu.Unlock()

	return c.scale
}

func silentBlock(in [][]float64) bool {
	for _, ch := range in {
		for _, v := range ch {
			if v != 0 {
				return false
			}
		}
	}
	return true
}

func (c *Convolver) growInputs(channels int) {
	for len(c.fdl) < channels {
		ring := make([][]complex128, c.parts)
		for k := range ring {
			ring[k] = make([]complex128, fftSize)
		}
		c.fdl = append(c.fdl, ring)
		c.prev = append(c.prev, make([]float64, partSize))
	}
}

func (c *Convolver) process(in [][]float64) [][]float64 {
	if c.parts == 0 {
		return nil
	}

	if silentBlock(in) {
		c.silent++
		if c.silent > c.parts || len(c.fdl) == 0 {
			return nil
		}
		c.zeros = ensureChannels(c.zeros, len(c.fdl))
		in = c.zeros
	} else {
		c.silent = 0
	}

	c.growInputs(len(in))
	c.pos = (c.pos + 1) % c.parts

	for j, x := range in {
		for i, v := range c.prev[j] {
			c.frame[i] = complex(v, 0)
		}
		for i, v := range x {
			c.frame[partSize+i] = complex(v, 0)
		}
		copy(c.prev[j], x)
		// sizes are fixed, Forward cannot fail here
		_ = c.plan.Forward(c.fdl[j][c.pos], c.frame)
	}

	c.block = ensureChannels(c.block, 2)
	for o := range 2 {
		ring := c.fdl[min(o, len(in)-1)]
		clear(c.acc)
		for k, h := range c.ir[o] {
			x := ring[(c.pos-k+c.parts)%c.parts]
			for i := range c.acc {
				c.acc[i] += x[i] * h[i]
			}
		}
		_ = c.plan.Inverse(c.acc, c.acc)

		dst := c.block[o]
		for i := range dst {
			dst[i] = real(c.acc[partSize+i])
		}
	}

	return c.block
}
