// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/ik5/audtrim/audio"
)

// Quantum is the number of frames processed per render pass.
const Quantum = 128

// BaseContext is implemented by Context and OfflineContext. Node
// constructors accept either.
type BaseContext interface {
	SampleRate() float64
	Channels() int
	// CurrentTime is the start of the next quantum to be rendered, in seconds.
	CurrentTime() float64
	Destination() *Destination

	engine() *engine
}

// engine is the state shared by both context kinds. mu serializes control
// calls against quantum rendering.
type engine struct {
	mu sync.Mutex

	rate     float64
	channels int

	frame int64  // frames rendered so far
	tick  uint64 // quantum counter used to memoize node output

	dest *Destination

	// delays pulled during the current quantum; their inputs are written
	// after the destination pull completes.
	pulledDelays []*Delay

	// callbacks queued during a quantum, run once the lock is released.
	pending []func()
}

func newEngine(rate float64, channels int) *engine {
	e := &engine{rate: rate, channels: channels}
	e.dest = newDestination(e)
	return e
}

func (e *engine) now() float64 { return float64(e.frame) / e.rate }

// timeToFrame rounds t to the nearest frame.
func (e *engine) timeToFrame(t float64) int64 {
	if t <= 0 || math.IsNaN(t) {
		return 0
	}
	if math.IsInf(t, 1) {
		return math.MaxInt64
	}
	return int64(math.Round(t * e.rate))
}

// renderQuantum processes one quantum and returns the destination output.
// e.mu must be held.
func (e *engine) renderQuantum() [][]float64 {
	e.tick++
	e.pulledDelays = e.pulledDelays[:0]

	out := e.dest.pull(e.tick)

	for i := 0; i < len(e.pulledDelays); i++ {
		e.pulledDelays[i].commit(e.tick)
	}

	e.frame += Quantum
	return out
}

// takePending returns and clears the queued callbacks. e.mu must be held.
func (e *engine) takePending() []func() {
	if len(e.pending) == 0 {
		return nil
	}
	p := e.pending
	e.pending = nil
	return p
}

func runPending(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}

// Context is a real-time context. An output device pulls audio from it
// through Render; its clock advances only as audio is rendered.
type Context struct {
	e *engine

	// leftover interleaved samples from the last partially consumed quantum
	carry []float32
}

// NewContext creates a real-time context.
func NewContext(sampleRate, channels int) (*Context, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if channels <= 0 {
		return nil, ErrInvalidChannels
	}
	return &Context{e: newEngine(float64(sampleRate), channels)}, nil
}

func (c *Context) engine() *engine { return c.e }

func (c *Context) SampleRate() float64 { return c.e.rate }
func (c *Context) Channels() int       { return c.e.channels }

func (c *Context) Destination() *Destination { return c.e.dest }

func (c *Context) CurrentTime() float64 {
	c.e.mu.Lock()
	defer c.e.mu.Unlock()

	return c.e.now()
}

// Render fills dst with interleaved float32 samples, rendering as many
// quanta as needed. Samples beyond a whole frame are left untouched.
func (c *Context) Render(dst []float32) {
	ch := c.e.channels
	dst = dst[:len(dst)/ch*ch]

	n := copy(dst, c.carry)
	c.carry = c.carry[n:]
	dst = dst[n:]

	for len(dst) > 0 {
		var pending []func()
		dst, pending = c.renderInto(dst)
		runPending(pending)
	}
}

// renderInto renders one quantum into dst and returns the unfilled rest.
func (c *Context) renderInto(dst []float32) ([]float32, []func()) {
	c.e.mu.Lock()
	defer c.e.mu.Unlock()

	ch := c.e.channels
	out := c.e.renderQuantum()
	pending := c.e.takePending()

	if len(dst) >= Quantum*ch {
		interleave(dst[:Quantum*ch], out)
		return dst[Quantum*ch:], pending
	}
	block := make([]float32, Quantum*ch)
	interleave(block, out)
	n := copy(dst, block)
	c.carry = block[n:]
	return dst[n:], pending
}

// OfflineContext renders a fixed number of frames as fast as possible.
type OfflineContext struct {
	e      *engine
	frames int

	rendered bool
}

// NewOfflineContext creates an offline context that renders exactly frames
// frames.
func NewOfflineContext(channels, frames, sampleRate int) (*OfflineContext, error) {
	switch {
	case sampleRate <= 0:
		return nil, ErrInvalidSampleRate
	case channels <= 0:
		return nil, ErrInvalidChannels
	case frames <= 0:
		return nil, ErrInvalidLength
	}
	return &OfflineContext{
		e:      newEngine(float64(sampleRate), channels),
		frames: frames,
	}, nil
}

func (c *OfflineContext) engine() *engine { return c.e }

func (c *OfflineContext) SampleRate() float64 { return c.e.rate }
func (c *OfflineContext) Channels() int       { return c.e.channels }

// Length is the number of frames StartRendering produces.
func (c *OfflineContext) Length() int { return c.frames }

func (c *OfflineContext) Destination() *Destination { return c.e.dest }

func (c *OfflineContext) CurrentTime() float64 {
	c.e.mu.Lock()
	defer c.e.mu.Unlock()

	return c.e.now()
}

// StartRendering advances the graph to the end of the context and returns
// the destination output. ctx is checked between quanta.
func (c *OfflineContext) StartRendering(ctx context.Context) (*audio.Buffer, error) {
	c.e.mu.Lock()
	if c.rendered {
		c.e.mu.Unlock()
		return nil, ErrAlreadyRendered
	}
	c.rendered = true
	c.e.mu.Unlock()

	result := audio.NewBuffer(c.e.channels, c.frames, int(c.e.rate))

	for pos := 0; pos < c.frames; pos += Quantum {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("offline render at frame %d: %w", pos, err)
		}

		runPending(c.renderAt(result, pos))
	}

	return result, nil
}

// renderAt renders the quantum starting at frame pos into result.
func (c *OfflineContext) renderAt(result *audio.Buffer, pos int) []func() {
	c.e.mu.Lock()
	defer c.e.mu.Unlock()

	out := c.e.renderQuantum()
	n := min(Quantum, c.frames-pos)
	for ch := range c.e.channels {
		dst := result.Channels[ch][pos : pos+n]
		for i := range dst {
			dst[i] = float32(out[ch][i])
		}
	}
	return c.e.takePending()
}

func interleave(dst []float32, planar [][]float64) {
	ch := len(planar)
	for i := range Quantum {
		for c := range ch {
			dst[i*ch+c] = float32(planar[c][i])
		}
	}
}
