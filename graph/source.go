// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"

	"github.com/ik5/audtrim/audio"
)

// scheduled tracks the start/stop window shared by source nodes. All frames
// are absolute context frames.
type scheduled struct {
	started bool
	ended   bool

	start int64
	stop  int64 // exclusive; math.MaxInt64 when open-ended

	onEnded func()
}

// active reports the frame range of the quantum starting at frame that
// falls inside the window, as offsets into the quantum.
func (s *scheduled) active(frame int64) (from, to int) {
	if !s.started || s.ended {
		return 0, 0
	}
	lo := max(s.start, frame)
	hi := min(s.stop, frame+Quantum)
	if lo >= hi {
		return 0, 0
	}
	return int(lo - frame), int(hi - frame)
}

// finish marks the source ended once the quantum starting at frame reaches
// the stop frame, queueing the OnEnded callback.
func (s *scheduled) finish(e *engine, frame int64) {
	if !s.started || s.ended || s.stop > frame+Quantum {
		return
	}
	s.ended = true
	if s.onEnded != nil {
		e.pending = append(e.pending, s.onEnded)
	}
}

func (s *scheduled) stopAt(e *engine, when float64) {
	f := max(e.timeToFrame(when), e.frame)
	if s.started {
		f = max(f, s.start)
	}
	s.stop = min(s.stop, f)
}

// BufferSource plays a sample buffer once.
type BufferSource struct {
	nodeBase
	scheduled

	buf    *audio.Buffer
	offset int64 // buffer frame played at s.start
	block  [][]float64
}

// NewBufferSource creates a source for buf. The buffer must be at the
// context's sample rate.
func NewBufferSource(ctx BaseContext, buf *audio.Buffer) (*BufferSource, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	e := ctx.engine()
	if float64(buf.SampleRate) != e.rate {
		return nil, ErrBufferRateMismatch
	}

	s := &BufferSource{buf: buf}
	s.stop = math.MaxInt64
	s.init(e, s, modeMax, 0)
	return s, nil
}

func (s *BufferSource) Buffer() *audio.Buffer { return s.buf }

// Start schedules playback at context time when, beginning offset seconds
// into the buffer and lasting duration seconds. A duration <= 0 plays to the
// end of the buffer. A source can be started only once.
func (s *BufferSource) Start(when, offset, duration float64) error {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()

	if s.started {
		return ErrAlreadyStarted
	}

	frames := int64(s.buf.Frames())
	s.offset = min(max(s.e.timeToFrame(offset), 0), frames)
	s.start = max(s.e.timeToFrame(when), s.e.frame)

	length := frames - s.offset
	if duration > 0 {
		length = min(length, s.e.timeToFrame(duration))
	}
	s.stop = min(s.stop, s.start+length)
	s.started = true

	return nil
}

// Stop ends playback at context time when. Calling it again, or after the
// source ended, has no effect beyond moving the stop earlier.
func (s *BufferSource) Stop(when float64) {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()

	s.stopAt(s.e, when)
}

// OnEnded sets fn to run once playback ends. It runs outside the render
// lock, after the quantum in which the source ended.
func (s *BufferSource) OnEnded(fn func()) {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()

	s.onEnded = fn
}

func (s *BufferSource) Ended() bool {
	s.e.mu.Lock()
	defer s.e.mu.Unlock()

	return s.ended
}

func (s *BufferSource) process([][]float64) [][]float64 {
	frame := s.e.frame
	from, to := s.active(frame)
	s.finish(s.e, frame)
	if from == to {
		return nil
	}

	s.block = ensureChannels(s.block, s.buf.NumChannels())
	pos := s.offset + (frame + int64(from) - s.start)
	for c, src := range s.buf.Channels {
		dst := s.block[c]
		clear(dst[:from])
		for i := from; i < to; i++ {
			dst[i] = float64(src[pos+int64(i-from)])
		}
		clear(dst[to:])
	}

	return s.block
}

// Oscillator generates a sine wave.
type Oscillator struct {
	nodeBase
	scheduled

	frequency *Param
	phase     float64 // cycles, in [0, 1)
	block     [][]float64
}

// NewOscillator creates a 440 Hz sine oscillator.
func NewOscillator(ctx BaseContext) *Oscillator {
	e := ctx.engine()
	nyquist := e.rate / 2
	o := &Oscillator{frequency: newParam(e, 440, -nyquist, nyquist)}
	o.stop = math.MaxInt64
	o.init(e, o, modeMax, 0)
	return o
}

func (o *Oscillator) Frequency() *Param { return o.frequency }

// Start begins oscillation at context time when. It can be called once.
func (o *Oscillator) Start(when float64) error {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()

	if o.started {
		return ErrAlreadyStarted
	}
	o.start = max(o.e.timeToFrame(when), o.e.frame)
	o.started = true
	return nil
}

func (o *Oscillator) Stop(when float64) {
	o.e.mu.Lock()
	defer o.e.mu.Unlock()

	o.stopAt(o.e, when)
}

func (o *Oscillator) process([][]float64) [][]float64 {
	frame := o.e.frame
	from, to := o.active(frame)
	o.finish(o.e, frame)
	if from == to {
		return nil
	}

	freq := o.frequency.values(o.e.tick)
	o.block = ensureChannels(o.block, 1)
	dst := o.block[0]
	clear(dst[:from])
	for i := from; i < to; i++ {
		dst[i] = math.Sin(2 * math.Pi * o.phase)
		o.phase += freq[i] / o.e.rate
		o.phase -= math.Floor(o.phase)
	}
	clear(dst[to:])

	return o.block
}
