// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"math"
)

// Buffer is a decoded, non-interleaved block of PCM audio.
//
// Channels holds one slice per channel, all of the same length, with samples
// normalized to [-1, 1]. A Buffer is treated as immutable once handed to the
// engine: everything downstream only reads it.
type Buffer struct {
	Channels   [][]float32
	SampleRate int
}

// NewBuffer allocates a silent buffer.
func NewBuffer(channels, frames, sampleRate int) *Buffer {
	b := &Buffer{
		Channels:   make([][]float32, channels),
		SampleRate: sampleRate,
	}
	for c := range b.Channels {
		b.Channels[c] = make([]float32, frames)
	}
	return b
}

// FromInterleaved de-interleaves samples into a new Buffer.
// Trailing samples that do not fill a whole frame are dropped.
func FromInterleaved(samples []float32, channels, sampleRate int) *Buffer {
	if channels <= 0 {
		return &Buffer{SampleRate: sampleRate}
	}

	frames := len(samples) / channels
	b := NewBuffer(channels, frames, sampleRate)
	for f := range frames {
		base := f * channels
		for c := range channels {
			b.Channels[c][f] = samples[base+c]
		}
	}
	return b
}

func (b *Buffer) NumChannels() int { return len(b.Channels) }

// Frames returns the number of sample frames (samples per channel).
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Duration in seconds.
func (b *Buffer) Duration() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(b.Frames()) / float64(b.SampleRate)
}

// Interleaved returns the samples frame by frame, channel order preserved.
func (b *Buffer) Interleaved() []float32 {
	channels := b.NumChannels()
	frames := b.Frames()
	out := make([]float32, frames*channels)
	for f := range frames {
		for c := range channels {
			out[f*channels+c] = b.Channels[c][f]
		}
	}
	return out
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		Channels:   make([][]float32, len(b.Channels)),
		SampleRate: b.SampleRate,
	}
	for c, ch := range b.Channels {
		out.Channels[c] = append([]float32(nil), ch...)
	}
	return out
}

// Peak returns the largest absolute sample value across all channels.
func (b *Buffer) Peak() float64 {
	var peak float64
	for _, ch := range b.Channels {
		for _, s := range ch {
			peak = math.Max(peak, math.Abs(float64(s)))
		}
	}
	return peak
}

// Validate reports whether the buffer can be played or rendered.
func (b *Buffer) Validate() error {
	if b == nil || len(b.Channels) == 0 || b.Frames() == 0 {
		return ErrEmptyBuffer
	}
	if b.SampleRate <= 0 {
		return ErrInvalidSampleRate
	}
	frames := b.Frames()
	for _, ch := range b.Channels[1:] {
		if len(ch) != frames {
			return ErrChannelLengthMismatch
		}
	}
	for c, ch := range b.Channels {
		for i, s := range ch {
			if math.IsNaN(float64(s)) || math.IsInf(float64(s), 0) {
				return fmt.Errorf("%w: channel %d frame %d", ErrNonFiniteSample, c, i)
			}
		}
	}
	return nil
}
