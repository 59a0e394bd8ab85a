// SPDX-License-Identifier: EPL-2.0

// Package audiotest provides deterministic audio buffers for tests.
package audiotest

import (
	"math"

	"github.com/ik5/audtrim/audio"
)

// Generate builds a buffer from a waveform function.
// waveform receives the frame index and channel.
func Generate(frames, channels, sampleRate int, waveform func(frame, channel int) float32) *audio.Buffer {
	b := audio.NewBuffer(channels, frames, sampleRate)
	for c := range channels {
		for f := range frames {
			b.Channels[c][f] = waveform(f, c)
		}
	}
	return b
}

// Silence returns an all-zero buffer.
func Silence(frames, channels, sampleRate int) *audio.Buffer {
	return audio.NewBuffer(channels, frames, sampleRate)
}

// Sine returns a full-scale sine at frequency Hz on every channel.
func Sine(frames, channels, sampleRate int, frequency float64) *audio.Buffer {
	return Generate(frames, channels, sampleRate, func(f, _ int) float32 {
		t := float64(f) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// Constant returns a buffer where every sample is value.
func Constant(frames, channels, sampleRate int, value float32) *audio.Buffer {
	return Generate(frames, channels, sampleRate, func(int, int) float32 {
		return value
	})
}

// Ramp returns a linear ramp from -1 to 1 over the buffer, with each channel
// negated relative to the previous one so channels are distinguishable.
func Ramp(frames, channels, sampleRate int) *audio.Buffer {
	return Generate(frames, channels, sampleRate, func(f, c int) float32 {
		v := float32(-1)
		if frames > 1 {
			v = -1 + 2*float32(f)/float32(frames-1)
		}
		if c%2 == 1 {
			v = -v
		}
		return v
	})
}

// Impulse returns a single unit sample at frame at, silence elsewhere.
func Impulse(frames, channels, sampleRate, at int) *audio.Buffer {
	return Generate(frames, channels, sampleRate, func(f, _ int) float32 {
		if f == at {
			return 1
		}
		return 0
	})
}

// RMS computes the root-mean-square level of one channel slice.
func RMS(samples []float32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(samples)))
}
