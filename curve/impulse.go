// SPDX-License-Identifier: EPL-2.0

package curve

import (
	"math"
	"math/rand/v2"

	"github.com/ik5/audtrim/audio"
)

// Defaults for the reverb impulse.
const (
	DefaultImpulseDuration = 3.0
	DefaultImpulseDecay    = 1.5
)

// BuildReverbImpulse synthesizes a stereo impulse response of
// sampleRate*duration frames: uniform noise in [-1, 1) shaped by the
// envelope (1 - n/length)^decay. With reverse set the envelope rises
// instead. The channels draw independent noise.
//
// rng may be nil, in which case the global source is used.
func BuildReverbImpulse(sampleRate int, duration, decay float64, reverse bool, rng *rand.Rand) (*audio.Buffer, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if math.IsNaN(decay) || math.IsInf(decay, 0) || decay < 0 {
		return nil, ErrInvalidDecay
	}

	length := int(float64(sampleRate) * duration)
	if length <= 0 || math.IsNaN(duration) {
		return nil, ErrInvalidDuration
	}

	noise := rand.Float64
	if rng != nil {
		noise = rng.Float64
	}

	buf := audio.NewBuffer(2, length, sampleRate)
	left, right := buf.Channels[0], buf.Channels[1]
	for i := range length {
		n := i
		if reverse {
			n = length - i
		}
		env := math.Pow(1-float64(n)/float64(length), decay)
		left[i] = float32((noise()*2 - 1) * env)
		right[i] = float32((noise()*2 - 1) * env)
	}

	return buf, nil
}
