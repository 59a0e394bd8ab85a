// SPDX-License-Identifier: EPL-2.0

package curve

import (
	"math/rand/v2"
	"sync"

	"github.com/ik5/audtrim/audio"
)

// ImpulseKey identifies one impulse response.
type ImpulseKey struct {
	SampleRate int
	Duration   float64
	Decay      float64
	Reverse    bool
}

// DefaultImpulseKey returns the key of the default reverb impulse at
// sampleRate.
func DefaultImpulseKey(sampleRate int) ImpulseKey {
	return ImpulseKey{
		SampleRate: sampleRate,
		Duration:   DefaultImpulseDuration,
		Decay:      DefaultImpulseDecay,
	}
}

// ImpulseCache builds each impulse response once and hands out the same
// buffer afterwards. Buffers are shared and must not be modified.
type ImpulseCache struct {
	mtx   sync.Mutex
	items map[ImpulseKey]*audio.Buffer
	rng   *rand.Rand
}

// NewImpulseCache creates an empty cache. rng seeds every impulse it builds
// and may be nil.
func NewImpulseCache(rng *rand.Rand) *ImpulseCache {
	return &ImpulseCache{
		items: make(map[ImpulseKey]*audio.Buffer),
		rng:   rng,
	}
}

// Get returns the impulse for key, building it on first use.
func (c *ImpulseCache) Get(key ImpulseKey) (*audio.Buffer, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if buf, ok := c.items[key]; ok {
		return buf, nil
	}

	buf, err := BuildReverbImpulse(key.SampleRate, key.Duration, key.Decay, key.Reverse, c.rng)
	if err != nil {
		return nil, err
	}
	c.items[key] = buf

	return buf, nil
}

// Len returns the number of cached impulses.
func (c *ImpulseCache) Len() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return len(c.items)
}

// Reset drops every cached impulse.
func (c *ImpulseCache) Reset() {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	clear(c.items)
}
