// SPDX-License-Identifier: EPL-2.0

package curve

import "errors"

var (
	ErrInvalidSampleRate = errors.New("curve: sample rate must be positive")
	ErrInvalidDuration   = errors.New("curve: impulse duration too short")
	ErrInvalidDecay      = errors.New("curve: decay must be finite and non-negative")
)
