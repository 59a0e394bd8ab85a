// SPDX-License-Identifier: EPL-2.0

package graph

import "errors"

var (
	ErrInvalidSampleRate  = errors.New("graph: sample rate must be positive")
	ErrInvalidChannels    = errors.New("graph: channel count must be positive")
	ErrInvalidLength      = errors.New("graph: render length must be positive")
	ErrAlreadyStarted     = errors.New("graph: node already started")
	ErrAlreadyRendered    = errors.New("graph: offline context already rendered")
	ErrBufferRateMismatch = errors.New("graph: buffer sample rate differs from context")
	ErrInvalidDelay       = errors.New("graph: max delay must be positive")
	ErrEmptyImpulse       = errors.New("graph: impulse response is empty")
)
