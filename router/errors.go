// SPDX-License-Identifier: EPL-2.0

package router

import "errors"

var (
	ErrNoBuffer  = errors.New("router: no sample buffer")
	ErrNoImpulse = errors.New("router: no reverb impulse")
)
