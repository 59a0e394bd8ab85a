// SPDX-License-Identifier: EPL-2.0

package transport

import "errors"

var (
	ErrNoBuffer       = errors.New("transport: no buffer loaded")
	ErrInvalidTrim    = errors.New("transport: invalid trim region")
	ErrNotPlaying     = errors.New("transport: not playing")
	ErrAlreadyPlaying = errors.New("transport: already playing")
)
