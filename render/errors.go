// SPDX-License-Identifier: EPL-2.0

package render

import "errors"

var (
	ErrNoBuffer = errors.New("render: no sample buffer")
	ErrNoFrames = errors.New("render: trim region is shorter than one frame")
)
