// SPDX-License-Identifier: EPL-2.0

package vorbis

import "errors"

// ErrInvalidStream reports a stream header the decoder cannot use.
var ErrInvalidStream = errors.New("invalid vorbis stream")
