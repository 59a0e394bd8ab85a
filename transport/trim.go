// SPDX-License-Identifier: EPL-2.0

package transport

import (
	"fmt"
	"math"
)

// MinTrimLength is the separation kept between the trim handles.
const MinTrimLength = 0.01 // seconds

// Trim is the region of the buffer that plays and exports, in seconds.
type Trim struct {
	Start float64
	End   float64
}

func (t Trim) Length() float64 { return t.End - t.Start }

// Validate checks 0 <= Start < End <= duration.
func (t Trim) Validate(duration float64) error {
	if math.IsNaN(t.Start) || math.IsNaN(t.End) ||
		t.Start < 0 || t.Start >= t.End || t.End > duration {
		return fmt.Errorf("%w: [%v, %v] in %v s", ErrInvalidTrim, t.Start, t.End, duration)
	}
	return nil
}
