// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyBuffer           = errors.New("buffer has no samples")
	ErrInvalidSampleRate     = errors.New("sample rate must be positive")
	ErrChannelLengthMismatch = errors.New("channels differ in length")
	ErrUnsupportedFormat     = errors.New("unsupported audio format")
	ErrNonFiniteSample       = errors.New("sample is NaN or infinite")
)

// FormatError reports a format key with no registered decoder.
type FormatError struct {
	Format string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnsupportedFormat, e.Format)
}

func (e *FormatError) Unwrap() error { return ErrUnsupportedFormat }

// DecodeError wraps a failure reported by a decoder.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
