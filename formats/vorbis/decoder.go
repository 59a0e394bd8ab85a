// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audtrim/audio"
	"github.com/jfreymuth/oggvorbis"
)

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Read([]float32) (int, error)
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (*audio.Buffer, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return decodeAll(dec)
}

// decodeAll drains dec. Read returns a count of interleaved values, always a
// multiple of Channels().
func decodeAll(dec oggReader) (*audio.Buffer, error) {
	channels := dec.Channels()
	if channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidStream, channels)
	}

	var samples []float32
	chunk := make([]float32, 4096*channels)

	for {
		n, err := dec.Read(chunk)
		samples = append(samples, chunk[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading vorbis packets: %w", err)
		}
		if n == 0 {
			break
		}
	}

	if len(samples) < channels {
		return nil, audio.ErrEmptyBuffer
	}

	return audio.FromInterleaved(samples, channels, dec.SampleRate()), nil
}
