// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/utils"
)

// readFrames is the number of frames requested per PCMBuffer call.
const readFrames = 4096

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (*audio.Buffer, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}

	dec.ReadInfo()

	return decodeAll(dec, int(dec.BitDepth))
}

// decodeAll drains dec and normalizes its signed integer samples.
func decodeAll(dec aiffReader, bitDepth int) (*audio.Buffer, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	format := dec.Format()
	if format == nil || format.NumChannels <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}
	channels := format.NumChannels

	intBuf := &goaudio.IntBuffer{
		Data:   make([]int, readFrames*channels),
		Format: format,
	}

	var samples []float32
	for {
		n, err := dec.PCMBuffer(intBuf)
		for _, v := range intBuf.Data[:n] {
			samples = append(samples, utils.IntToFloat32(v, bitDepth))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading aiff pcm: %w", err)
		}
		if n == 0 {
			break
		}
	}

	if len(samples) < channels {
		return nil, audio.ErrEmptyBuffer
	}

	return audio.FromInterleaved(samples, channels, format.SampleRate), nil
}
