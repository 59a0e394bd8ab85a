// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audtrim/audio"
)

// go-mp3 always produces interleaved stereo.
const channels = 2

// readChunk is the byte count requested from go-mp3 per read.
const readChunk = 16 * 1024

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (*audio.Buffer, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return decodeAll(dec)
}

// decodeAll drains dec and de-interleaves its 16-bit little-endian output.
func decodeAll(dec mp3Reader) (*audio.Buffer, error) {
	var pcm []byte
	chunk := make([]byte, readChunk)

	for {
		n, err := dec.Read(chunk)
		pcm = append(pcm, chunk[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading mp3 frames: %w", err)
		}
		if n == 0 {
			break
		}
	}

	const frameBytes = channels * 2
	frames := len(pcm) / frameBytes
	if frames == 0 {
		return nil, audio.ErrEmptyBuffer
	}

	buf := audio.NewBuffer(channels, frames, dec.SampleRate())
	for f := range frames {
		base := f * frameBytes
		for c := range channels {
			val := int16(binary.LittleEndian.Uint16(pcm[base+2*c:]))
			buf.Channels[c][f] = float32(val) / 32768.0
		}
	}

	return buf, nil
}
