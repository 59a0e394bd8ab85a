// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/utils"
)

// chunkFrames bounds the conversion buffer used while streaming samples.
const chunkFrames = 4096

// Encode writes buf as a 16-bit PCM RIFF/WAVE stream.
//
// Samples are interleaved frame by frame in channel order. Each sample is
// clamped to [-1, 1], scaled by 32767 and truncated.
func Encode(w io.Writer, buf *audio.Buffer) error {
	if err := buf.Validate(); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}

	channels := buf.NumChannels()
	frames := buf.Frames()

	size, err := dataSize(frames, channels)
	if err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}

	header := make([]byte, HeaderSize)
	putHeader(header, buf.SampleRate, channels, size)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write wav header: %w", err)
	}

	out := make([]byte, min(frames, chunkFrames)*channels*bytesPerSample)

	for start := 0; start < frames; start += chunkFrames {
		end := min(start+chunkFrames, frames)
		n := 0
		for f := start; f < end; f++ {
			for c := range channels {
				s := utils.Float32ToInt16(buf.Channels[c][f])
				binary.LittleEndian.PutUint16(out[n:n+2], uint16(s))
				n += 2
			}
		}

		if _, err := w.Write(out[:n]); err != nil {
			return fmt.Errorf("write wav data: %w", err)
		}
	}

	return nil
}

// EncodeBytes returns the complete WAV file for buf.
func EncodeBytes(buf *audio.Buffer) ([]byte, error) {
	var out bytes.Buffer
	if err := buf.Validate(); err == nil {
		out.Grow(HeaderSize + buf.Frames()*buf.NumChannels()*bytesPerSample)
	}

	if err := Encode(&out, buf); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}
