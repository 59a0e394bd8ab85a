// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"
	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/utils"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
)

// Decoder reads integer PCM WAV files of any chunk layout through go-audio/wav.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (*audio.Buffer, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	if dec.WavAudioFormat != formatPCM && dec.WavAudioFormat != formatExtensible {
		return nil, ErrOnlyPCMSupported
	}

	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("reading wav pcm: %w", err)
	}

	channels := int(dec.NumChans)
	frames := len(pcm.Data) / channels
	if frames == 0 {
		return nil, audio.ErrEmptyBuffer
	}

	buf := audio.NewBuffer(channels, frames, int(dec.SampleRate))
	for f := range frames {
		base := f * channels
		for c := range channels {
			buf.Channels[c][f] = normalize(pcm.Data[base+c], bitDepth)
		}
	}

	return buf, nil
}

// normalize maps an integer sample to [-1, 1]. 16-bit data uses the same
// 32767 scale as the encoder so an encode/decode cycle is within one step.
func normalize(v, bitDepth int) float32 {
	switch bitDepth {
	case 8:
		// 8bit values are unsigned
		return float32(v-128) / 128
	case 16:
		return max(utils.Int16ToFloat32(int16(v)), -1)
	default:
		return utils.IntToFloat32(v, bitDepth)
	}
}
