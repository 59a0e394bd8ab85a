// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"
	"io"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/internal/audiotest"
)

// Example_registry demonstrates looking up a decoder by file extension.
func Example_registry() {
	registry := audio.NewRegistry()
	registry.Register("wav", audio.DecoderFunc(func(io.Reader) (*audio.Buffer, error) {
		return audiotest.Sine(8000, 2, 8000, 440), nil
	}))

	buf, err := registry.Decode(".WAV", nil)
	if err != nil {
		fmt.Println("decode error:", err)
		return
	}

	fmt.Printf("%d channels, %d Hz, %.1f s\n", buf.NumChannels(), buf.SampleRate, buf.Duration())
	// Output: 2 channels, 8000 Hz, 1.0 s
}

// Example_interleaved shows converting between interleaved and planar layouts.
func Example_interleaved() {
	buf := audio.FromInterleaved([]float32{0.5, -0.5, 0.25, -0.25}, 2, 8000)

	fmt.Println(buf.Frames(), buf.Channels[0], buf.Channels[1])
	// Output: 2 [0.5 0.25] [-0.5 -0.25]
}
