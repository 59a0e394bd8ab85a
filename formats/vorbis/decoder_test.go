// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audtrim/audio"
)

// mockOggVorbisReader simulates oggvorbis.Reader for testing
type mockOggVorbisReader struct {
	sampleRate int
	channels   int
	samples    []float32 // interleaved
	offset     int
	maxFrames  int
	err        error
}

func (m *mockOggVorbisReader) SampleRate() int { return m.sampleRate }
func (m *mockOggVorbisReader) Channels() int   { return m.channels }

func (m *mockOggVorbisReader) Read(buf []float32) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if m.offset >= len(m.samples) {
		return 0, io.EOF
	}

	n := len(buf) / m.channels * m.channels
	if m.maxFrames > 0 {
		n = min(n, m.maxFrames*m.channels)
	}
	n = min(n, len(m.samples)-m.offset)

	copy(buf, m.samples[m.offset:m.offset+n])
	m.offset += n

	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("This is not OGG Vorbis data")))
	if err == nil {
		t.Error("Decode() error = nil, want error for invalid data")
	}
}

func TestDecoder_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader(nil))
	if err == nil {
		t.Error("Decode() error = nil, want error for empty input")
	}
}

func TestDecodeAll_Channels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		samples  []float32
		frames   int
	}{
		{"mono", 1, []float32{0.1, 0.2, 0.3}, 3},
		{"stereo", 2, []float32{0.1, -0.1, 0.2, -0.2}, 2},
		{"5.1", 6, make([]float32, 60), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := &mockOggVorbisReader{sampleRate: 48000, channels: tt.channels, samples: tt.samples, maxFrames: 1}

			buf, err := decodeAll(mock)
			if err != nil {
				t.Fatalf("decodeAll() error = %v", err)
			}

			if buf.NumChannels() != tt.channels || buf.Frames() != tt.frames {
				t.Errorf("shape = %d x %d, want %d x %d", buf.NumChannels(), buf.Frames(), tt.channels, tt.frames)
			}
			if buf.SampleRate != 48000 {
				t.Errorf("SampleRate = %d, want 48000", buf.SampleRate)
			}
		})
	}
}

func TestDecodeAll_StereoOrder(t *testing.T) {
	t.Parallel()

	mock := &mockOggVorbisReader{sampleRate: 44100, channels: 2, samples: []float32{0.5, -0.5, 0.25, -0.25}}

	buf, err := decodeAll(mock)
	if err != nil {
		t.Fatalf("decodeAll() error = %v", err)
	}

	if buf.Channels[0][1] != 0.25 || buf.Channels[1][1] != -0.25 {
		t.Errorf("frame 1 = (%v, %v), want (0.25, -0.25)", buf.Channels[0][1], buf.Channels[1][1])
	}
}

func TestDecodeAll_Errors(t *testing.T) {
	t.Parallel()

	_, err := decodeAll(&mockOggVorbisReader{sampleRate: 44100, channels: 2})
	if !errors.Is(err, audio.ErrEmptyBuffer) {
		t.Errorf("decodeAll(empty) error = %v, want ErrEmptyBuffer", err)
	}

	_, err = decodeAll(&mockOggVorbisReader{sampleRate: 44100, channels: 0})
	if !errors.Is(err, ErrInvalidStream) {
		t.Errorf("decodeAll(0 channels) error = %v, want ErrInvalidStream", err)
	}

	cause := errors.New("corrupt packet")
	_, err = decodeAll(&mockOggVorbisReader{sampleRate: 44100, channels: 2, err: cause})
	if !errors.Is(err, cause) {
		t.Errorf("decodeAll(failing) error = %v, want %v", err, cause)
	}
}

func BenchmarkDecodeAll(b *testing.B) {
	samples := make([]float32, 44100*2)

	b.ReportAllocs()

	for b.Loop() {
		_, _ = decodeAll(&mockOggVorbisReader{sampleRate: 44100, channels: 2, samples: samples})
	}
}
