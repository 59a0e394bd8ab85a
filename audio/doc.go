// SPDX-License-Identifier: EPL-2.0

// Package audio provides the sample container and decoder plumbing shared by
// the rest of the module.
//
// # Buffer
//
// A Buffer holds decoded PCM audio as one float32 slice per channel:
//
//	type Buffer struct {
//	    Channels   [][]float32
//	    SampleRate int
//	}
//
// Samples are normalized to [-1.0, 1.0]. Frames() is the per-channel length
// and Duration() is Frames()/SampleRate in seconds. Buffers are produced once
// per loaded file and then only read; offline rendering produces new ones.
//
// # Decoders and the Registry
//
// A Decoder turns an encoded stream into a Buffer. The Registry maps format
// keys (usually file extensions) to decoders:
//
//	registry := audio.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	buf, err := registry.Decode(".wav", file)
//
// Keys are case-insensitive and a leading dot is ignored.
//
// # Error Handling
//
// Decode failures are returned as *DecodeError wrapping the decoder's error,
// and unknown formats as *FormatError wrapping ErrUnsupportedFormat:
//
//	buf, err := registry.Decode(ext, file)
//	if errors.Is(err, audio.ErrUnsupportedFormat) {
//	    // no decoder for ext
//	}
package audio
