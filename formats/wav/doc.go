// SPDX-License-Identifier: EPL-2.0

// Package wav encodes rendered buffers as 16-bit PCM WAV and decodes WAV
// files into audio.Buffer values.
//
// # Encoding
//
// Encode writes the canonical 44-byte RIFF/WAVE header followed by
// interleaved little-endian int16 samples:
//
//	data, err := wav.EncodeBytes(rendered)
//
// Each float sample is clamped to [-1, 1] and scaled by 32767, truncating
// toward zero. The header fields are derived from the buffer:
//
//	offset  field
//	0       "RIFF", chunk size = total length - 8, "WAVE"
//	12      "fmt ", 16, format tag 1, channels, sample rate,
//	        byte rate = rate*channels*2, block align = channels*2, 16 bits
//	36      "data", frames*channels*2
//
// Filename produces the export naming scheme "<prefix>-YYYYMMDD-HHMMSS.wav".
//
// # Decoding
//
// Decoder uses github.com/go-audio/wav, so files with extra chunks (LIST,
// bext, smpl) before or after the fmt chunk are accepted. Integer PCM at
// 8, 16, 24 and 32 bits is supported; IEEE float and compressed WAV are
// rejected with ErrOnlyPCMSupported.
//
// 16-bit samples are scaled by 1/32767, the inverse of the encoder, so an
// encode/decode cycle differs from the clamped input by less than one step.
package wav
