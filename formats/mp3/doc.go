// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files into audio.Buffer values.
//
// It uses github.com/hajimehoshi/go-mp3, which always produces 16-bit
// stereo; mono files come back with both channels identical.
//
//	buf, err := mp3.Decoder{}.Decode(file)
//
// The whole stream is decoded up front. Samples are scaled by 1/32768.
package mp3
