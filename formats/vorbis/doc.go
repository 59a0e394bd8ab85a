// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files into audio.Buffer values using
// github.com/jfreymuth/oggvorbis.
//
//	buf, err := vorbis.Decoder{}.Decode(file)
//
// All channels of the stream are kept in their Vorbis order.
package vorbis
