// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"math"
)

const (
	// HeaderSize is the length of the canonical RIFF/WAVE PCM header.
	HeaderSize = 44

	bitsPerSample  = 16
	bytesPerSample = bitsPerSample / 8
)

// putHeader fills header (at least HeaderSize bytes) for 16-bit PCM.
func putHeader(header []byte, sampleRate, channels int, dataSize uint32) {
	numChannels := uint16(channels)
	byteRate := uint32(sampleRate) * uint32(numChannels) * bytesPerSample
	blockAlign := numChannels * bytesPerSample
	riffSize := 36 + dataSize

	// RIFF header (12 bytes)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], riffSize)
	copy(header[8:12], "WAVE")

	// fmt chunk (24 bytes)
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // PCM fmt chunk size
	binary.LittleEndian.PutUint16(header[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(header[22:24], numChannels)
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], byteRate)
	binary.LittleEndian.PutUint16(header[32:34], blockAlign)
	binary.LittleEndian.PutUint16(header[34:36], bitsPerSample)

	// data chunk header (8 bytes)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)
}

// dataSize returns the byte length of frames*channels 16-bit samples.
func dataSize(frames, channels int) (uint32, error) {
	if channels > math.MaxUint16 {
		return 0, ErrTooManyChannels
	}
	n := uint64(frames) * uint64(channels) * bytesPerSample
	if n > math.MaxUint32-36 {
		return 0, ErrDataTooLarge
	}
	return uint32(n), nil
}
