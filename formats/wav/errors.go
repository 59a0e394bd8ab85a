// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile          = errors.New("not a WAV file")
	ErrOnlyPCMSupported    = errors.New("only integer PCM WAV supported")
	ErrUnsupportedBitDepth = errors.New("unsupported WAV bit depth")
	ErrTooManyChannels     = errors.New("too many channels for a WAV header")
	ErrDataTooLarge        = errors.New("sample data exceeds the RIFF size limit")
)
