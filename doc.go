// SPDX-License-Identifier: EPL-2.0

// Package audtrim trims an audio file and runs it through an effects chain,
// live or offline.
//
// A Session holds one decoded buffer, the effect settings and the trim
// region. It plays the region on a real-time graph context and exports it
// as a 16-bit PCM WAV file rendered through the same graph.
//
// # Effects
//
// The serial chain runs, when enabled, in this order:
//
//	high-pass -> EQ (low shelf 120 Hz, high shelf 8 kHz) -> distortion -> compressor -> panner
//
// Its output feeds a dry path and three parallel sends, reverb, feedback
// delay and flanger, summed at the master gain.
//
// # Quick Start
//
//	s := audtrim.NewSession()
//	if err := s.LoadFile("voice.mp3"); err != nil {
//		return err
//	}
//	_ = s.SetParam("eq.bass", 4)
//	_ = s.SetEnabled(config.StageReverb, true)
//	_, _ = s.SetTrimStart(1.5)
//	path, err := s.Export(ctx, "out")
//
// For live playback, open the session's context on an output device:
//
//	out, err := device.Open(s.Context())
//	defer out.Close()
//	_ = s.Play()
//
// # Formats
//
// Decoding goes through an audio.Registry. DefaultRegistry knows WAV, MP3,
// Ogg Vorbis and AIFF. No sample rate conversion is done; the graph runs
// at the file's rate.
//
// See the subpackages for the graph runtime, the router and the transport.
package audtrim
