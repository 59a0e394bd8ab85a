// SPDX-License-Identifier: EPL-2.0

// Package device plays a real-time graph context on the system audio
// output through oto.
//
// The oto player pulls float32 little-endian PCM from a reader that renders
// the context on demand, so the context clock advances with the hardware.
package device
