// SPDX-License-Identifier: EPL-2.0

// Package router builds the effects graph for one playback or render.
//
// The source feeds a pre-effects gain (the fade target), then the serial
// chain of enabled stages in fixed order:
//
//	HPF -> EQ (low shelf -> high shelf) -> distortion -> compressor -> panner
//
// The chain output fans out to four branches summed at the master gain:
// dry, reverb, feedback delay and flanger. Every node exists whether its
// stage is on or not; disabled serial stages are left out of the chain and
// disabled sends run at zero gain.
package router
