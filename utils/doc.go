// SPDX-License-Identifier: EPL-2.0

// Package utils holds the small numeric helpers shared by the encoder and the
// processing graph: sample format conversion, decibel math and interpolation.
package utils
