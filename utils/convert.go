// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToInt16 clamps x to [-1, 1] and scales it by 32767, truncating
// toward zero. -1.0 maps to -32767, never -32768.
func Float32ToInt16(x float32) int16 {
	// Clamp and scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}

// Int16ToFloat32 is the inverse scaling of Float32ToInt16.
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32767.0
}

// IntToFloat32 normalizes a signed integer sample of the given bit depth.
func IntToFloat32(v int, bitDepth int) float32 {
	if bitDepth <= 0 || bitDepth > 32 {
		return 0
	}
	return float32(float64(v) / float64(int64(1)<<(bitDepth-1)))
}

// DecibelsToGain converts a level in dB to a linear amplitude factor.
func DecibelsToGain(db float64) float64 {
	return math.Pow(10, db/20)
}

// GainToDecibels converts a linear amplitude to dB. Silence returns -Inf.
func GainToDecibels(gain float64) float64 {
	if gain <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(gain)
}

func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
