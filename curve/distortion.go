// SPDX-License-Identifier: EPL-2.0

package curve

import "math"

const (
	// DistortionCurveSize is the number of points in a distortion curve.
	DistortionCurveSize = 44100

	DefaultDistortionAmount = 50.0
	MaxDistortionAmount     = 100.0
)

// BuildDistortionCurve returns a soft-clipping waveshaper curve for amount
// k in [0, 100]:
//
//	y = (3 + k) * x * 20° / (π + k*|x|)
//
// over x in [-1, 1). Amount 0 gives the linear curve y = x/3.
func BuildDistortionCurve(amount float64) []float32 {
	k := amount
	deg := math.Pi / 180

	curve := make([]float32, DistortionCurveSize)
	for i := range curve {
		x := float64(i)*2/DistortionCurveSize - 1
		curve[i] = float32((3 + k) * x * 20 * deg / (math.Pi + k*math.Abs(x)))
	}

	return curve
}
