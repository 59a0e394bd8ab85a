// SPDX-License-Identifier: EPL-2.0

package graph

import "math"

// WaveShaper maps every sample through a transfer curve. The curve spans
// inputs -1 to 1; inputs outside that range take the end values.
type WaveShaper struct {
	nodeBase

	curve []float64
	block [][]float64
}

func NewWaveShaper(ctx BaseContext) *WaveShaper {
	w := &WaveShaper{}
	w.init(ctx.engine(), w, modeMax, 0)
	return w
}

// SetCurve replaces the transfer curve with a copy of curve. A nil or
// empty curve passes input through unchanged.
func (w *WaveShaper) SetCurve(curve []float32) {
	var c []float64
	if len(curve) > 0 {
		c = make([]float64, len(curve))
		for i, v := range curve {
			c[i] = float64(v)
		}
	}

	w.e.mu.Lock()
	w.curve = c
	w.e.mu.Unlock()
}

// CurveLen returns the number of points in the current curve.
func (w *WaveShaper) CurveLen() int {
	w.e.mu.Lock()
	defer w.e.mu.Unlock()

	return len(w.curve)
}

func (w *WaveShaper) shape(x float64) float64 {
	n := len(w.curve)
	if n == 1 {
		return w.curve[0]
	}
	if math.IsNaN(x) {
		x = 0
	}
	pos := math.Round((x + 1) / 2 * float64(n-1))
	i := int(min(max(pos, 0), float64(n-1)))
	return w.curve[i]
}

func (w *WaveShaper) process(in [][]float64) [][]float64 {
	if len(in) == 0 {
		return nil
	}

	w.block = ensureChannels(w.block, len(in))
	for c, src := range in {
		dst := w.block[c]
		if w.curve == nil {
			copy(dst, src)
			continue
		}
		for i, x := range src {
			dst[i] = w.shape(x)
		}
	}

	return w.block
}
