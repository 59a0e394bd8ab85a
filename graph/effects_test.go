// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"
	"testing"

	"github.com/ik5/audtrim/internal/audiotest"
)

func TestFilterType_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  FilterType
		want string
	}{
		{Highpass, "highpass"},
		{LowShelf, "lowshelf"},
		{HighShelf, "highshelf"},
		{FilterType(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestBiquad_Response(t *testing.T) {
	t.Parallel()

	const rate = 48000
	sixDB := math.Pow(10, 6.0/20)

	tests := []struct {
		name string
		typ  FilterType
		freq float64
		gain float64
		at   float64
		want float64
		tol  float64
	}{
		{"highpass blocks DC", Highpass, 80, 0, 0, 0, 1e-9},
		{"highpass passes highs", Highpass, 80, 0, 10000, 1, 1e-3},
		{"highpass -3dB at cutoff", Highpass, 80, 0, 80, math.Sqrt2 / 2, 1e-6},
		{"lowshelf boosts DC", LowShelf, 120, 6, 0, sixDB, 1e-6},
		{"lowshelf leaves highs", LowShelf, 120, 6, 20000, 1, 1e-2},
		{"highshelf boosts nyquist", HighShelf, 8000, 6, rate / 2, sixDB, 1e-6},
		{"highshelf leaves DC", HighShelf, 8000, 6, 0, 1, 1e-6},
		{"flat shelf", LowShelf, 120, 0, 120, 1, 1e-9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, _ := NewOfflineContext(1, 128, rate)
			b := NewBiquad(ctx, tt.typ)
			b.Frequency().SetValue(tt.freq)
			b.Gain().SetValue(tt.gain)

			if got := b.Response(tt.at); !near(got, tt.want, tt.tol) {
				t.Errorf("Response(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestBiquad_HighpassRemovesDC(t *testing.T) {
	t.Parallel()

	const rate = 8000
	out := renderOffline(t, 1, rate, rate, func(ctx *OfflineContext) {
		src := startedSource(t, ctx, audiotest.Constant(rate, 1, rate, 1))
		b := NewBiquad(ctx, Highpass)
		b.Frequency().SetValue(80)
		src.Connect(b)
		b.Connect(ctx.Destination())
	})

	if got := out.Channels[0][rate-1]; math.Abs(float64(got)) > 1e-3 {
		t.Errorf("settled output = %v, want ~0", got)
	}
}

func TestBiquad_TailRingsOut(t *testing.T) {
	t.Parallel()

	const rate = 8000
	out := renderOffline(t, 1, 1024, rate, func(ctx *OfflineContext) {
		src := startedSource(t, ctx, audiotest.Impulse(128, 1, rate, 127))
		b := NewBiquad(ctx, Highpass)
		b.Frequency().SetValue(1000)
		src.Connect(b)
		b.Connect(ctx.Destination())
	})

	if out.Channels[0][128] == 0 {
		t.Error("out[128] = 0, want filter tail after the source ended")
	}
}

func TestWaveShaper_NearestIndex(t *testing.T) {
	t.Parallel()

	in := []float32{0.4, 0.6, -2, 2, -0.6}
	want := []float32{0, 1, -1, 1, -1}
	buf := audiotest.Generate(len(in), 1, 8000, func(f, _ int) float32 { return in[f] })

	out := renderOffline(t, 1, len(in), 8000, func(ctx *OfflineContext) {
		w := NewWaveShaper(ctx)
		w.SetCurve([]float32{-1, 0, 1})
		startedSource(t, ctx, buf).Connect(w)
		w.Connect(ctx.Destination())
	})

	for i := range want {
		if got := out.Channels[0][i]; got != want[i] {
			t.Errorf("shape(%v) = %v, want %v", in[i], got, want[i])
		}
	}
}

func TestWaveShaper_NaNMapsToCenter(t *testing.T) {
	t.Parallel()

	ctx, err := NewOfflineContext(1, 128, 8000)
	if err != nil {
		t.Fatalf("NewOfflineContext() error = %v", err)
	}
	w := NewWaveShaper(ctx)
	w.SetCurve([]float32{-1, 0.25, 1})

	if got := w.shape(math.NaN()); got != 0.25 {
		t.Errorf("shape(NaN) = %v, want 0.25", got)
	}
}

func TestWaveShaper_NilCurvePassesThrough(t *testing.T) {
	t.Parallel()

	buf := audiotest.Ramp(128, 1, 8000)
	out := renderOffline(t, 1, 128, 8000, func(ctx *OfflineContext) {
		w := NewWaveShaper(ctx)
		w.SetCurve(nil)
		startedSource(t, ctx, buf).Connect(w)
		w.Connect(ctx.Destination())
	})

	for f, v := range out.Channels[0] {
		if v != buf.Channels[0][f] {
			t.Fatalf("out[%d] = %v, want %v", f, v, buf.Channels[0][f])
		}
	}
}

func TestStereoPanner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		channels    int
		pan         float64
		left, right float64
	}{
		{"mono center", 1, 0, math.Sqrt2 / 2 * 0.5, math.Sqrt2 / 2 * 0.5},
		{"mono hard left", 1, -1, 0.5, 0},
		{"mono hard right", 1, 1, 0, 0.5},
		{"stereo center", 2, 0, 0.5, 0.5},
		{"stereo hard left", 2, -1, 1, 0},
		{"stereo hard right", 2, 1, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := renderOffline(t, 2, 128, 8000, func(ctx *OfflineContext) {
				p := NewStereoPanner(ctx)
				p.Pan().SetValue(tt.pan)
				startedSource(t, ctx, audiotest.Constant(128, tt.channels, 8000, 0.5)).Connect(p)
				p.Connect(ctx.Destination())
			})

			if got := float64(out.Channels[0][64]); !near(got, tt.left, 1e-6) {
				t.Errorf("left = %v, want %v", got, tt.left)
			}
			if got := float64(out.Channels[1][64]); !near(got, tt.right, 1e-6) {
				t.Errorf("right = %v, want %v", got, tt.right)
			}
		})
	}
}

func TestStaticCurve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{"below knee", -80, -80},
		{"above knee", 0, -22},
		{"knee edge", -39, -39},
	}

	for _, tt := range tests {
		if got := staticCurve(tt.x, -24, 30, 12); !near(got, tt.want, 1e-9) {
			t.Errorf("%s: staticCurve(%v) = %v, want %v", tt.name, tt.x, got, tt.want)
		}
	}
}

func TestCompressor_LoudInput(t *testing.T) {
	t.Parallel()

	// whole quanta so the source covers every rendered frame
	const rate, frames = 8000, 63 * Quantum
	var comp *Compressor
	out := renderOffline(t, 1, frames, rate, func(ctx *OfflineContext) {
		comp = NewCompressor(ctx)
		startedSource(t, ctx, audiotest.Constant(frames, 1, rate, 1)).Connect(comp)
		comp.Connect(ctx.Destination())
	})

	if got := comp.Reduction(); !near(got, -22, 0.05) {
		t.Errorf("Reduction() = %v, want -22", got)
	}

	// reduction -22 dB plus makeup 0.6*22 dB
	want := math.Pow(10, -8.8/20)
	if got := float64(out.Channels[0][frames-1]); !near(got, want, 1e-3) {
		t.Errorf("settled output = %v, want %v", got, want)
	}
}

func TestCompressor_QuietInputUntouched(t *testing.T) {
	t.Parallel()

	const rate = 8000
	var comp *Compressor
	renderOffline(t, 1, rate, rate, func(ctx *OfflineContext) {
		comp = NewCompressor(ctx)
		startedSource(t, ctx, audiotest.Constant(rate, 1, rate, 1e-4)).Connect(comp)
		comp.Connect(ctx.Destination())
	})

	if got := comp.Reduction(); !near(got, 0, 1e-9) {
		t.Errorf("Reduction() = %v, want 0", got)
	}
}
