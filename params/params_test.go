// SPDX-License-Identifier: EPL-2.0

package params

import (
	"slices"
	"testing"

	"github.com/ik5/audtrim/config"
	"github.com/ik5/audtrim/graph"
	"github.com/ik5/audtrim/internal/audiotest"
	"github.com/ik5/audtrim/router"
)

const testRate = 8000

func newHandle(t *testing.T, cfg config.Config) *router.Handle {
	t.Helper()

	ctx, err := graph.NewOfflineContext(2, 128, testRate)
	if err != nil {
		t.Fatalf("NewOfflineContext() error = %v", err)
	}
	h, err := router.Build(ctx, audiotest.Silence(64, 2, testRate), cfg, router.Options{
		Impulse: audiotest.Impulse(1, 2, testRate, 0),
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return h
}

func TestApply_NilHandle(t *testing.T) {
	t.Parallel()

	Apply(nil, config.Default())
	if got := Update(nil, config.Default(), config.Default()); len(got) != 0 {
		t.Errorf("Update(nil) = %v, want none", got)
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	h := newHandle(t, config.Default())

	cfg := config.Default()
	cfg.HighPass.Frequency = 150
	cfg.EQ.Bass = 6
	cfg.EQ.Treble = -3
	cfg.Compressor.Threshold = -30
	cfg.Compressor.Ratio = 8
	cfg.Panner.Pan = -0.5
	cfg.Reverb.Enabled = true
	cfg.Reverb.Mix = 0.4
	cfg.Delay.Enabled = true
	cfg.Delay.Time = 0.25
	cfg.Delay.Feedback = 0.6
	cfg.Flanger.Enabled = true
	cfg.Flanger.Depth = 0.002
	cfg.Flanger.Rate = 3
	cfg.Flanger.Mix = 0.8
	cfg.MasterGain = 1.5

	Apply(h, cfg)

	tests := []struct {
		name  string
		param *graph.Param
		want  float64
	}{
		{"hpf frequency", h.HighPass.Frequency(), 150},
		{"bass", h.BassShelf.Gain(), 6},
		{"treble", h.TrebleShelf.Gain(), -3},
		{"threshold", h.Compressor.Threshold(), -30},
		{"ratio", h.Compressor.Ratio(), 8},
		{"pan", h.Panner.Pan(), -0.5},
		{"reverb wet", h.ReverbWet.Gain(), 0.4},
		{"delay time", h.Delay.DelayTime(), 0.25},
		{"delay feedback", h.DelayFeedback.Gain(), 0.6},
		{"delay wet", h.DelayWet.Gain(), 1},
		{"lfo rate", h.FlangerLFO.Frequency(), 3},
		{"flanger depth", h.FlangerDepth.Gain(), 0.002},
		{"flanger wet", h.FlangerWet.Gain(), 0.8},
		{"flanger feedback", h.FlangerFeedback.Gain(), router.FlangerFeedback},
		{"master", h.Master.Gain(), 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.param.Value(); got != tt.want {
				t.Errorf("Value() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApply_DisabledStagesAreNeutral(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.EQ.Enabled = false
	cfg.EQ.Bass = 12
	cfg.Delay.Feedback = 0.7
	cfg.Flanger.Mix = 1

	h := newHandle(t, config.Default())
	Apply(h, cfg)

	tests := []struct {
		name  string
		param *graph.Param
	}{
		{"bass", h.BassShelf.Gain()},
		{"delay feedback", h.DelayFeedback.Gain()},
		{"delay wet", h.DelayWet.Gain()},
		{"flanger wet", h.FlangerWet.Gain()},
		{"reverb wet", h.ReverbWet.Gain()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.param.Value(); got != 0 {
				t.Errorf("Value() = %v, want 0", got)
			}
		})
	}
}

func TestApply_DistortionCurveOnlyOnChange(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Distortion.Enabled = true
	h := newHandle(t, cfg)

	Apply(h, cfg)
	if h.SetDistortion(cfg.Distortion.Amount) {
		t.Error("curve rebuilt although amount did not change")
	}
}

func TestChanged(t *testing.T) {
	t.Parallel()

	base := config.Default()

	bass := base
	bass.EQ.Bass = 3

	reverb := base
	reverb.Reverb.Enabled = true

	both := base
	both.MasterGain = 0.5
	both.Delay.Enabled = true

	tests := []struct {
		name string
		next config.Config
		want []string
	}{
		{"same", base, nil},
		{"one parameter", bass, []string{"eq.bass"}},
		{"stage toggled", reverb, []string{"reverb.mix"}},
		{"toggle and parameter", both, []string{"delay.time", "delay.feedback", "master.gain"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Changed(base, tt.next); !slices.Equal(got, tt.want) {
				t.Errorf("Changed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	prev := config.Default()
	h := newHandle(t, prev)

	next := prev
	next.Flanger.Enabled = true

	keys := Update(h, prev, next)
	if want := []string{"flanger.depth", "flanger.rate", "flanger.mix"}; !slices.Equal(keys, want) {
		t.Errorf("Update() = %v, want %v", keys, want)
	}
	if got := h.FlangerWet.Gain().Value(); got != next.Flanger.Mix {
		t.Errorf("flanger wet = %v, want %v", got, next.Flanger.Mix)
	}
}

func BenchmarkApply(b *testing.B) {
	ctx, _ := graph.NewOfflineContext(2, 128, testRate)
	h, err := router.Build(ctx, audiotest.Silence(64, 2, testRate), config.Default(), router.Options{
		Impulse: audiotest.Impulse(1, 2, testRate, 0),
	})
	if err != nil {
		b.Fatal(err)
	}
	cfg := config.Default()

	b.ReportAllocs()
	for b.Loop() {
		Apply(h, cfg)
	}
}
