// SPDX-License-Identifier: EPL-2.0

package router

import (
	"fmt"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/config"
	"github.com/ik5/audtrim/curve"
	"github.com/ik5/audtrim/graph"
)

// Fixed node settings.
const (
	BassFrequency   = 120.0  // Hz
	TrebleFrequency = 8000.0 // Hz

	MaxDelayTime = 1.0 // seconds

	FlangerMaxDelay  = 0.02  // seconds
	FlangerBaseDelay = 0.001 // seconds
	FlangerFeedback  = 0.5
)

// Options carries what Build needs besides the buffer and config.
type Options struct {
	// Impulse is the reverb impulse response. It must match the context's
	// sample rate.
	Impulse *audio.Buffer

	Logger *logrus.Entry
}

// Handle owns every node of one built graph.
type Handle struct {
	Source *graph.BufferSource
	PreFX  *graph.Gain

	HighPass    *graph.Biquad
	BassShelf   *graph.Biquad
	TrebleShelf *graph.Biquad
	Distortion  *graph.WaveShaper
	Compressor  *graph.Compressor
	Panner      *graph.StereoPanner

	Dry *graph.Gain

	Convolver *graph.Convolver
	ReverbWet *graph.Gain

	Delay         *graph.Delay
	DelayFeedback *graph.Gain
	DelayWet      *graph.Gain

	FlangerDelay    *graph.Delay
	FlangerLFO      *graph.Oscillator
	FlangerDepth    *graph.Gain
	FlangerFeedback *graph.Gain
	FlangerWet      *graph.Gain

	Master *graph.Gain

	ctx   graph.BaseContext
	chain []config.Stage

	mtx        sync.Mutex
	distortion float64 // amount the current curve was built for

	teardown sync.Once
	log      *logrus.Entry
}

// Build creates and wires a graph for buf on ctx with the settings in cfg.
// Nothing is connected when Build fails.
func Build(ctx graph.BaseContext, buf *audio.Buffer, cfg config.Config, opts Options) (*Handle, error) {
	if buf == nil {
		return nil, ErrNoBuffer
	}
	if opts.Impulse == nil {
		return nil, ErrNoImpulse
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	h, err := newNodes(ctx, buf, opts.Impulse)
	if err != nil {
		return nil, err
	}
	h.log = log

	h.setInitial(cfg)
	if err := h.FlangerLFO.Start(0); err != nil {
		return nil, fmt.Errorf("start flanger lfo: %w", err)
	}
	h.connect(cfg)

	log.WithFields(logrus.Fields{
		"function":    "Build",
		"chain":       h.chain,
		"sample_rate": ctx.SampleRate(),
		"channels":    buf.NumChannels(),
		"frames":      buf.Frames(),
	}).Debug("Effects graph built")

	return h, nil
}

func newNodes(ctx graph.BaseContext, buf *audio.Buffer, impulse *audio.Buffer) (*Handle, error) {
	src, err := graph.NewBufferSource(ctx, buf)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	conv, err := graph.NewConvolver(ctx)
	if err != nil {
		return nil, fmt.Errorf("reverb: %w", err)
	}
	if err := conv.SetBuffer(impulse, true); err != nil {
		return nil, fmt.Errorf("reverb impulse: %w", err)
	}

	delay, err := graph.NewDelay(ctx, MaxDelayTime)
	if err != nil {
		return nil, fmt.Errorf("delay: %w", err)
	}
	flanger, err := graph.NewDelay(ctx, FlangerMaxDelay)
	if err != nil {
		return nil, fmt.Errorf("flanger: %w", err)
	}

	return &Handle{
		Source:          src,
		PreFX:           graph.NewGain(ctx),
		HighPass:        graph.NewBiquad(ctx, graph.Highpass),
		BassShelf:       graph.NewBiquad(ctx, graph.LowShelf),
		TrebleShelf:     graph.NewBiquad(ctx, graph.HighShelf),
		Distortion:      graph.NewWaveShaper(ctx),
		Compressor:      graph.NewCompressor(ctx),
		Panner:          graph.NewStereoPanner(ctx),
		Dry:             graph.NewGain(ctx),
		Convolver:       conv,
		ReverbWet:       graph.NewGain(ctx),
		Delay:           delay,
		DelayFeedback:   graph.NewGain(ctx),
		DelayWet:        graph.NewGain(ctx),
		FlangerDelay:    flanger,
		FlangerLFO:      graph.NewOscillator(ctx),
		FlangerDepth:    graph.NewGain(ctx),
		FlangerFeedback: graph.NewGain(ctx),
		FlangerWet:      graph.NewGain(ctx),
		Master:          graph.NewGain(ctx),
		ctx:             ctx,
	}, nil
}

// setInitial writes the build-time value of every parameter, including the
// fixed ones.
func (h *Handle) setInitial(cfg config.Config) {
	h.PreFX.Gain().SetValue(1)
	h.Dry.Gain().SetValue(1)

	h.BassShelf.Frequency().SetValue(BassFrequency)
	h.TrebleShelf.Frequency().SetValue(TrebleFrequency)

	h.FlangerDelay.DelayTime().SetValue(FlangerBaseDelay)
	h.FlangerFeedback.Gain().SetValue(FlangerFeedback)

	h.distortion = -1
	h.Set(cfg)
}

// setters writes one config key onto the graph. Stage effective values
// fold the enabled flag in, so a toggled send is silenced through the same
// setters.
var setters = map[string]func(h *Handle, c config.Config){
	"hpf.frequency": func(h *Handle, c config.Config) { h.HighPass.Frequency().SetValue(c.HighPass.Frequency) },
	"eq.bass":       func(h *Handle, c config.Config) { h.BassShelf.Gain().SetValue(c.BassGain()) },
	"eq.treble":     func(h *Handle, c config.Config) { h.TrebleShelf.Gain().SetValue(c.TrebleGain()) },

	"distortion.amount": func(h *Handle, c config.Config) { h.SetDistortion(c.DistortionAmount()) },

	"compressor.threshold": func(h *Handle, c config.Config) { h.Compressor.Threshold().SetValue(c.Compressor.Threshold) },
	"compressor.ratio":     func(h *Handle, c config.Config) { h.Compressor.Ratio().SetValue(c.Compressor.Ratio) },

	"panner.pan": func(h *Handle, c config.Config) { h.Panner.Pan().SetValue(c.Panner.Pan) },

	"reverb.mix": func(h *Handle, c config.Config) { h.ReverbWet.Gain().SetValue(c.ReverbWet()) },

	"delay.time": func(h *Handle, c config.Config) { h.Delay.DelayTime().SetValue(c.Delay.Time) },

	"delay.feedback": func(h *Handle, c config.Config) {
		h.DelayFeedback.Gain().SetValue(c.DelayFeedback())
		h.DelayWet.Gain().SetValue(c.DelayWet())
	},

	"flanger.depth": func(h *Handle, c config.Config) { h.FlangerDepth.Gain().SetValue(c.FlangerDepth()) },
	"flanger.rate":  func(h *Handle, c config.Config) { h.FlangerLFO.Frequency().SetValue(c.Flanger.Rate) },
	"flanger.mix":   func(h *Handle, c config.Config) { h.FlangerWet.Gain().SetValue(c.FlangerWet()) },

	"master.gain": func(h *Handle, c config.Config) { h.Master.Gain().SetValue(c.MasterGain) },
}

// Set writes every continuous parameter in cfg onto the graph at the
// context's current time. Connectivity is left alone.
func (h *Handle) Set(cfg config.Config) {
	for _, key := range config.Keys() {
		setters[key](h, cfg)
	}
}

// SetKey writes the single parameter key from cfg.
func (h *Handle) SetKey(key string, cfg config.Config) error {
	set, ok := setters[key]
	if !ok {
		return fmt.Errorf("%w: %q", config.ErrUnknownParameter, key)
	}
	set(h, cfg)
	return nil
}

// SetDistortion rebuilds the distortion curve for amount. It reports false
// when the curve already matches.
func (h *Handle) SetDistortion(amount float64) bool {
	h.mtx.Lock()
	defer h.mtx.Unlock()

	if amount == h.distortion {
		return false
	}
	h.distortion = amount
	h.Distortion.SetCurve(curve.BuildDistortionCurve(amount))
	return true
}

func (h *Handle) connect(cfg config.Config) {
	h.Source.Connect(h.PreFX)

	var current graph.Node = h.PreFX
	link := func(stage config.Stage, in, out graph.Node) {
		current.Connect(in)
		current = out
		h.chain = append(h.chain, stage)
	}

	if cfg.HighPass.Enabled {
		link(config.StageHighPass, h.HighPass, h.HighPass)
	}
	if cfg.EQ.Enabled {
		h.BassShelf.Connect(h.TrebleShelf)
		link(config.StageEQ, h.BassShelf, h.TrebleShelf)
	}
	if cfg.Distortion.Enabled {
		link(config.StageDistortion, h.Distortion, h.Distortion)
	}
	if cfg.Compressor.Enabled {
		link(config.StageCompressor, h.Compressor, h.Compressor)
	}
	if cfg.Panner.Enabled {
		link(config.StagePanner, h.Panner, h.Panner)
	}

	current.Connect(h.Dry)
	current.Connect(h.Convolver)
	current.Connect(h.Delay)
	current.Connect(h.FlangerDelay)

	h.Convolver.Connect(h.ReverbWet)

	h.Delay.Connect(h.DelayWet)
	h.DelayWet.Connect(h.DelayFeedback)
	h.DelayFeedback.Connect(h.Delay)

	h.FlangerLFO.Connect(h.FlangerDepth)
	h.FlangerDepth.ConnectParam(h.FlangerDelay.DelayTime())
	h.FlangerDelay.Connect(h.FlangerFeedback)
	h.FlangerFeedback.Connect(h.FlangerDelay)
	h.FlangerDelay.Connect(h.FlangerWet)

	h.Dry.Connect(h.Master)
	h.ReverbWet.Connect(h.Master)
	h.DelayWet.Connect(h.Master)
	h.FlangerWet.Connect(h.Master)

	h.Master.Connect(h.ctx.Destination())
}

// Chain returns the serial stages wired between the pre-effects gain and
// the sends, in signal order.
func (h *Handle) Chain() []config.Stage {
	return slices.Clone(h.chain)
}

// Context returns the context the graph was built on.
func (h *Handle) Context() graph.BaseContext { return h.ctx }

func (h *Handle) nodes() []graph.Node {
	return []graph.Node{
		h.Source, h.PreFX,
		h.HighPass, h.BassShelf, h.TrebleShelf, h.Distortion, h.Compressor, h.Panner,
		h.Dry, h.Convolver, h.ReverbWet,
		h.Delay, h.DelayFeedback, h.DelayWet,
		h.FlangerDelay, h.FlangerLFO, h.FlangerDepth, h.FlangerFeedback, h.FlangerWet,
		h.Master,
	}
}

// Teardown stops the source and LFO and disconnects every node. Repeated
// calls do nothing.
func (h *Handle) Teardown() {
	h.teardown.Do(func() {
		now := h.ctx.CurrentTime()
		h.Source.Stop(now)
		h.FlangerLFO.Stop(now)
		for _, n := range h.nodes() {
			n.Disconnect()
		}

		h.log.WithFields(logrus.Fields{
			"function": "Teardown",
			"chain":    h.chain,
		}).Debug("Effects graph torn down")
	})
}

// StructuralChange reports whether a serial stage was switched, which
// changes the chain's wiring. Send toggles only change gains.
func StructuralChange(prev, next config.Config) bool {
	return slices.ContainsFunc(config.Toggled(prev, next), config.Stage.Serial)
}
