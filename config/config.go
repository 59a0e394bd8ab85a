// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"math"
	"slices"
)

// Stage names an effect stage.
type Stage string

const (
	StageHighPass   Stage = "hpf"
	StageEQ         Stage = "eq"
	StageDistortion Stage = "distortion"
	StageCompressor Stage = "compressor"
	StagePanner     Stage = "panner"
	StageReverb     Stage = "reverb"
	StageDelay      Stage = "delay"
	StageFlanger    Stage = "flanger"
)

// Stages returns every stage: the serial stages in chain order followed by
// the parallel sends.
func Stages() []Stage {
	return []Stage{
		StageHighPass, StageEQ, StageDistortion, StageCompressor, StagePanner,
		StageReverb, StageDelay, StageFlanger,
	}
}

// Serial reports whether s sits in the serial chain rather than on a
// parallel send.
func (s Stage) Serial() bool {
	switch s {
	case StageHighPass, StageEQ, StageDistortion, StageCompressor, StagePanner:
		return true
	default:
		return false
	}
}

type HighPass struct {
	Enabled   bool    `json:"enabled"`
	Frequency float64 `json:"frequency"` // Hz
}

// EQ is a low shelf at 120 Hz and a high shelf at 8 kHz.
type EQ struct {
	Enabled bool    `json:"enabled"`
	Bass    float64 `json:"bass"`   // dB
	Treble  float64 `json:"treble"` // dB
}

type Distortion struct {
	Enabled bool    `json:"enabled"`
	Amount  float64 `json:"amount"`
}

type Compressor struct {
	Enabled   bool    `json:"enabled"`
	Threshold float64 `json:"threshold"` // dB
	Ratio     float64 `json:"ratio"`
}

type Panner struct {
	Enabled bool    `json:"enabled"`
	Pan     float64 `json:"pan"`
}

type Reverb struct {
	Enabled bool    `json:"enabled"`
	Mix     float64 `json:"mix"`
}

type Delay struct {
	Enabled  bool    `json:"enabled"`
	Time     float64 `json:"time"` // seconds
	Feedback float64 `json:"feedback"`
}

type Flanger struct {
	Enabled bool    `json:"enabled"`
	Depth   float64 `json:"depth"` // seconds of delay swing
	Rate    float64 `json:"rate"`  // Hz
	Mix     float64 `json:"mix"`
}

// Config is a snapshot of every effect setting. It is a plain value: copy
// it freely.
type Config struct {
	HighPass   HighPass   `json:"hpf"`
	EQ         EQ         `json:"eq"`
	Distortion Distortion `json:"distortion"`
	Compressor Compressor `json:"compressor"`
	Panner     Panner     `json:"panner"`
	Reverb     Reverb     `json:"reverb"`
	Delay      Delay      `json:"delay"`
	Flanger    Flanger    `json:"flanger"`
	MasterGain float64    `json:"master_gain"`
}

// Default returns the factory settings.
func Default() Config {
	return Config{
		HighPass:   HighPass{Frequency: 80},
		EQ:         EQ{Enabled: true},
		Distortion: Distortion{Amount: 50},
		Compressor: Compressor{Threshold: -24, Ratio: 4},
		Reverb:     Reverb{Mix: 0.2},
		Delay:      Delay{Time: 0.5, Feedback: 0.3},
		Flanger:    Flanger{Depth: 0.005, Rate: 1, Mix: 0.5},
		MasterGain: 1,
	}
}

// param describes one continuous parameter and its valid range.
type param struct {
	key      string
	min, max float64
	field    func(c *Config) *float64
}

var params = []param{
	{"hpf.frequency", 20, 300, func(c *Config) *float64 { return &c.HighPass.Frequency }},
	{"eq.bass", -15, 15, func(c *Config) *float64 { return &c.EQ.Bass }},
	{"eq.treble", -15, 15, func(c *Config) *float64 { return &c.EQ.Treble }},
	{"distortion.amount", 0, 100, func(c *Config) *float64 { return &c.Distortion.Amount }},
	{"compressor.threshold", -60, 0, func(c *Config) *float64 { return &c.Compressor.Threshold }},
	{"compressor.ratio", 1, 20, func(c *Config) *float64 { return &c.Compressor.Ratio }},
	{"panner.pan", -1, 1, func(c *Config) *float64 { return &c.Panner.Pan }},
	{"reverb.mix", 0, 1, func(c *Config) *float64 { return &c.Reverb.Mix }},
	{"delay.time", 0.1, 1, func(c *Config) *float64 { return &c.Delay.Time }},
	{"delay.feedback", 0, 0.8, func(c *Config) *float64 { return &c.Delay.Feedback }},
	{"flanger.depth", 0, 0.01, func(c *Config) *float64 { return &c.Flanger.Depth }},
	{"flanger.rate", 0.05, 10, func(c *Config) *float64 { return &c.Flanger.Rate }},
	{"flanger.mix", 0, 1, func(c *Config) *float64 { return &c.Flanger.Mix }},
	{"master.gain", 0, 2, func(c *Config) *float64 { return &c.MasterGain }},
}

func lookup(key string) (param, bool) {
	i := slices.IndexFunc(params, func(p param) bool { return p.key == key })
	if i < 0 {
		return param{}, false
	}
	return params[i], true
}

// Keys returns every parameter key in a stable order.
func Keys() []string {
	keys := make([]string, len(params))
	for i, p := range params {
		keys[i] = p.key
	}
	return keys
}

// Range returns the valid range of a parameter.
func Range(key string) (lo, hi float64, err error) {
	p, ok := lookup(key)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownParameter, key)
	}
	return p.min, p.max, nil
}

func (p param) check(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < p.min || v > p.max {
		return fmt.Errorf("%w: %s = %v, want [%v, %v]", ErrInvalidParameter, p.key, v, p.min, p.max)
	}
	return nil
}

// Get returns the value of the parameter named key.
func (c Config) Get(key string) (float64, error) {
	p, ok := lookup(key)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, key)
	}
	return *p.field(&c), nil
}

// Set assigns v to the parameter named key. Values outside the parameter's
// range are rejected and leave c unchanged.
func (c *Config) Set(key string, v float64) error {
	p, ok := lookup(key)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParameter, key)
	}
	if err := p.check(v); err != nil {
		return err
	}
	*p.field(c) = v
	return nil
}

// Params returns every parameter keyed by name.
func (c Config) Params() map[string]float64 {
	m := make(map[string]float64, len(params))
	for _, p := range params {
		m[p.key] = *p.field(&c)
	}
	return m
}

func (c *Config) enabled(s Stage) (*bool, error) {
	switch s {
	case StageHighPass:
		return &c.HighPass.Enabled, nil
	case StageEQ:
		return &c.EQ.Enabled, nil
	case StageDistortion:
		return &c.Distortion.Enabled, nil
	case StageCompressor:
		return &c.Compressor.Enabled, nil
	case StagePanner:
		return &c.Panner.Enabled, nil
	case StageReverb:
		return &c.Reverb.Enabled, nil
	case StageDelay:
		return &c.Delay.Enabled, nil
	case StageFlanger:
		return &c.Flanger.Enabled, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, s)
	}
}

// Enabled reports whether stage s is switched on. Unknown stages report
// false.
func (c Config) Enabled(s Stage) bool {
	on, err := c.enabled(s)
	return err == nil && *on
}

func (c *Config) SetEnabled(s Stage, on bool) error {
	p, err := c.enabled(s)
	if err != nil {
		return err
	}
	*p = on
	return nil
}

// Validate checks every parameter against its range.
func (c Config) Validate() error {
	for _, p := range params {
		if err := p.check(*p.field(&c)); err != nil {
			return err
		}
	}
	return nil
}

// Toggled returns the stages whose enabled flag differs between a and b.
func Toggled(a, b Config) []Stage {
	var out []Stage
	for _, s := range Stages() {
		if a.Enabled(s) != b.Enabled(s) {
			out = append(out, s)
		}
	}
	return out
}
