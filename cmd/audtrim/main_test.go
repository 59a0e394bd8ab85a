// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrim/config"
	"github.com/ik5/audtrim/formats/wav"
	"github.com/ik5/audtrim/internal/audiotest"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestSettings_Set(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		arg     string
		want    setting
		wantErr bool
	}{
		{"plain", "master.gain=0.5", setting{"master.gain", 0.5}, false},
		{"negative", "eq.bass=-6", setting{"eq.bass", -6}, false},
		{"no equals", "master.gain", setting{}, true},
		{"no key", "=1", setting{}, true},
		{"not a number", "eq.bass=loud", setting{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var s settings
			err := s.Set(tt.arg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Set(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(s) != 1 || s[0] != tt.want {
				t.Errorf("Set(%q) = %v, want [%v]", tt.arg, s, tt.want)
			}
		})
	}
}

func TestStages_Set(t *testing.T) {
	t.Parallel()

	var s stages
	if err := s.Set("reverb"); err != nil {
		t.Fatalf("Set(reverb) error = %v", err)
	}
	if err := s.Set("hpf"); err != nil {
		t.Fatalf("Set(hpf) error = %v", err)
	}
	if got := s.String(); got != "reverb,hpf" {
		t.Errorf("String() = %q, want %q", got, "reverb,hpf")
	}
	if err := s.Set("chorus"); !errors.Is(err, config.ErrUnknownStage) {
		t.Errorf("Set(chorus) error = %v, want %v", err, config.ErrUnknownStage)
	}
}

func TestOptions_ConfigLayering(t *testing.T) {
	t.Setenv("AUDTRIM_MASTER_GAIN", "0.5")
	t.Setenv("AUDTRIM_DELAY_ENABLED", "true")

	o := options{
		enable: stages{config.StageReverb},
		sets:   settings{{"reverb.mix", 0.7}},
	}
	cfg, err := o.config()
	if err != nil {
		t.Fatalf("config() error = %v", err)
	}
	if cfg.MasterGain != 0.5 || !cfg.Delay.Enabled {
		t.Errorf("environment not applied: gain %v, delay %v", cfg.MasterGain, cfg.Delay.Enabled)
	}
	if !cfg.Reverb.Enabled || cfg.Reverb.Mix != 0.7 {
		t.Errorf("flags not applied: reverb %v mix %v", cfg.Reverb.Enabled, cfg.Reverb.Mix)
	}

	preset := filepath.Join(t.TempDir(), "p.json")
	if err := os.WriteFile(preset, []byte(`{"master_gain": 1.5}`), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	o.preset = preset
	o.disable = stages{config.StageEQ}

	cfg, err = o.config()
	if err != nil {
		t.Fatalf("config() error = %v", err)
	}
	if cfg.MasterGain != 1.5 || cfg.Delay.Enabled {
		t.Errorf("preset did not replace environment: gain %v, delay %v", cfg.MasterGain, cfg.Delay.Enabled)
	}
	if cfg.EQ.Enabled {
		t.Error("-disable eq not applied")
	}

	o.sets = settings{{"master.gain", 3}}
	if _, err := o.config(); !errors.Is(err, config.ErrInvalidParameter) {
		t.Errorf("config() error = %v, want %v", err, config.ErrInvalidParameter)
	}
}

func TestOptions_Fades(t *testing.T) {
	t.Parallel()

	o := options{fadeIn: 0.25}
	got := o.fades()
	if !got.In.Enabled || got.In.Duration != 0.25 {
		t.Errorf("fades().In = %+v, want enabled 0.25", got.In)
	}
	if got.Out.Enabled {
		t.Errorf("fades().Out = %+v, want disabled", got.Out)
	}
}

func TestRun_Usage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"mix"}},
		{"export without input", []string{"export"}},
		{"preset with argument", []string{"preset", "extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := run(context.Background(), tt.args, io.Discard, quietLogger())
			if !errors.Is(err, errUsage) {
				t.Errorf("run(%v) error = %v, want %v", tt.args, err, errUsage)
			}
		})
	}
}

func TestRun_Preset(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	args := []string{"preset", "-enable", "delay", "-set", "delay.time=0.25"}
	if err := run(context.Background(), args, &out, quietLogger()); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	cfg, err := config.LoadPreset(&out)
	if err != nil {
		t.Fatalf("LoadPreset() error = %v", err)
	}
	if !cfg.Delay.Enabled || cfg.Delay.Time != 0.25 {
		t.Errorf("preset delay = %+v, want enabled at 0.25", cfg.Delay)
	}
}

func TestRun_Export(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	data, err := wav.EncodeBytes(audiotest.Sine(8000, 2, 8000, 220))
	if err != nil {
		t.Fatalf("EncodeBytes() error = %v", err)
	}
	in := filepath.Join(dir, "in.wav")
	if err := os.WriteFile(in, data, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	outDir := filepath.Join(dir, "out")
	if err := os.Mkdir(outDir, 0o755); err != nil {
		t.Fatalf("Mkdir() error = %v", err)
	}

	var out bytes.Buffer
	args := []string{"export", "-o", outDir, "-prefix", "take", "-start", "0.25", "-fade-out", "0.1", in}
	if err := run(context.Background(), args, &out, quietLogger()); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	path := strings.TrimSpace(out.String())
	if filepath.Dir(path) != outDir || !strings.HasPrefix(filepath.Base(path), "take-") {
		t.Errorf("export path = %q, want take-*.wav in %q", path, outDir)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	buf, err := wav.Decoder{}.Decode(f)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if buf.Frames() != 6000 {
		t.Errorf("Frames() = %d, want 6000", buf.Frames())
	}
}

func TestRun_ExportMissingInput(t *testing.T) {
	t.Parallel()

	args := []string{"export", "-o", t.TempDir(), filepath.Join(t.TempDir(), "nope.wav")}
	err := run(context.Background(), args, io.Discard, quietLogger())
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("run() error = %v, want %v", err, os.ErrNotExist)
	}
}
