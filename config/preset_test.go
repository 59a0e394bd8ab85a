// SPDX-License-Identifier: EPL-2.0

package config

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLoadPreset(t *testing.T) {
	t.Parallel()

	const preset = `{
		"reverb": {"enabled": true, "mix": 0.4},
		"master_gain": 0.8
	}`

	c, err := LoadPreset(strings.NewReader(preset))
	if err != nil {
		t.Fatalf("LoadPreset() error = %v", err)
	}

	if !c.Reverb.Enabled || c.Reverb.Mix != 0.4 {
		t.Errorf("Reverb = %+v, want enabled with mix 0.4", c.Reverb)
	}
	if c.MasterGain != 0.8 {
		t.Errorf("MasterGain = %v, want 0.8", c.MasterGain)
	}
	if c.Delay != Default().Delay {
		t.Errorf("Delay = %+v, want defaults", c.Delay)
	}
}

func TestLoadPreset_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		preset string
		want   error
	}{
		{"out of range", `{"panner": {"pan": 3}}`, ErrInvalidParameter},
		{"unknown field", `{"chorus": {"enabled": true}}`, nil},
		{"malformed", `{"eq":`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := LoadPreset(strings.NewReader(tt.preset))
			if err == nil {
				t.Fatal("LoadPreset() error = nil, want error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("LoadPreset() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSavePreset_RoundTrip(t *testing.T) {
	t.Parallel()

	c := Default()
	c.Flanger.Enabled = true
	c.Flanger.Rate = 2.5

	var buf bytes.Buffer
	if err := SavePreset(&buf, c); err != nil {
		t.Fatalf("SavePreset() error = %v", err)
	}

	got, err := LoadPreset(&buf)
	if err != nil {
		t.Fatalf("LoadPreset() error = %v", err)
	}
	if got != c {
		t.Errorf("LoadPreset(SavePreset(c)) = %+v, want %+v", got, c)
	}
}
