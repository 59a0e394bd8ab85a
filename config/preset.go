// SPDX-License-Identifier: EPL-2.0

package config

import (
	"encoding/json"
	"fmt"
	"io"
)

// LoadPreset reads a JSON preset. Fields missing from the preset keep
// their defaults; unknown fields are an error.
func LoadPreset(r io.Reader) (Config, error) {
	c := Default()

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decode preset: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// SavePreset writes c as an indented JSON preset.
func SavePreset(w io.Writer, c Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode preset: %w", err)
	}
	return nil
}
