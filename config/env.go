// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix starts every environment variable FromEnv reads.
const EnvPrefix = "AUDTRIM_"

// envKey turns "hpf.frequency" into AUDTRIM_HPF_FREQUENCY.
func envKey(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// FromEnv returns Default overlaid with AUDTRIM_<STAGE>_<PARAM> values and
// AUDTRIM_<STAGE>_ENABLED flags. Unset or empty variables keep the default.
func FromEnv() (Config, error) {
	return overlayEnv(Default(), os.LookupEnv)
}

func overlayEnv(c Config, lookup func(string) (string, bool)) (Config, error) {
	for _, p := range params {
		name := envKey(p.key)
		v, ok := lookup(name)
		if !ok || v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, fmt.Errorf("%w: %s: %w", ErrInvalidParameter, name, err)
		}
		if err := c.Set(p.key, f); err != nil {
			return c, fmt.Errorf("%s: %w", name, err)
		}
	}

	for _, s := range Stages() {
		name := envKey(string(s) + ".enabled")
		v, ok := lookup(name)
		if !ok || v == "" {
			continue
		}
		on, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("%w: %s: %w", ErrInvalidParameter, name, err)
		}
		_ = c.SetEnabled(s, on)
	}

	return c, nil
}
