// SPDX-License-Identifier: EPL-2.0

package main

import (
	"flag"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrim"
	"github.com/ik5/audtrim/config"
	"github.com/ik5/audtrim/fade"
)

type setting struct {
	key   string
	value float64
}

// settings collects repeated -set key=value flags.
type settings []setting

func (s *settings) String() string {
	parts := make([]string, 0, len(*s))
	for _, kv := range *s {
		parts = append(parts, kv.key+"="+strconv.FormatFloat(kv.value, 'g', -1, 64))
	}
	return strings.Join(parts, ",")
}

func (s *settings) Set(arg string) error {
	key, raw, ok := strings.Cut(arg, "=")
	if !ok || key == "" {
		return fmt.Errorf("want key=value, got %q", arg)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*s = append(*s, setting{key: key, value: v})
	return nil
}

// stages collects repeated stage name flags.
type stages []config.Stage

func (s *stages) String() string {
	parts := make([]string, len(*s))
	for i, st := range *s {
		parts[i] = string(st)
	}
	return strings.Join(parts, ",")
}

func (s *stages) Set(arg string) error {
	st := config.Stage(arg)
	if !slices.Contains(config.Stages(), st) {
		return fmt.Errorf("%w: %q", config.ErrUnknownStage, arg)
	}
	*s = append(*s, st)
	return nil
}

// options are the flags shared by every command.
type options struct {
	sets    settings
	enable  stages
	disable stages
	preset  string
	start   float64
	end     float64
	fadeIn  float64
	fadeOut float64
	verbose bool
}

func (o *options) register(fs *flag.FlagSet) {
	fs.Var(&o.sets, "set", "set a parameter, as `key=value` (repeatable)")
	fs.Var(&o.enable, "enable", "enable a `stage` (repeatable)")
	fs.Var(&o.disable, "disable", "disable a `stage` (repeatable)")
	fs.StringVar(&o.preset, "preset", "", "load effect settings from a JSON `file`")
	fs.Float64Var(&o.start, "start", 0, "trim start in `seconds`")
	fs.Float64Var(&o.end, "end", 0, "trim end in `seconds` (0 is the end of the file)")
	fs.Float64Var(&o.fadeIn, "fade-in", 0, "fade-in length in `seconds` (0 disables)")
	fs.Float64Var(&o.fadeOut, "fade-out", 0, "fade-out length in `seconds` (0 disables)")
	fs.BoolVar(&o.verbose, "v", false, "log debug output")
}

// config builds the effect settings: environment, then preset, then flags.
func (o *options) config() (config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}

	if o.preset != "" {
		f, err := os.Open(o.preset)
		if err != nil {
			return config.Config{}, err
		}
		defer f.Close()

		if cfg, err = config.LoadPreset(f); err != nil {
			return config.Config{}, fmt.Errorf("%s: %w", o.preset, err)
		}
	}

	for _, st := range o.enable {
		if err := cfg.SetEnabled(st, true); err != nil {
			return config.Config{}, err
		}
	}
	for _, st := range o.disable {
		if err := cfg.SetEnabled(st, false); err != nil {
			return config.Config{}, err
		}
	}
	for _, kv := range o.sets {
		if err := cfg.Set(kv.key, kv.value); err != nil {
			return config.Config{}, err
		}
	}

	return cfg, nil
}

func (o *options) fades() fade.Spec {
	return fade.Spec{
		In:  fade.Fade{Enabled: o.fadeIn > 0, Duration: o.fadeIn},
		Out: fade.Fade{Enabled: o.fadeOut > 0, Duration: o.fadeOut},
	}
}

// session loads path into a new session configured from the flags.
func (o *options) session(log *logrus.Logger, path string, extra ...audtrim.Option) (*audtrim.Session, error) {
	if o.verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := o.config()
	if err != nil {
		return nil, err
	}

	opts := append([]audtrim.Option{
		audtrim.WithLogger(logrus.NewEntry(log)),
		audtrim.WithConfig(cfg),
	}, extra...)
	s := audtrim.NewSession(opts...)

	if err := s.LoadFile(path); err != nil {
		return nil, err
	}
	if err := o.trim(s); err != nil {
		s.Close()
		return nil, err
	}
	if err := s.SetFades(o.fades()); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// trim applies -start and -end. The end goes first so a start past the
// old end is not pulled back.
func (o *options) trim(s *audtrim.Session) error {
	if o.end > 0 {
		if _, err := s.SetTrimEnd(o.end); err != nil {
			return err
		}
	}
	if o.start > 0 {
		if _, err := s.SetTrimStart(o.start); err != nil {
			return err
		}
	}
	return nil
}
