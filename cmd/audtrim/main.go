// SPDX-License-Identifier: EPL-2.0

// Command audtrim trims an audio file, runs it through the effect chain and
// either plays it or exports it as 16-bit WAV.
//
// Usage:
//
//	audtrim export [flags] <input>
//	audtrim play [flags] <input>
//	audtrim preset [flags]
//
// Effect settings start from the AUDTRIM_* environment, are replaced by
// -preset when given, and are then adjusted by -set, -enable and -disable.
//
// Examples:
//
//	audtrim export -start 1.5 -end 9 -fade-out 0.5 -o out song.mp3
//	audtrim play -enable reverb -set reverb.mix=0.4 voice.wav
//	audtrim preset -enable delay -set delay.time=0.25 > echo.json
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrim"
	"github.com/ik5/audtrim/config"
	"github.com/ik5/audtrim/device"
)

// pollInterval is how often play checks the transport.
const pollInterval = 50 * time.Millisecond

var errUsage = errors.New("usage")

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout, log); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.WithError(err).Fatal("audtrim failed")
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage:\n\n")
	fmt.Fprintf(w, "  audtrim export [flags] <input>   render the trim region to a WAV file\n")
	fmt.Fprintf(w, "  audtrim play [flags] <input>     play the trim region\n")
	fmt.Fprintf(w, "  audtrim preset [flags]           print the effect settings as JSON\n\n")
	fmt.Fprintf(w, "Run \"audtrim <command> -h\" for the flags of a command.\n")
}

func run(ctx context.Context, args []string, stdout io.Writer, log *logrus.Logger) error {
	if len(args) == 0 {
		usage(os.Stderr)
		return errUsage
	}

	cmd, args := args[0], args[1:]
	fs := flag.NewFlagSet("audtrim "+cmd, flag.ContinueOnError)

	var opts options
	opts.register(fs)

	switch cmd {
	case "export":
		dir := fs.String("o", ".", "output `directory`")
		prefix := fs.String("prefix", audtrim.DefaultExportPrefix, "output file name prefix")
		if err := parse(fs, args, 1); err != nil {
			return err
		}
		s, err := opts.session(log, fs.Arg(0), audtrim.WithExportPrefix(*prefix))
		if err != nil {
			return err
		}
		defer s.Close()

		path, err := s.Export(ctx, *dir)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, path)
		return nil

	case "play":
		if err := parse(fs, args, 1); err != nil {
			return err
		}
		s, err := opts.session(log, fs.Arg(0))
		if err != nil {
			return err
		}
		defer s.Close()

		return play(ctx, s, log)

	case "preset":
		if err := parse(fs, args, 0); err != nil {
			return err
		}
		cfg, err := opts.config()
		if err != nil {
			return err
		}
		return config.SavePreset(stdout, cfg)

	default:
		usage(os.Stderr)
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// parse parses args and checks the positional argument count.
func parse(fs *flag.FlagSet, args []string, positional int) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != positional {
		fs.Usage()
		return fmt.Errorf("%w: want %d argument(s), got %d", errUsage, positional, fs.NArg())
	}
	return nil
}

// play plays s through the default output device until the trim end or
// until ctx is cancelled.
func play(ctx context.Context, s *audtrim.Session, log *logrus.Logger) error {
	out, err := device.Open(s.Context())
	if err != nil {
		return err
	}
	defer out.Close()

	if err := s.Play(); err != nil {
		return err
	}

	trim, _ := s.Trim()
	log.WithFields(logrus.Fields{
		"start": trim.Start,
		"end":   trim.End,
	}).Info("Playing")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Stop(false)
			pos, _, _ := s.Poll()
			log.WithField("position", pos).Info("Interrupted")
			return nil

		case <-ticker.C:
			if err := out.Err(); err != nil {
				return fmt.Errorf("output device: %w", err)
			}
			pos, stopped, err := s.Poll()
			if err != nil {
				return err
			}
			log.WithField("position", pos).Debug("Position")
			if stopped {
				log.Info("Finished")
				return nil
			}
		}
	}
}
