// SPDX-License-Identifier: EPL-2.0

package render

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/config"
	"github.com/ik5/audtrim/curve"
	"github.com/ik5/audtrim/fade"
	"github.com/ik5/audtrim/graph"
	"github.com/ik5/audtrim/router"
	"github.com/ik5/audtrim/transport"
)

type Options struct {
	// Impulse is the reverb impulse response. When nil a default impulse
	// is synthesized, so pass the live one to get identical reverb.
	Impulse *audio.Buffer

	Logger *logrus.Entry
}

// Frames returns the number of frames a render of trim produces at
// sampleRate.
func Frames(trim transport.Trim, sampleRate int) int {
	return int(math.Floor(trim.Length() * float64(sampleRate)))
}

// Render processes buf between trim.Start and trim.End through the effects
// described by cfg and returns a new buffer with the source's channel
// count and sample rate. The region starts at the trim start, so the
// fade-in applies whenever it is enabled.
func Render(ctx context.Context, buf *audio.Buffer, cfg config.Config, trim transport.Trim, fades fade.Spec, opts Options) (*audio.Buffer, error) {
	if buf == nil {
		return nil, ErrNoBuffer
	}
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if err := trim.Validate(buf.Duration()); err != nil {
		return nil, err
	}

	frames := Frames(trim, buf.SampleRate)
	if frames <= 0 {
		return nil, ErrNoFrames
	}

	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	impulse := opts.Impulse
	if impulse == nil {
		key := curve.DefaultImpulseKey(buf.SampleRate)
		ir, err := curve.BuildReverbImpulse(key.SampleRate, key.Duration, key.Decay, key.Reverse, nil)
		if err != nil {
			return nil, fmt.Errorf("reverb impulse: %w", err)
		}
		impulse = ir
	}

	octx, err := graph.NewOfflineContext(buf.NumChannels(), frames, buf.SampleRate)
	if err != nil {
		return nil, err
	}

	h, err := router.Build(octx, buf, cfg, router.Options{Impulse: impulse, Logger: log})
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	defer h.Teardown()

	length := trim.Length()
	fade.Schedule(h.PreFX.Gain(), 0, length, true, fades)
	if err := h.Source.Start(0, trim.Start, length); err != nil {
		return nil, fmt.Errorf("start source: %w", err)
	}

	began := time.Now()
	out, err := octx.StartRendering(ctx)
	if err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"function": "Render",
		"frames":   frames,
		"channels": out.NumChannels(),
		"chain":    h.Chain(),
		"elapsed":  time.Since(began),
	}).Debug("Offline render finished")

	return out, nil
}
