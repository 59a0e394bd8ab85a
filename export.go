// SPDX-License-Identifier: EPL-2.0

package audtrim

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/curve"
	"github.com/ik5/audtrim/formats/wav"
	"github.com/ik5/audtrim/render"
)

// Render stops playback, keeping the cursor, and renders the trim region
// with the current settings and fades. The reverb uses the same impulse as
// live playback.
func (s *Session) Render(ctx context.Context) (*audio.Buffer, error) {
	tr, err := s.transport()
	if err != nil {
		return nil, err
	}
	tr.Stop(false)

	s.mtx.Lock()
	buf, cfg := s.buf, s.cfg
	s.mtx.Unlock()
	if buf == nil {
		return nil, ErrNoAudio
	}

	ir, err := s.impulses.Get(curve.DefaultImpulseKey(buf.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("reverb impulse: %w", err)
	}

	return render.Render(ctx, buf, cfg, tr.Trim(), tr.Fades(), render.Options{
		Impulse: ir,
		Logger:  s.log,
	})
}

// Export renders the trim region and writes it to dir as
// "<prefix>-YYYYMMDD-HHMMSS.wav", returning the path. The file appears
// only once it is complete. A second Export while one runs fails with
// ErrExportInProgress.
func (s *Session) Export(ctx context.Context, dir string) (string, error) {
	if !s.exporting.CompareAndSwap(false, true) {
		return "", ErrExportInProgress
	}
	defer s.exporting.Store(false)

	began := time.Now()
	out, err := s.Render(ctx)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}

	path := filepath.Join(dir, wav.Filename(s.prefix, s.now()))
	if err := writeAtomic(path, out); err != nil {
		return "", fmt.Errorf("export: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"function": "Export",
		"path":     path,
		"frames":   out.Frames(),
		"channels": out.NumChannels(),
		"elapsed":  time.Since(began),
	}).Info("Export written")

	return path, nil
}

// writeAtomic encodes buf into a temporary file next to path and renames
// it into place.
func writeAtomic(path string, buf *audio.Buffer) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err := wav.Encode(w, buf); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
