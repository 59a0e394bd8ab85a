// SPDX-License-Identifier: EPL-2.0

package audtrim

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/config"
	"github.com/ik5/audtrim/curve"
	"github.com/ik5/audtrim/fade"
	"github.com/ik5/audtrim/graph"
	"github.com/ik5/audtrim/params"
	"github.com/ik5/audtrim/router"
	"github.com/ik5/audtrim/transport"
)

// Defaults for NewSession.
const (
	DefaultDebounce     = 50 * time.Millisecond
	DefaultExportPrefix = "audtrim"

	// LiveChannels is the channel count of the playback context.
	LiveChannels = 2
)

type Option func(*Session)

func WithLogger(log *logrus.Entry) Option {
	return func(s *Session) { s.log = log }
}

// WithRegistry replaces DefaultRegistry.
func WithRegistry(reg *audio.Registry) Option {
	return func(s *Session) { s.registry = reg }
}

// WithConfig sets the initial effect settings. They are validated by
// NewSession's first use, not here.
func WithConfig(cfg config.Config) Option {
	return func(s *Session) { s.cfg = cfg }
}

// WithDebounce sets how long routing toggles are collected before the
// graph is rebuilt.
func WithDebounce(d time.Duration) Option {
	return func(s *Session) { s.debounce = d }
}

// WithExportPrefix sets the file name prefix used by Export.
func WithExportPrefix(prefix string) Option {
	return func(s *Session) { s.prefix = prefix }
}

// WithRand seeds the reverb impulse noise.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.impulses = curve.NewImpulseCache(rng) }
}

// Session is one editing session: a decoded buffer, its effect settings
// and the live transport. It is safe for concurrent use.
//
// Methods that touch the transport never hold the session lock while doing
// so; the transport calls back into the session to build graphs.
type Session struct {
	mtx sync.Mutex

	log      *logrus.Entry
	registry *audio.Registry
	impulses *curve.ImpulseCache
	debounce time.Duration
	prefix   string
	now      func() time.Time

	cfg  config.Config
	buf  *audio.Buffer
	live *graph.Context
	tr   *transport.Controller

	timer   *time.Timer
	pending bool // a routing toggle waits for the debounce

	exporting atomic.Bool
}

// NewSession creates an empty session with the default config.
func NewSession(opts ...Option) *Session {
	s := &Session{
		registry: DefaultRegistry(),
		debounce: DefaultDebounce,
		prefix:   DefaultExportPrefix,
		now:      time.Now,
		cfg:      config.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logrus.NewEntry(logrus.StandardLogger())
	}
	if s.impulses == nil {
		s.impulses = curve.NewImpulseCache(nil)
	}
	return s
}

// LoadFile decodes the file at path, picking the decoder by extension.
func (s *Session) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return s.Load(f, filepath.Ext(path))
}

// Load decodes r as format and makes it the session's buffer. On failure
// the session is left empty.
func (s *Session) Load(r io.Reader, format string) error {
	buf, err := s.registry.Decode(format, r)
	if err != nil {
		s.Unload()
		s.log.WithFields(logrus.Fields{
			"function": "Load",
			"format":   format,
			"error":    err,
		}).Error("Decoding failed")
		return err
	}
	return s.LoadBuffer(buf)
}

// LoadBuffer makes buf the session's buffer. buf is not copied and must
// not be modified afterwards.
func (s *Session) LoadBuffer(buf *audio.Buffer) error {
	if err := buf.Validate(); err != nil {
		s.Unload()
		return err
	}

	live, err := graph.NewContext(buf.SampleRate, LiveChannels)
	if err != nil {
		s.Unload()
		return err
	}
	tr := transport.New(live, s.build, transport.WithLogger(s.log))
	if err := tr.Load(buf.Duration()); err != nil {
		s.Unload()
		return err
	}

	s.mtx.Lock()
	old := s.tr
	s.buf = buf
	s.live = live
	s.tr = tr
	s.pending = false
	s.mtx.Unlock()

	if old != nil {
		old.Unload()
	}

	s.log.WithFields(logrus.Fields{
		"function":    "LoadBuffer",
		"channels":    buf.NumChannels(),
		"sample_rate": buf.SampleRate,
		"duration":    buf.Duration(),
	}).Info("Audio loaded")

	return nil
}

// Unload stops playback and drops the buffer.
func (s *Session) Unload() {
	s.mtx.Lock()
	tr := s.tr
	s.buf = nil
	s.live = nil
	s.tr = nil
	s.pending = false
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mtx.Unlock()

	if tr != nil {
		tr.Unload()
	}
}

// Close releases the session. It is the same as Unload.
func (s *Session) Close() error {
	s.Unload()
	return nil
}

// Buffer returns the loaded buffer, or nil.
func (s *Session) Buffer() *audio.Buffer {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.buf
}

// Context returns the live graph context, or nil before a buffer is
// loaded. It changes on every load.
func (s *Session) Context() *graph.Context {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.live
}

// Config returns a copy of the effect settings.
func (s *Session) Config() config.Config {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.cfg
}

// transport returns the controller or ErrNoAudio.
func (s *Session) transport() (*transport.Controller, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.tr == nil {
		return nil, ErrNoAudio
	}
	return s.tr, nil
}

// build is the transport's graph builder.
func (s *Session) build() (*router.Handle, error) {
	s.mtx.Lock()
	live, buf, cfg := s.live, s.buf, s.cfg
	s.mtx.Unlock()

	if buf == nil {
		return nil, ErrNoAudio
	}
	ir, err := s.impulses.Get(curve.DefaultImpulseKey(buf.SampleRate))
	if err != nil {
		return nil, fmt.Errorf("reverb impulse: %w", err)
	}
	return router.Build(live, buf, cfg, router.Options{Impulse: ir, Logger: s.log})
}

// SetParam changes one continuous parameter and pushes it to the live
// graph.
func (s *Session) SetParam(key string, v float64) error {
	s.mtx.Lock()
	prev := s.cfg
	if err := s.cfg.Set(key, v); err != nil {
		s.mtx.Unlock()
		return err
	}
	next := s.cfg
	tr := s.tr
	s.mtx.Unlock()

	if tr != nil {
		params.Update(tr.Handle(), prev, next)
	}
	return nil
}

// SetEnabled switches a stage on or off. Gains follow at once. Toggling a
// serial stage also rebuilds the graph once no further toggle arrives
// within the debounce period; sends stay wired and only change gain.
func (s *Session) SetEnabled(stage config.Stage, on bool) error {
	s.mtx.Lock()
	prev := s.cfg
	if err := s.cfg.SetEnabled(stage, on); err != nil {
		s.mtx.Unlock()
		return err
	}
	next := s.cfg
	tr := s.tr
	if router.StructuralChange(prev, next) {
		s.schedule()
	}
	s.mtx.Unlock()

	if tr != nil {
		params.Update(tr.Handle(), prev, next)
	}
	return nil
}

// SetConfig replaces every setting. Serial stage toggles are debounced
// like SetEnabled.
func (s *Session) SetConfig(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mtx.Lock()
	prev := s.cfg
	s.cfg = cfg
	tr := s.tr
	if router.StructuralChange(prev, cfg) {
		s.schedule()
	}
	s.mtx.Unlock()

	if tr != nil {
		params.Update(tr.Handle(), prev, cfg)
	}
	return nil
}

// schedule (re)arms the rebuild timer. s.mtx must be held.
func (s *Session) schedule() {
	s.pending = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.resync)
}

// Sync runs a pending rebuild now instead of waiting for the debounce.
func (s *Session) Sync() error {
	s.mtx.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.mtx.Unlock()

	return s.rebuild()
}

func (s *Session) resync() {
	if err := s.rebuild(); err != nil {
		s.log.WithFields(logrus.Fields{
			"function": "resync",
			"error":    err,
		}).Error("Graph rebuild failed")
	}
}

func (s *Session) rebuild() error {
	s.mtx.Lock()
	if !s.pending {
		s.mtx.Unlock()
		return nil
	}
	s.pending = false
	tr := s.tr
	s.mtx.Unlock()

	if tr == nil {
		return nil
	}
	return tr.Resync(nil)
}

func (s *Session) Play() error {
	tr, err := s.transport()
	if err != nil {
		return err
	}
	return tr.Play()
}

func (s *Session) Pause() error {
	tr, err := s.transport()
	if err != nil {
		return err
	}
	return tr.Pause()
}

// Stop ends playback. With resetToStart the cursor returns to the trim
// start.
func (s *Session) Stop(resetToStart bool) {
	if tr, err := s.transport(); err == nil {
		tr.Stop(resetToStart)
	}
}

func (s *Session) Seek(t float64) error {
	tr, err := s.transport()
	if err != nil {
		return err
	}
	return tr.Seek(t)
}

func (s *Session) SetTrimStart(t float64) (transport.Trim, error) {
	tr, err := s.transport()
	if err != nil {
		return transport.Trim{}, err
	}
	return tr.SetTrimStart(t)
}

func (s *Session) SetTrimEnd(t float64) (transport.Trim, error) {
	tr, err := s.transport()
	if err != nil {
		return transport.Trim{}, err
	}
	return tr.SetTrimEnd(t)
}

func (s *Session) SetTrim(t transport.Trim) error {
	tr, err := s.transport()
	if err != nil {
		return err
	}
	return tr.SetTrim(t)
}

func (s *Session) Trim() (transport.Trim, error) {
	tr, err := s.transport()
	if err != nil {
		return transport.Trim{}, err
	}
	return tr.Trim(), nil
}

func (s *Session) SetFades(spec fade.Spec) error {
	tr, err := s.transport()
	if err != nil {
		return err
	}
	tr.SetFades(spec)
	return nil
}

// Poll returns the cursor and whether playback is stopped, stopping
// playback that reached the trim end.
func (s *Session) Poll() (position float64, stopped bool, err error) {
	tr, err := s.transport()
	if err != nil {
		return 0, true, err
	}
	position, stopped = tr.Poll()
	return position, stopped, nil
}

func (s *Session) Phase() transport.Phase {
	tr, err := s.transport()
	if err != nil {
		return transport.Stopped
	}
	return tr.Phase()
}
