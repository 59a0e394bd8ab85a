// SPDX-License-Identifier: EPL-2.0

package transport

import (
	"fmt"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ik5/audtrim/fade"
	"github.com/ik5/audtrim/router"
	"github.com/ik5/audtrim/utils"
)

// Phase is the playback state.
type Phase int

const (
	Stopped Phase = iota
	Playing
)

func (p Phase) String() string {
	switch p {
	case Stopped:
		return "stopped"
	case Playing:
		return "playing"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Clock is the monotonic time source, in seconds. A graph context is one.
type Clock interface {
	CurrentTime() float64
}

// Builder builds a fresh graph on the live context for the loaded buffer.
type Builder func() (*router.Handle, error)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the entry the controller logs through.
func WithLogger(log *logrus.Entry) Option {
	return func(c *Controller) { c.log = log }
}

// Controller owns the live graph and the playback position. It is safe
// for concurrent use.
type Controller struct {
	mtx sync.Mutex

	clock Clock
	build Builder
	log   *logrus.Entry

	duration float64 // 0 when nothing is loaded
	trim     Trim
	fades    fade.Spec

	phase  Phase
	handle *router.Handle

	positionAnchor float64
	clockAnchor    float64
}

// New creates a controller with nothing loaded.
func New(clock Clock, build Builder, opts ...Option) *Controller {
	c := &Controller{
		clock: clock,
		build: build,
		fades: fade.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logrus.NewEntry(logrus.StandardLogger())
	}
	return c
}

// Load resets the controller for a buffer of duration seconds: playback
// stops, the trim covers the whole buffer and the cursor goes to 0.
func (c *Controller) Load(duration float64) error {
	if !(duration > 0) || math.IsInf(duration, 0) {
		return ErrNoBuffer
	}

	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.halt()
	c.duration = duration
	c.trim = Trim{Start: 0, End: duration}
	c.positionAnchor = 0
	return nil
}

// Unload stops playback and forgets the buffer.
func (c *Controller) Unload() {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.halt()
	c.duration = 0
	c.trim = Trim{}
	c.positionAnchor = 0
}

func (c *Controller) Loaded() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.duration > 0
}

// Duration is the loaded buffer's length in seconds.
func (c *Controller) Duration() float64 {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.duration
}

// Play starts playback from the cursor. A cursor outside [Start, End)
// snaps to Start first. The fade-in applies only when playback begins at
// the trim start.
func (c *Controller) Play() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.duration <= 0 {
		return ErrNoBuffer
	}
	if c.phase == Playing {
		return ErrAlreadyPlaying
	}
	return c.play()
}

func (c *Controller) play() error {
	if err := c.trim.Validate(c.duration); err != nil {
		return err
	}

	cursor := c.positionAnchor
	if cursor < c.trim.Start || cursor >= c.trim.End {
		cursor = c.trim.Start
	}
	length := c.trim.End - cursor

	if c.handle == nil {
		h, err := c.build()
		if err != nil {
			return fmt.Errorf("build graph: %w", err)
		}
		c.handle = h
	}
	h := c.handle

	now := c.clock.CurrentTime()
	fade.Schedule(h.PreFX.Gain(), now, length, cursor == c.trim.Start, c.fades)

	h.Source.OnEnded(func() { c.ended(h) })
	if err := h.Source.Start(now, cursor, length); err != nil {
		// sources start once; a used handle is replaced on the next play
		c.discard()
		return fmt.Errorf("start source: %w", err)
	}

	c.phase = Playing
	c.positionAnchor = cursor
	c.clockAnchor = now

	c.log.WithFields(logrus.Fields{
		"function": "Play",
		"cursor":   cursor,
		"length":   length,
		"at":       now,
	}).Debug("Playback started")

	return nil
}

// ended runs when h's source reaches its stop frame.
func (c *Controller) ended(h *router.Handle) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.handle != h || c.phase != Playing {
		return
	}
	c.finish()
}

// finish stops at the trim end.
func (c *Controller) finish() {
	c.halt()
	c.positionAnchor = c.trim.End

	c.log.WithFields(logrus.Fields{
		"function": "finish",
		"position": c.trim.End,
	}).Debug("Playback reached trim end")
}

// Pause stops playback keeping the current position. The graph is
// discarded; the next Play builds a fresh one.
func (c *Controller) Pause() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.phase != Playing {
		return ErrNotPlaying
	}
	pos := c.position()
	c.halt()
	c.positionAnchor = pos
	return nil
}

// Stop ends playback. With resetToStart the cursor returns to the trim
// start, otherwise it stays where playback was. Stopping while stopped is
// fine.
func (c *Controller) Stop(resetToStart bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	pos := c.position()
	c.halt()
	c.positionAnchor = pos
	if resetToStart {
		c.positionAnchor = c.trim.Start
	}
}

// halt tears the graph down and marks the controller stopped. The anchors
// are left to the caller.
func (c *Controller) halt() {
	c.discard()
	c.phase = Stopped
}

func (c *Controller) discard() {
	if c.handle != nil {
		c.handle.Teardown()
		c.handle = nil
	}
}

// position is the unclamped cursor. c.mtx must be held.
func (c *Controller) position() float64 {
	if c.phase != Playing {
		return c.positionAnchor
	}
	return min(c.positionAnchor+(c.clock.CurrentTime()-c.clockAnchor), c.trim.End)
}

// Position returns the cursor in seconds.
func (c *Controller) Position() float64 {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.position()
}

// Poll returns the cursor and whether playback is stopped. Playback that
// reached the trim end is stopped here, with the cursor on the end.
// Polling again after that returns the same result.
func (c *Controller) Poll() (position float64, stopped bool) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.phase == Playing && c.positionAnchor+(c.clock.CurrentTime()-c.clockAnchor) >= c.trim.End {
		c.finish()
	}
	return c.position(), c.phase == Stopped
}

// Seek moves the cursor to t, clamped to the trim region. Seeking while
// playing stops playback at the new position.
func (c *Controller) Seek(t float64) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.duration <= 0 {
		return ErrNoBuffer
	}
	if math.IsNaN(t) {
		return fmt.Errorf("%w: seek to NaN", ErrInvalidTrim)
	}
	c.halt()
	c.positionAnchor = utils.Clamp(t, c.trim.Start, c.trim.End)
	return nil
}

// SetTrimStart moves the start handle. t is clamped to the buffer and kept
// MinTrimLength before the end. A cursor the start moves past is pulled
// onto it; an earlier start leaves the cursor alone. Playback stops.
func (c *Controller) SetTrimStart(t float64) (Trim, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.duration <= 0 {
		return Trim{}, ErrNoBuffer
	}
	if math.IsNaN(t) {
		return c.trim, fmt.Errorf("%w: start is NaN", ErrInvalidTrim)
	}

	t = utils.Clamp(t, 0, c.duration)
	if t >= c.trim.End {
		t = max(c.trim.End-MinTrimLength, 0)
	}

	pos := c.position()
	c.halt()
	c.trim.Start = t
	c.positionAnchor = max(pos, t)
	return c.trim, nil
}

// SetTrimEnd moves the end handle. t is clamped to the buffer and kept
// MinTrimLength after the start. A cursor past the new end moves onto it.
// Playback stops.
func (c *Controller) SetTrimEnd(t float64) (Trim, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.duration <= 0 {
		return Trim{}, ErrNoBuffer
	}
	if math.IsNaN(t) {
		return c.trim, fmt.Errorf("%w: end is NaN", ErrInvalidTrim)
	}

	t = utils.Clamp(t, 0, c.duration)
	if t <= c.trim.Start {
		t = min(c.trim.Start+MinTrimLength, c.duration)
	}

	pos := c.position()
	c.halt()
	c.trim.End = t
	c.positionAnchor = min(pos, t)
	return c.trim, nil
}

// SetTrim replaces the whole region after validating it. The cursor moves
// to the new start.
func (c *Controller) SetTrim(t Trim) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.duration <= 0 {
		return ErrNoBuffer
	}
	if err := t.Validate(c.duration); err != nil {
		return err
	}

	c.halt()
	c.trim = t
	c.positionAnchor = t.Start
	return nil
}

func (c *Controller) Trim() Trim {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.trim
}

func (c *Controller) Phase() Phase {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.phase
}

// SetFades sets the fades used by the next Play.
func (c *Controller) SetFades(spec fade.Spec) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.fades = spec
}

func (c *Controller) Fades() fade.Spec {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.fades
}

// Handle returns the live graph, or nil when none is built.
func (c *Controller) Handle() *router.Handle {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.handle
}

// Resync replaces the graph after a routing change. Playback, if running,
// stops keeping its position, rebuild runs, and playback resumes on a new
// graph from the same position. rebuild may be nil and must not call back
// into c.
func (c *Controller) Resync(rebuild func()) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	wasPlaying := c.phase == Playing
	pos := c.position()
	c.halt()
	c.positionAnchor = pos

	if rebuild != nil {
		rebuild()
	}

	c.log.WithFields(logrus.Fields{
		"function": "Resync",
		"playing":  wasPlaying,
		"position": pos,
	}).Debug("Graph resynced")

	if !wasPlaying || c.duration <= 0 {
		return nil
	}
	return c.play()
}
