// SPDX-License-Identifier: EPL-2.0

package device

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/hajimehoshi/oto/v2"

	"github.com/ik5/audtrim/graph"
)

var ErrClosed = errors.New("device: output closed")

// Output is an open audio output playing one context.
type Output struct {
	mtx    sync.Mutex
	otoCtx *oto.Context
	player oto.Player
	closed bool
}

// Open starts playing ctx on the default output device. It blocks until
// the device is ready. oto allows one device context per process.
func Open(ctx *graph.Context) (*Output, error) {
	otoCtx, ready, err := oto.NewContext(int(ctx.SampleRate()), ctx.Channels(), oto.FormatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	player := otoCtx.NewPlayer(newReader(ctx))
	player.Play()

	return &Output{otoCtx: otoCtx, player: player}, nil
}

// Err returns the first playback error reported by the device.
func (o *Output) Err() error {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	if o.closed {
		return ErrClosed
	}
	return o.player.Err()
}

// Close stops playback. Calling it again returns nil.
func (o *Output) Close() error {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	if o.closed {
		return nil
	}
	o.closed = true
	o.player.Pause()
	return o.player.Close()
}

// reader renders whole frames of the context into float32 LE bytes.
type reader struct {
	ctx      *graph.Context
	channels int
	samples  []float32
}

func newReader(ctx *graph.Context) *reader {
	return &reader{ctx: ctx, channels: ctx.Channels()}
}

func (r *reader) Read(p []byte) (int, error) {
	n := len(p) / 4 / r.channels * r.channels
	if n == 0 {
		return 0, nil
	}

	if cap(r.samples) < n {
		r.samples = make([]float32, n)
	}
	samples := r.samples[:n]
	r.ctx.Render(samples)

	for i, v := range samples {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return n * 4, nil
}
