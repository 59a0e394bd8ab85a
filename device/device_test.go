// SPDX-License-Identifier: EPL-2.0

package device

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/ik5/audtrim/graph"
	"github.com/ik5/audtrim/internal/audiotest"
)

func TestReader_RendersFloat32LE(t *testing.T) {
	t.Parallel()

	ctx, err := graph.NewContext(8000, 2)
	if err != nil {
		t.Fatalf("NewContext() error = %v", err)
	}
	src, err := graph.NewBufferSource(ctx, audiotest.Ramp(1000, 2, 8000))
	if err != nil {
		t.Fatalf("NewBufferSource() error = %v", err)
	}
	src.Connect(ctx.Destination())
	if err := src.Start(0, 0, 0); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	r := newReader(ctx)
	p := make([]byte, 100*2*4+3)
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if n != 100*2*4 {
		t.Fatalf("Read() = %d bytes, want %d", n, 100*2*4)
	}

	// ramp: channel 0 rises from -1, channel 1 falls from 1
	left := math.Float32frombits(binary.LittleEndian.Uint32(p[0:]))
	right := math.Float32frombits(binary.LittleEndian.Uint32(p[4:]))
	if left != -1 || right != 1 {
		t.Errorf("first frame = (%v, %v), want (-1, 1)", left, right)
	}

	if got := ctx.CurrentTime(); got != float64(graph.Quantum)/8000 {
		t.Errorf("CurrentTime() = %v, want one quantum", got)
	}
}

func TestReader_PartialFrame(t *testing.T) {
	t.Parallel()

	ctx, _ := graph.NewContext(8000, 2)
	r := newReader(ctx)

	n, err := r.Read(make([]byte, 7))
	if n != 0 || err != nil {
		t.Errorf("Read(7 bytes) = (%d, %v), want (0, nil)", n, err)
	}
	if got := ctx.CurrentTime(); got != 0 {
		t.Errorf("CurrentTime() = %v, want 0", got)
	}
}

func BenchmarkReader_Read(b *testing.B) {
	ctx, _ := graph.NewContext(44100, 2)
	r := newReader(ctx)
	p := make([]byte, 4096)

	b.ReportAllocs()
	for b.Loop() {
		if _, err := r.Read(p); err != nil {
			b.Fatal(err)
		}
	}
}
