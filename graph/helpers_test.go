// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"context"
	"math"
	"testing"

	"github.com/ik5/audtrim/audio"
)

func renderOffline(t testing.TB, channels, frames, rate int, build func(ctx *OfflineContext)) *audio.Buffer {
	t.Helper()

	ctx, err := NewOfflineContext(channels, frames, rate)
	if err != nil {
		t.Fatalf("NewOfflineContext() error = %v", err)
	}
	build(ctx)

	out, err := ctx.StartRendering(context.Background())
	if err != nil {
		t.Fatalf("StartRendering() error = %v", err)
	}
	return out
}

// startedSource creates a source for buf playing from time 0.
func startedSource(t testing.TB, ctx BaseContext, buf *audio.Buffer) *BufferSource {
	t.Helper()

	src, err := NewBufferSource(ctx, buf)
	if err != nil {
		t.Fatalf("NewBufferSource() error = %v", err)
	}
	if err := src.Start(0, 0, 0); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return src
}

func near(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}
