// SPDX-License-Identifier: EPL-2.0

// Package fade schedules fade-in and fade-out automation on a gain
// parameter. Live playback and offline rendering both go through Schedule,
// so the two paths produce the same envelope.
package fade

import "github.com/ik5/audtrim/graph"

// Floor is the level a fade-out ends on. Ramping to exactly zero is
// avoided.
const Floor = 0.0001

// Fade is one fade direction.
type Fade struct {
	Enabled  bool
	Duration float64 // seconds
}

// Spec holds both fade directions.
type Spec struct {
	In  Fade
	Out Fade
}

// Default returns both fades disabled at 0.5 s.
func Default() Spec {
	return Spec{
		In:  Fade{Duration: 0.5},
		Out: Fade{Duration: 0.5},
	}
}

// Schedule writes the fade envelope for a play segment of playDuration
// seconds starting at context time at. Pending automation from at onwards
// is dropped and the gain starts at 1. The fade-in runs only when
// fadeInApplies is set, typically when playback starts at the trim start.
func Schedule(p *graph.Param, at, playDuration float64, fadeInApplies bool, spec Spec) {
	p.CancelAndHoldAtTime(at)
	p.SetValueAtTime(1, at)

	if spec.In.Enabled && fadeInApplies && spec.In.Duration > 0 {
		d := min(spec.In.Duration, playDuration)
		p.SetValueAtTime(0, at)
		p.LinearRampToValueAtTime(1, at+d)
	}

	if spec.Out.Enabled && spec.Out.Duration > 0 && playDuration > 0 {
		d := min(spec.Out.Duration, playDuration)
		if start := at + playDuration - d; start > at {
			p.LinearRampToValueAtTime(1, start)
		}
		p.LinearRampToValueAtTime(Floor, at+playDuration)
	}
}
