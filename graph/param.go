// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"
	"slices"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/ik5/audtrim/utils"
)

type eventKind int

const (
	eventSet eventKind = iota
	eventRamp
)

type event struct {
	kind  eventKind
	time  float64
	value float64
}

// Param is an automatable node parameter.
//
// Its value at any instant is the automation timeline's value plus the
// mono sum of every node connected to it, clamped to [min, max]. Events
// at the same time keep insertion order.
type Param struct {
	e *engine

	def      float64
	min, max float64

	// base is the value before the first remaining event.
	base   float64
	events []event

	inputs []*nodeBase

	tick   uint64
	vals   []float64
	scr    []float64
	static bool // vals holds one constant for the current quantum
}

func newParam(e *engine, def, lo, hi float64) *Param {
	return &Param{
		e:    e,
		def:  def,
		min:  lo,
		max:  hi,
		base: def,
		vals: make([]float64, Quantum),
		scr:  make([]float64, Quantum),
	}
}

func (p *Param) Default() float64 { return p.def }

// Value returns the automation value at the context's current time.
func (p *Param) Value() float64 {
	p.e.mu.Lock()
	defer p.e.mu.Unlock()

	return p.clamp(p.valueAt(p.e.now()))
}

// ValueAt returns the automation value at time t, ignoring modulation inputs.
func (p *Param) ValueAt(t float64) float64 {
	p.e.mu.Lock()
	defer p.e.mu.Unlock()

	return p.clamp(p.valueAt(t))
}

// SetValue sets v immediately, as a set event at the current time.
func (p *Param) SetValue(v float64) {
	p.e.mu.Lock()
	defer p.e.mu.Unlock()

	p.insert(event{kind: eventSet, time: p.e.now(), value: v})
}

func (p *Param) SetValueAtTime(v, t float64) {
	p.e.mu.Lock()
	defer p.e.mu.Unlock()

	p.insert(event{kind: eventSet, time: max(t, 0), value: v})
}

// LinearRampToValueAtTime ramps from the previous event's value to v,
// arriving at time t. With no previous event the ramp starts from the
// current value at the current time.
func (p *Param) LinearRampToValueAtTime(v, t float64) {
	p.e.mu.Lock()
	defer p.e.mu.Unlock()

	if len(p.events) == 0 {
		now := p.e.now()
		p.insert(event{kind: eventSet, time: now, value: p.valueAt(now)})
	}
	p.insert(event{kind: eventRamp, time: max(t, 0), value: v})
}

// CancelScheduledValues removes every event at or after t.
func (p *Param) CancelScheduledValues(t float64) {
	p.e.mu.Lock()
	defer p.e.mu.Unlock()

	p.cancelFrom(t)
}

// CancelAndHoldAtTime removes events at or after t and holds the value the
// timeline had at t. A ramp in progress at t is cut short at that value.
func (p *Param) CancelAndHoldAtTime(t float64) {
	p.e.mu.Lock()
	defer p.e.mu.Unlock()

	t = max(t, 0)
	held := p.valueAt(t)

	kind := eventSet
	if i := p.firstAtOrAfter(t); i > 0 && i < len(p.events) && p.events[i].kind == eventRamp {
		kind = eventRamp
	}
	p.cancelFrom(t)
	p.events = append(p.events, event{kind: kind, time: t, value: held})
}

func (p *Param) firstAtOrAfter(t float64) int {
	i := slices.IndexFunc(p.events, func(ev event) bool { return ev.time >= t })
	if i < 0 {
		return len(p.events)
	}
	return i
}

// cancelFrom drops events with time >= t.
func (p *Param) cancelFrom(t float64) {
	p.events = p.events[:p.firstAtOrAfter(t)]
}

func (p *Param) insert(ev event) {
	i := len(p.events)
	for i > 0 && p.events[i-1].time > ev.time {
		i--
	}
	p.events = slices.Insert(p.events, i, ev)
}

// valueAt evaluates the automation timeline at t. p.e.mu must be held.
func (p *Param) valueAt(t float64) float64 {
	v := p.base
	vt := math.Inf(-1)

	for _, ev := range p.events {
		if ev.time <= t {
			v, vt = ev.value, ev.time
			continue
		}
		if ev.kind == eventRamp && !math.IsInf(vt, -1) && ev.time > vt {
			return utils.Lerp(v, ev.value, (t-vt)/(ev.time-vt))
		}
		break
	}

	return v
}

// prune drops events that can no longer influence values at or after now.
func (p *Param) prune(now float64) {
	n := 0
	for len(p.events)-n >= 2 && p.events[n+1].time <= now {
		p.base = p.events[n].value
		n++
	}
	if n > 0 {
		p.events = slices.Delete(p.events, 0, n)
	}
}

func (p *Param) clamp(v float64) float64 {
	return utils.Clamp(v, p.min, p.max)
}

// values returns the per-frame values for quantum tick, computed once.
func (p *Param) values(tick uint64) []float64 {
	if p.tick == tick {
		return p.vals
	}
	p.tick = tick

	now := p.e.now()
	p.prune(now)

	p.static = p.constantFrom(now)
	if p.static {
		v := p.valueAt(now)
		for i := range p.vals {
			p.vals[i] = v
		}
	} else {
		step := 1 / p.e.rate
		for i := range p.vals {
			p.vals[i] = p.valueAt(now + float64(i)*step)
		}
	}

	for _, src := range p.inputs {
		out := src.pull(tick)
		if len(out) == 0 {
			continue
		}
		p.static = false
		downmixMono(p.scr, out)
		vecmath.AddBlockInPlace(p.vals, p.scr)
	}

	for i, v := range p.vals {
		p.vals[i] = p.clamp(v)
	}

	return p.vals
}

// constantFrom reports whether the timeline is flat for the whole quantum
// starting at now.
func (p *Param) constantFrom(now float64) bool {
	end := now + Quantum/p.e.rate
	for _, ev := range p.events {
		if ev.time > now && ev.time < end {
			return false
		}
		if ev.time >= end && ev.kind == eventRamp {
			return false
		}
	}
	return true
}

// isZero reports whether the last computed quantum was silent: constant
// zero with no modulation.
func (p *Param) isZero() bool {
	return p.static && len(p.inputs) == 0 && p.vals[0] == 0
}

// kValue returns the value at the start of quantum tick, for parameters
// evaluated once per quantum.
func (p *Param) kValue(tick uint64) float64 {
	return p.values(tick)[0]
}
