// SPDX-License-Identifier: EPL-2.0

package graph

// Destination is the graph's sink. Its output is what the context renders.
type Destination struct {
	nodeBase
}

func newDestination(e *engine) *Destination {
	d := &Destination{}
	d.init(e, d, modeExplicit, e.channels)
	return d
}

func (d *Destination) process(in [][]float64) [][]float64 { return in }
