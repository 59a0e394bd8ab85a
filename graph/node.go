// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"slices"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// Node is a processing unit in the graph.
type Node interface {
	// Connect routes this node's output into dst's input.
	Connect(dst Node)
	// ConnectParam routes this node's output into p as a modulation source.
	ConnectParam(p *Param)
	// Disconnect removes every outgoing connection. It is safe to call
	// more than once.
	Disconnect()

	base() *nodeBase
}

// channelMode decides how many channels a node's inputs are mixed to.
type channelMode int

const (
	modeMax        channelMode = iota // widest input
	modeClampedMax                    // widest input, at most count
	modeExplicit                      // always count
)

// processor is the per-kind rendering step. in is nil when nothing is
// connected or the inputs were not pulled.
type processor interface {
	process(in [][]float64) [][]float64
}

// inputGate is implemented by processors that can decide, before their
// inputs are pulled, that the inputs are not needed for this quantum.
type inputGate interface {
	wantsInput() bool
}

// nodeBase carries connections and per-quantum memoization for every node.
type nodeBase struct {
	e    *engine
	proc processor

	mode  channelMode
	count int

	inputs    []*nodeBase
	outNodes  []*nodeBase
	outParams []*Param

	tick uint64
	busy bool
	out  [][]float64

	inBuf [][]float64
	pulls [][][]float64
	mono  []float64 // stereo to mono scratch
}

func (n *nodeBase) init(e *engine, proc processor, mode channelMode, count int) {
	n.e = e
	n.proc = proc
	n.mode = mode
	n.count = count
}

func (n *nodeBase) base() *nodeBase { return n }

func (n *nodeBase) Connect(dst Node) {
	n.e.mu.Lock()
	defer n.e.mu.Unlock()

	d := dst.base()
	if slices.Contains(d.inputs, n) {
		return
	}
	d.inputs = append(d.inputs, n)
	n.outNodes = append(n.outNodes, d)
}

func (n *nodeBase) ConnectParam(p *Param) {
	n.e.mu.Lock()
	defer n.e.mu.Unlock()

	if slices.Contains(p.inputs, n) {
		return
	}
	p.inputs = append(p.inputs, n)
	n.outParams = append(n.outParams, p)
}

func (n *nodeBase) Disconnect() {
	n.e.mu.Lock()
	defer n.e.mu.Unlock()

	for _, d := range n.outNodes {
		d.inputs = slices.DeleteFunc(d.inputs, func(x *nodeBase) bool { return x == n })
	}
	for _, p := range n.outParams {
		p.inputs = slices.DeleteFunc(p.inputs, func(x *nodeBase) bool { return x == n })
	}
	n.outNodes = nil
	n.outParams = nil
}

// pull returns this node's output for quantum tick, computing it at most
// once. A node re-entered while it is being computed is part of a cycle
// without a delay and contributes silence.
func (n *nodeBase) pull(tick uint64) [][]float64 {
	if n.tick == tick {
		return n.out
	}
	if n.busy {
		return nil
	}

	n.busy = true
	var in [][]float64
	if g, ok := n.proc.(inputGate); !ok || g.wantsInput() {
		in = n.mixInputs(tick)
	}
	n.out = n.proc.process(in)
	n.busy = false
	n.tick = tick

	return n.out
}

// mixInputs pulls every input and sums them into inBuf using the node's
// channel mode. It returns nil when there is nothing to mix.
func (n *nodeBase) mixInputs(tick uint64) [][]float64 {
	n.pulls = n.pulls[:0]
	widest := 0
	for _, src := range n.inputs {
		out := src.pull(tick)
		if len(out) == 0 {
			continue
		}
		n.pulls = append(n.pulls, out)
		widest = max(widest, len(out))
	}

	channels := widest
	switch n.mode {
	case modeClampedMax:
		channels = min(widest, n.count)
	case modeExplicit:
		channels = n.count
	}

	if len(n.pulls) == 0 && n.mode != modeExplicit {
		return nil
	}

	n.inBuf = ensureChannels(n.inBuf, channels)
	for _, ch := range n.inBuf {
		clear(ch)
	}
	for _, src := range n.pulls {
		n.mono = mixInto(n.inBuf, src, n.mono)
	}

	return n.inBuf
}

// ensureChannels resizes buf to the given channel count of Quantum frames,
// reusing existing storage.
func ensureChannels(buf [][]float64, channels int) [][]float64 {
	for len(buf) < channels {
		buf = append(buf, make([]float64, Quantum))
	}
	return buf[:channels]
}

// mixInto adds src to dst. Mono to stereo copies, stereo to mono averages,
// anything else maps channels one to one and drops the rest. scratch holds
// the stereo average and is returned, grown if needed.
func mixInto(dst, src [][]float64, scratch []float64) []float64 {
	switch {
	case len(src) == len(dst):
		for c := range dst {
			vecmath.AddBlockInPlace(dst[c], src[c])
		}
	case len(src) == 1 && len(dst) == 2:
		vecmath.AddBlockInPlace(dst[0], src[0])
		vecmath.AddBlockInPlace(dst[1], src[0])
	case len(src) == 2 && len(dst) == 1:
		if len(scratch) < len(dst[0]) {
			scratch = make([]float64, len(dst[0]))
		}
		scratch = scratch[:len(dst[0])]
		// AddMulBlock computes (a+b)*scale
		vecmath.AddMulBlock(scratch, src[0], src[1], 0.5)
		vecmath.AddBlockInPlace(dst[0], scratch)
	default:
		for c := range min(len(src), len(dst)) {
			vecmath.AddBlockInPlace(dst[c], src[c])
		}
	}
	return scratch
}

// downmixMono averages every channel of src into dst.
func downmixMono(dst []float64, src [][]float64) {
	clear(dst)
	for _, ch := range src {
		vecmath.AddBlockInPlace(dst, ch)
	}
	if len(src) > 1 {
		vecmath.ScaleBlockInPlace(dst, 1/float64(len(src)))
	}
}
