// SPDX-License-Identifier: EPL-2.0

// Package graph is a small block-based audio node graph.
//
// Nodes are created against a context, connected with Connect and
// ConnectParam, and rendered by pulling the context's Destination one
// quantum (128 frames) at a time. A Context is driven by an output device
// through Render; an OfflineContext renders a fixed length as fast as
// possible with StartRendering.
//
// # Scheduling
//
// Every Param carries an automation timeline of set and linear ramp events,
// evaluated per frame. Sources are scheduled with Start and Stop in context
// time and can be started once.
//
// # Cycles
//
// A cycle must pass through a Delay. The delay's output comes from history
// and its input is written after the quantum is rendered, so its delay is
// never shorter than one quantum. Any other cycle contributes silence.
//
// # Concurrency
//
// All control methods lock the context, so they can be called from any
// goroutine while a device renders. Callbacks registered with OnEnded run
// after the lock is released.
package graph
