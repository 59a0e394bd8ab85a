// SPDX-License-Identifier: EPL-2.0

// Package params pushes continuous effect parameters onto a live graph.
//
// Writes are immediate sets at the context's current time. Nothing here
// changes connectivity or playback, so it is safe to call for every slider
// movement.
package params
