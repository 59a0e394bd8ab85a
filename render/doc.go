// SPDX-License-Identifier: EPL-2.0

// Package render produces the processed trim region offline.
//
// The graph is the same one live playback uses, built on an offline
// context the length of the trim, with the fades anchored at time 0.
package render
