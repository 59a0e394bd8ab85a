// SPDX-License-Identifier: EPL-2.0

// Package transport drives live playback of the trimmed region.
//
// Position is derived from two anchors taken when playback starts: the
// buffer position and the clock time. While playing, position is
// positionAnchor + (now - clockAnchor). Nothing ticks; callers poll.
package transport
