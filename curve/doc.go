// SPDX-License-Identifier: EPL-2.0

// Package curve builds the precomputed data the effects graph feeds to its
// nodes: synthetic reverb impulse responses and waveshaper distortion
// curves.
//
// Impulse responses are random and comparatively expensive to build, so
// ImpulseCache keeps one per parameter set. Tests pass a seeded *rand.Rand
// to get reproducible impulses.
package curve
