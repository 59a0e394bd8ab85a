// SPDX-License-Identifier: EPL-2.0

// Package config holds the effect configuration snapshot.
//
// A Config has one typed struct per effect stage plus the master gain.
// Every continuous parameter is also reachable by a "<stage>.<param>" key
// through Get, Set and Params, which is what hosts and presets use. FromEnv
// and LoadPreset overlay values on top of Default.
package config
