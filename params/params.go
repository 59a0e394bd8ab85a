// SPDX-License-Identifier: EPL-2.0

package params

import (
	"slices"
	"strings"

	"github.com/ik5/audtrim/config"
	"github.com/ik5/audtrim/router"
)

// Apply writes every continuous parameter in cfg onto h. A nil handle is a
// no-op.
func Apply(h *router.Handle, cfg config.Config) {
	if h == nil {
		return
	}
	h.Set(cfg)
}

// Update writes only what Changed reports between prev and next, and
// returns those keys. A nil handle writes nothing.
func Update(h *router.Handle, prev, next config.Config) []string {
	keys := Changed(prev, next)
	if h == nil {
		return keys
	}
	for _, key := range keys {
		// keys come from config.Keys, so SetKey cannot fail
		_ = h.SetKey(key, next)
	}
	return keys
}

// Changed returns the parameter keys whose value differs between prev and
// next, plus every key of a stage whose enabled flag flipped. Keys keep the
// order of config.Keys.
func Changed(prev, next config.Config) []string {
	toggled := config.Toggled(prev, next)
	a, b := prev.Params(), next.Params()

	var keys []string
	for _, key := range config.Keys() {
		stage, _, _ := strings.Cut(key, ".")
		if a[key] != b[key] || slices.Contains(toggled, config.Stage(stage)) {
			keys = append(keys, key)
		}
	}
	return keys
}
