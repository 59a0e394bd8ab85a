// SPDX-License-Identifier: EPL-2.0

package wav

import "time"

// Filename returns "<prefix>-YYYYMMDD-HHMMSS.wav" for t.
func Filename(prefix string, t time.Time) string {
	return prefix + "-" + t.Format("20060102-150405") + ".wav"
}
