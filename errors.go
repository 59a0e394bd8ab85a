// SPDX-License-Identifier: EPL-2.0

package audtrim

import "errors"

var (
	ErrNoAudio          = errors.New("audtrim: no audio loaded")
	ErrExportInProgress = errors.New("audtrim: export already in progress")
)
