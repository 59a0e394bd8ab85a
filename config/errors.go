// SPDX-License-Identifier: EPL-2.0

package config

import "errors"

var (
	ErrInvalidParameter = errors.New("config: invalid parameter value")
	ErrUnknownParameter = errors.New("config: unknown parameter")
	ErrUnknownStage     = errors.New("config: unknown stage")
)
