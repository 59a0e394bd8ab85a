// SPDX-License-Identifier: EPL-2.0

package config

// The graph keeps nodes of disabled stages alive, so their gains are driven
// from these effective values rather than the raw parameters.

// BassGain is the low shelf gain in dB, zero when EQ is off.
func (c Config) BassGain() float64 {
	if !c.EQ.Enabled {
		return 0
	}
	return c.EQ.Bass
}

// TrebleGain is the high shelf gain in dB, zero when EQ is off.
func (c Config) TrebleGain() float64 {
	if !c.EQ.Enabled {
		return 0
	}
	return c.EQ.Treble
}

// DistortionAmount is zero when distortion is off, giving the linear curve.
func (c Config) DistortionAmount() float64 {
	if !c.Distortion.Enabled {
		return 0
	}
	return c.Distortion.Amount
}

func (c Config) ReverbWet() float64 {
	if !c.Reverb.Enabled {
		return 0
	}
	return c.Reverb.Mix
}

func (c Config) DelayFeedback() float64 {
	if !c.Delay.Enabled {
		return 0
	}
	return c.Delay.Feedback
}

// DelayWet is 1 when the delay is on and 0 otherwise.
func (c Config) DelayWet() float64 {
	if !c.Delay.Enabled {
		return 0
	}
	return 1
}

func (c Config) FlangerDepth() float64 {
	if !c.Flanger.Enabled {
		return 0
	}
	return c.Flanger.Depth
}

func (c Config) FlangerWet() float64 {
	if !c.Flanger.Enabled {
		return 0
	}
	return c.Flanger.Mix
}
