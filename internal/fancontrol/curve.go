package fancontrol

import "fmt"

// Window is the temperature range (degrees C) the fan ramps across.
// Below MinC the fan is off, at or above MaxC it runs at full speed.
type Window struct {
	MinC float64
	MaxC float64
}

// Evaluate returns the raw level for tempC on the linear ramp described by w.
//
// The window is validated on every call. MinC itself is inside the ramp
// (yielding level 0 from the interpolation), MaxC already saturates.
func Evaluate(tempC float64, w Window) (int, error) {
	if w.MinC > w.MaxC {
		return 0, fmt.Errorf("%w (min=%v max=%v)", ErrInvalidConfiguration, w.MinC, w.MaxC)
	}
	if tempC >= w.MaxC {
		return RawMax, nil
	}
	if tempC < w.MinC {
		return 0, nil
	}
	return round(RawMax / (w.MaxC - w.MinC) * (tempC - w.MinC)), nil
}
