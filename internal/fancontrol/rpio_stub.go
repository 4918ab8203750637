//go:build !linux || (!arm && !arm64)

package fancontrol

import "fmt"

func openRPIO(pin, frequencyHz int) (Actuator, error) {
	return nil, fmt.Errorf("%w: rpio unsupported on this platform", ErrActuatorUnavailable)
}
