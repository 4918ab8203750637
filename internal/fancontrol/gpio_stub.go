//go:build !linux || (!arm && !arm64)

package fancontrol

import "fmt"

func openGPIO(pin int) (Actuator, error) {
	return nil, fmt.Errorf("%w: gpio unsupported on this platform", ErrActuatorUnavailable)
}
