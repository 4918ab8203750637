//go:build linux && (arm || arm64)

package fancontrol

import (
	"fmt"
	"strings"

	"github.com/stianeikeland/go-rpio"
)

// openRPIO drives a BCM2835-family hardware PWM pin through /dev/gpiomem.
//
// The PWM clock is set to frequencyHz*RawMax so that a cycle of RawMax ticks
// runs at frequencyHz and the raw level maps directly onto the duty length.
func openRPIO(pin, frequencyHz int) (Actuator, error) {
	model := BoardModel()
	if !strings.Contains(model, "Raspberry Pi") {
		return nil, fmt.Errorf("%w: rpio backend needs a Raspberry Pi (board %q)", ErrActuatorUnavailable, model)
	}
	// Pi 5 moved GPIO behind RP1; memory-mapped access no longer works there.
	if strings.Contains(model, "Raspberry Pi 5") {
		return nil, fmt.Errorf("%w: rpio backend does not support %q, use pwmchip", ErrActuatorUnavailable, model)
	}
	switch pin {
	case 12, 13, 18, 19:
	default:
		return nil, fmt.Errorf("fancontrol: gpio %d has no hardware pwm", pin)
	}
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrActuatorUnavailable, err)
	}
	p := rpio.Pin(pin)
	p.Mode(rpio.Pwm)
	p.Freq(frequencyHz * RawMax)
	return &rpioFan{pin: p}, nil
}

type rpioFan struct {
	pin    rpio.Pin
	closed bool
}

func (r *rpioFan) WriteLevel(level int) error {
	if err := checkLevel(level); err != nil {
		return err
	}
	if r.closed {
		return fmt.Errorf("%w: rpio closed", ErrActuatorUnavailable)
	}
	r.pin.DutyCycle(uint32(level), RawMax)
	return nil
}

// Close unmaps the GPIO memory; the PWM peripheral keeps its last setting.
func (r *rpioFan) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return rpio.Close()
}
