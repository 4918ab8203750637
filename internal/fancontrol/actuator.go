package fancontrol

import "fmt"

// Actuator backends.
const (
	BackendHwmon   = "hwmon"
	BackendPWMChip = "pwmchip"
	BackendGPIO    = "gpio"
	BackendRPIO    = "rpio"
)

// DefaultFrequencyHz is the PWM output frequency used when none is configured.
const DefaultFrequencyHz = 25000

// Actuator is an ActuatorSink backed by a device handle.
//
// Close releases the handle only. The last written level stays in effect so
// a one-shot invocation leaves the fan at the computed speed.
type Actuator interface {
	ActuatorSink
	Close() error
}

// ActuatorConfig selects and parameterizes a backend. Paths are explicit:
// nothing is probed.
type ActuatorConfig struct {
	Backend string
	// Path is the hwmon pwm attribute or the pwmchip directory.
	Path string
	// Channel is the pwmchip channel.
	Channel int
	// Pin is BCM GPIO numbering (gpio and rpio backends).
	Pin int
	// FrequencyHz is the PWM output frequency (pwmchip and rpio backends).
	FrequencyHz int
}

var (
	openGPIOFn = openGPIO
	openRPIOFn = openRPIO
)

// OpenActuator opens the backend named by cfg.Backend (hwmon if empty).
func OpenActuator(cfg ActuatorConfig) (Actuator, error) {
	if cfg.FrequencyHz <= 0 {
		cfg.FrequencyHz = DefaultFrequencyHz
	}
	switch cfg.Backend {
	case "", BackendHwmon:
		return NewHwmonPWM(cfg.Path), nil
	case BackendPWMChip:
		if cfg.Path == "" {
			return nil, fmt.Errorf("fancontrol: pwmchip backend needs a chip path")
		}
		d, err := OpenPWMChip(cfg.Path, cfg.Channel, cfg.FrequencyHz)
		if err != nil {
			return nil, err
		}
		return d, nil
	case BackendGPIO:
		return openGPIOFn(cfg.Pin)
	case BackendRPIO:
		return openRPIOFn(cfg.Pin, cfg.FrequencyHz)
	default:
		return nil, fmt.Errorf("fancontrol: unknown actuator backend %q", cfg.Backend)
	}
}

func checkLevel(level int) error {
	if level < 0 || level > RawMax {
		return fmt.Errorf("%w: expected 0 <= level <= %d, got %d", ErrOutOfRange, RawMax, level)
	}
	return nil
}
