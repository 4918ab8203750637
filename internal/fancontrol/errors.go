package fancontrol

import "errors"

var (
	// ErrOutOfRange reports a percentage or raw level outside its valid range.
	ErrOutOfRange = errors.New("fancontrol: value out of range")
	// ErrInvalidConfiguration reports an inverted control window.
	ErrInvalidConfiguration = errors.New("fancontrol: minimum temperature higher than maximum temperature")
	// ErrSensorUnavailable reports that the temperature could not be read.
	ErrSensorUnavailable = errors.New("fancontrol: sensor unavailable")
	// ErrActuatorUnavailable reports that the fan level could not be written.
	ErrActuatorUnavailable = errors.New("fancontrol: actuator unavailable")
	// ErrRecord reports a failed history append. The duty was already applied.
	ErrRecord = errors.New("fancontrol: record failed")
)
