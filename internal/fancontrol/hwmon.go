package fancontrol

import (
	"fmt"
	"strconv"
)

// DefaultHwmonPWMPath is the RockPro64 pwm-fan attribute.
const DefaultHwmonPWMPath = "/sys/devices/platform/pwm-fan/hwmon/hwmon2/pwm1"

// HwmonPWM writes raw levels (0..255) to a hwmon pwmN attribute.
type HwmonPWM struct {
	Path string
}

func NewHwmonPWM(path string) *HwmonPWM {
	if path == "" {
		path = DefaultHwmonPWMPath
	}
	return &HwmonPWM{Path: path}
}

func (h *HwmonPWM) WriteLevel(level int) error {
	if err := checkLevel(level); err != nil {
		return err
	}
	if err := writeSysfs(h.Path, strconv.Itoa(level)); err != nil {
		return fmt.Errorf("%w: %v", ErrActuatorUnavailable, err)
	}
	return nil
}

func (h *HwmonPWM) Close() error { return nil }
