package fancontrol

import (
	"fmt"
	"math"
)

// RawMax is the highest raw actuator level (full speed).
const RawMax = 255

// DefaultMinLevel is the raw floor used when no minimum duty is configured (~24 %).
const DefaultMinLevel = 60

// round rounds half to even, so x.5 results land on the even neighbour.
func round(v float64) int {
	return int(math.RoundToEven(v))
}

// PercentToLevel converts a duty cycle percentage (0..100) to a raw level.
func PercentToLevel(p int) (int, error) {
	if p < 0 || p > 100 {
		return 0, fmt.Errorf("%w: expected 0 <= percentage <= 100, got %d", ErrOutOfRange, p)
	}
	return round(float64(p) / 100 * RawMax), nil
}

// LevelToPercent converts a raw level to a duty cycle percentage.
// The caller guarantees 0 <= v <= RawMax.
func LevelToPercent(v int) int {
	return round(float64(v) / RawMax * 100)
}
