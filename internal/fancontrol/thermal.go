package fancontrol

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	// CPUThermalPath is the RockPro64 CPU thermal zone.
	CPUThermalPath = "/sys/class/thermal/thermal_zone0/temp"
	// GPUThermalPath is the RockPro64 GPU thermal zone.
	GPUThermalPath = "/sys/class/thermal/thermal_zone1/temp"
)

// ThermalPath returns the default thermal zone for the CPU or the GPU.
func ThermalPath(gpu bool) string {
	if gpu {
		return GPUThermalPath
	}
	return CPUThermalPath
}

func parseMilliC(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: temperature empty", ErrSensorUnavailable)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: parse temperature %q: %v", ErrSensorUnavailable, s, err)
	}
	return float64(n) / 1000, nil
}

// SysfsThermal reads a Linux thermal zone that reports millidegrees C.
type SysfsThermal struct {
	Path string
}

// NewSysfsThermal returns a source for path, or the CPU zone if path is empty.
func NewSysfsThermal(path string) *SysfsThermal {
	if path == "" {
		path = CPUThermalPath
	}
	return &SysfsThermal{Path: path}
}

func (s *SysfsThermal) ReadTemperature() (float64, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSensorUnavailable, err)
	}
	return parseMilliC(string(b))
}
