//go:build linux && (arm || arm64)

package fancontrol

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/warthog618/go-gpiocdev"
)

// openGPIO drives the given BCM GPIO as a digital output through the Linux
// GPIO character device.
//
// This is intended for 2-wire fans switched by a transistor/MOSFET.
// Any level > 0 switches the fan ON, level 0 switches it OFF.
func openGPIO(pin int) (Actuator, error) {
	if pin <= 0 {
		return nil, fmt.Errorf("fancontrol: invalid gpio pin %d", pin)
	}

	lineName := fmt.Sprintf("GPIO%d", pin)

	chipCandidates := []string{"/dev/gpiochip0", "/dev/gpiochip4"}
	entries, _ := os.ReadDir("/dev")
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "gpiochip") {
			chipCandidates = append(chipCandidates, filepath.Join("/dev", name))
		}
	}

	for _, chipPath := range chipCandidates {
		chip, err := gpiocdev.NewChip(chipPath)
		if err != nil {
			continue
		}
		offset, err := chip.FindLine(lineName)
		if err != nil {
			_ = chip.Close()
			continue
		}
		line, err := chip.RequestLine(offset, gpiocdev.AsOutput(0), gpiocdev.WithConsumer("fanctl"))
		if err != nil {
			_ = chip.Close()
			continue
		}
		return &gpioFan{chip: chip, line: line}, nil
	}

	return nil, fmt.Errorf("%w: gpio line %q not found (or busy)", ErrActuatorUnavailable, lineName)
}

type gpioFan struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

func (g *gpioFan) WriteLevel(level int) error {
	if err := checkLevel(level); err != nil {
		return err
	}
	if g == nil || g.line == nil {
		return fmt.Errorf("%w: gpio line not requested", ErrActuatorUnavailable)
	}
	v := 0
	if level > 0 {
		v = 1
	}
	if err := g.line.SetValue(v); err != nil {
		return fmt.Errorf("%w: %v", ErrActuatorUnavailable, err)
	}
	return nil
}

func (g *gpioFan) Close() error {
	if g == nil || g.line == nil {
		return nil
	}
	err := g.line.Close()
	g.line = nil
	if g.chip != nil {
		_ = g.chip.Close()
		g.chip = nil
	}
	return err
}
