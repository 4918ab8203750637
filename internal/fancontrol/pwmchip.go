package fancontrol

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// exportWait bounds how long OpenPWMChip waits for an exported channel to appear.
var exportWait = 500 * time.Millisecond

// PWMChip drives a channel of /sys/class/pwm/pwmchipN.
//
// The raw level is mapped onto duty_cycle as a fraction of the period:
// level 0 gives 0 ns, RawMax gives the full period.
type PWMChip struct {
	chipPath string // /sys/class/pwm/pwmchipN
	pwmPath  string // /sys/class/pwm/pwmchipN/pwmM
	channel  int

	periodNS uint64
	enabled  bool
}

// OpenPWMChip exports channel on chipPath if needed and programs the period
// for frequencyHz. The channel is left disabled until the first WriteLevel.
func OpenPWMChip(chipPath string, channel int, frequencyHz int) (*PWMChip, error) {
	if channel < 0 {
		return nil, fmt.Errorf("fancontrol: invalid pwm channel %d", channel)
	}
	if frequencyHz <= 0 {
		return nil, fmt.Errorf("fancontrol: invalid frequency %d", frequencyHz)
	}
	d := &PWMChip{
		chipPath: chipPath,
		channel:  channel,
		pwmPath:  filepath.Join(chipPath, fmt.Sprintf("pwm%d", channel)),
	}
	if err := d.ensureExported(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrActuatorUnavailable, err)
	}
	if err := d.setPeriod(frequencyHz); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrActuatorUnavailable, err)
	}
	return d, nil
}

func (d *PWMChip) ensureExported() error {
	if _, err := os.Stat(d.pwmPath); err == nil {
		return nil
	}
	exportPath := filepath.Join(d.chipPath, "export")
	if err := writeSysfs(exportPath, strconv.Itoa(d.channel)); err != nil {
		// Exported by someone else in the meantime.
		if _, statErr := os.Stat(d.pwmPath); statErr == nil {
			return nil
		}
		return fmt.Errorf("export pwm: %w", err)
	}

	deadline := time.Now().Add(exportWait)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(d.pwmPath); err == nil {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	if _, err := os.Stat(d.pwmPath); err != nil {
		return fmt.Errorf("pwm path not created after export: %w", err)
	}
	return nil
}

func (d *PWMChip) setPeriod(hz int) error {
	periodNS := uint64(1_000_000_000 / hz)
	if periodNS == 0 {
		periodNS = 1
	}
	// The period can only be changed while disabled on most controllers.
	_ = d.writeBool("enable", false)
	d.enabled = false

	// duty_cycle must never exceed period, so shrink it first.
	if err := d.writeUint("duty_cycle", 0); err != nil {
		return err
	}
	if err := d.writeUint("period", periodNS); err != nil {
		return err
	}
	d.periodNS = periodNS
	return nil
}

// PeriodNS returns the programmed period in nanoseconds.
func (d *PWMChip) PeriodNS() uint64 { return d.periodNS }

func (d *PWMChip) WriteLevel(level int) error {
	if err := checkLevel(level); err != nil {
		return err
	}
	duty := uint64(math.Round(float64(d.periodNS) * float64(level) / RawMax))
	if duty > d.periodNS {
		duty = d.periodNS
	}
	if err := d.writeUint("duty_cycle", duty); err != nil {
		return fmt.Errorf("%w: %v", ErrActuatorUnavailable, err)
	}
	if !d.enabled {
		if err := d.writeBool("enable", true); err != nil {
			return fmt.Errorf("%w: %v", ErrActuatorUnavailable, err)
		}
		d.enabled = true
	}
	return nil
}

// Close leaves the channel exported and running at the last level.
func (d *PWMChip) Close() error { return nil }

func (d *PWMChip) writeUint(name string, v uint64) error {
	return writeSysfs(filepath.Join(d.pwmPath, name), strconv.FormatUint(v, 10))
}

func (d *PWMChip) writeBool(name string, v bool) error {
	val := "0"
	if v {
		val = "1"
	}
	return writeSysfs(filepath.Join(d.pwmPath, name), val)
}
