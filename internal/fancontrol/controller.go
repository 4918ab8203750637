package fancontrol

import (
	"context"
	"fmt"
	"time"
)

// TemperatureSource yields one temperature reading in degrees C.
type TemperatureSource interface {
	ReadTemperature() (float64, error)
}

// ActuatorSink accepts a raw fan level in 0..RawMax.
type ActuatorSink interface {
	WriteLevel(level int) error
}

// Recorder appends an observation after the level has been applied.
type Recorder interface {
	Record(d AppliedDuty, at time.Time) error
}

// Settings is the controller configuration. It is copied on construction and
// never changes for the lifetime of a Controller.
type Settings struct {
	Window Window
	// MinLevel is the raw floor. Non-zero requests below it are raised to it.
	MinLevel int
	// ForcePercent, when set, replaces the curve with a static duty cycle.
	ForcePercent *int
}

// AppliedDuty is the outcome of one control cycle.
type AppliedDuty struct {
	TemperatureC   float64 `json:"temperature_c"`
	RequestedLevel int     `json:"requested_level"`
	AppliedLevel   int     `json:"applied_level"`
	Forced         bool    `json:"forced"`
}

// Floored reports whether the minimum floor raised the requested level.
func (d AppliedDuty) Floored() bool {
	return d.AppliedLevel != d.RequestedLevel
}

// Controller runs single control cycles. It holds no state between cycles.
//
// Cycles must not overlap: callers serialize RunOnce per actuator.
type Controller struct {
	settings Settings
	source   TemperatureSource
	sink     ActuatorSink
	recorder Recorder
	now      func() time.Time
}

// Option customizes a Controller.
type Option func(*Controller)

// WithRecorder appends every applied duty to r.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithClock overrides the timestamp source used for records.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// NewController validates the floor and wires the collaborators.
func NewController(s Settings, source TemperatureSource, sink ActuatorSink, opts ...Option) (*Controller, error) {
	if source == nil {
		return nil, fmt.Errorf("fancontrol: temperature source is nil")
	}
	if sink == nil {
		return nil, fmt.Errorf("fancontrol: actuator sink is nil")
	}
	if s.MinLevel < 0 || s.MinLevel > RawMax {
		return nil, fmt.Errorf("%w: expected 0 <= minimum level <= %d, got %d", ErrOutOfRange, RawMax, s.MinLevel)
	}
	if s.ForcePercent != nil {
		p := *s.ForcePercent
		s.ForcePercent = &p
	}

	c := &Controller{settings: s, source: source, sink: sink, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Settings returns a copy of the controller configuration.
func (c *Controller) Settings() Settings {
	s := c.settings
	if s.ForcePercent != nil {
		p := *s.ForcePercent
		s.ForcePercent = &p
	}
	return s
}

// RunOnce samples the sensor, computes the level and writes it to the sink.
//
// Any failure aborts the cycle before the write. A recorder failure is
// reported after the write with an error wrapping ErrRecord and the
// returned AppliedDuty still describes what reached the actuator.
func (c *Controller) RunOnce(ctx context.Context) (AppliedDuty, error) {
	if err := ctx.Err(); err != nil {
		return AppliedDuty{}, err
	}

	tempC, err := c.source.ReadTemperature()
	if err != nil {
		return AppliedDuty{}, fmt.Errorf("read temperature: %w", err)
	}
	d := AppliedDuty{TemperatureC: tempC}

	var requested int
	if c.settings.ForcePercent != nil {
		d.Forced = true
		requested, err = PercentToLevel(*c.settings.ForcePercent)
	} else {
		requested, err = Evaluate(tempC, c.settings.Window)
	}
	if err != nil {
		return AppliedDuty{}, err
	}
	if requested < 0 || requested > RawMax {
		return AppliedDuty{}, fmt.Errorf("%w: expected 0 <= level <= %d, got %d", ErrOutOfRange, RawMax, requested)
	}
	d.RequestedLevel = requested
	d.AppliedLevel = applyFloor(requested, c.settings.MinLevel)

	if err := c.sink.WriteLevel(d.AppliedLevel); err != nil {
		return AppliedDuty{}, fmt.Errorf("write level %d: %w", d.AppliedLevel, err)
	}

	if c.recorder != nil {
		if err := c.recorder.Record(d, c.now()); err != nil {
			return d, fmt.Errorf("%w: %w", ErrRecord, err)
		}
	}
	return d, nil
}

// applyFloor raises strictly positive levels below floor to floor.
// Zero always passes through so the fan can be switched off.
func applyFloor(level, floor int) int {
	if level > 0 && level < floor {
		return floor
	}
	return level
}
