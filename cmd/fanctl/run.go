package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap/zapcore"

	"fanctl/internal/config"
	"fanctl/internal/fancontrol"
	"fanctl/internal/history"
	"fanctl/internal/logger"
	"fanctl/internal/runlock"
	"fanctl/internal/sensors/bmp280"
)

// run wires the collaborators described by cfg and runs one cycle, or keeps
// running cycles until ctx is done when an interval is configured.
func run(ctx context.Context, cfg config.Config) error {
	setLogLevel(cfg.Log)

	settings, err := buildSettings(cfg.Control)
	if err != nil {
		return err
	}

	lockPath := cfg.LockPath
	if lockPath == "" {
		lockPath = runlock.DefaultPath()
	}
	lock, err := runlock.Acquire(lockPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warnf(ctx, "release lock: %v", err)
		}
	}()

	source, sensorDesc, err := openSource(cfg.Sensor)
	if err != nil {
		return err
	}
	if c, ok := source.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				logger.Warnf(ctx, "close sensor: %v", err)
			}
		}()
	}

	act, err := fancontrol.OpenActuator(fancontrol.ActuatorConfig{
		Backend:     cfg.Actuator.Backend,
		Path:        cfg.Actuator.Path,
		Channel:     cfg.Actuator.Channel,
		Pin:         cfg.Actuator.Pin,
		FrequencyHz: cfg.Actuator.FrequencyHz,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := act.Close(); err != nil {
			logger.Warnf(ctx, "close actuator: %v", err)
		}
	}()

	var opts []fancontrol.Option
	if cfg.Log.Enable {
		path := cfg.Log.Path
		if path == "" {
			path = history.DefaultPath()
		}
		opts = append(opts, fancontrol.WithRecorder(history.NewFileRecorder(path)))
	}

	ctl, err := fancontrol.NewController(settings, source, act, opts...)
	if err != nil {
		return err
	}

	logger.Debugf(ctx, "board=%q sensor=%s backend=%s window=%v..%vC floor=%d",
		fancontrol.BoardModel(), sensorDesc, cfg.Actuator.Backend,
		settings.Window.MinC, settings.Window.MaxC, settings.MinLevel)

	if cfg.Control.Interval <= 0 {
		d, err := ctl.RunOnce(ctx)
		report(ctx, d, err)
		return err
	}

	svc, err := fancontrol.NewService(ctl, cfg.Control.Interval, func(d fancontrol.AppliedDuty, err error) {
		report(ctx, d, err)
		if err != nil {
			logger.Errorf(ctx, "control cycle failed: %v", err)
		}
	})
	if err != nil {
		return err
	}
	logger.Infof(ctx, "fanctl running every %s", cfg.Control.Interval)
	svc.Start(ctx)
	<-ctx.Done()
	svc.Close()
	logger.Infof(ctx, "fanctl stopping after %d cycles", svc.Snapshot().Cycles)
	return nil
}

// openSource returns the configured temperature source and a short description for logs.
func openSource(c config.SensorConfig) (fancontrol.TemperatureSource, string, error) {
	if c.Kind == "bmp280" {
		dev, err := bmp280.Open(c.I2CBus, c.I2CAddr)
		if err != nil {
			return nil, "", err
		}
		return dev, fmt.Sprintf("bmp280@%s/0x%02x", c.I2CBus, c.I2CAddr), nil
	}
	path := c.Path
	if path == "" {
		path = fancontrol.ThermalPath(c.GPU)
	}
	return fancontrol.NewSysfsThermal(path), path, nil
}

// buildSettings turns the configured percentages into controller settings.
func buildSettings(c config.ControlConfig) (fancontrol.Settings, error) {
	s := fancontrol.Settings{
		Window:       fancontrol.Window{MinC: c.MinTempC, MaxC: c.MaxTempC},
		MinLevel:     fancontrol.DefaultMinLevel,
		ForcePercent: c.ForcePercent,
	}
	if c.MinDutyPercent != nil {
		lvl, err := fancontrol.PercentToLevel(*c.MinDutyPercent)
		if err != nil {
			return fancontrol.Settings{}, fmt.Errorf("minimum duty: %w", err)
		}
		s.MinLevel = lvl
	}
	return s, nil
}

func setLogLevel(c config.LogConfig) {
	lvl, ok := logger.ParseLogLevel(c.Level)
	if !ok {
		lvl = zapcore.InfoLevel
	}
	if c.Quiet && lvl < zapcore.WarnLevel {
		lvl = zapcore.WarnLevel
	}
	logger.SetLevel(lvl)
}

// report prints the applied speed. It is silent when the cycle failed before
// the write; errors are logged by the caller.
func report(ctx context.Context, d fancontrol.AppliedDuty, err error) {
	if err != nil && !errors.Is(err, fancontrol.ErrRecord) {
		return
	}

	logger.Infof(ctx, "Current temperature: %sC", history.FormatTemperature(d.TemperatureC))
	if d.Floored() {
		logger.Infof(ctx, "Fan set to minimum fan speed: %d%% (PWM value: %d)",
			fancontrol.LevelToPercent(d.AppliedLevel), d.AppliedLevel)
	} else {
		logger.Infof(ctx, "Fan set to: %d%% (PWM value: %d)",
			fancontrol.LevelToPercent(d.AppliedLevel), d.AppliedLevel)
	}
}
