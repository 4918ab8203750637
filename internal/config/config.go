package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Names accepted in actuator.backend and sensor.kind.
var (
	backends    = []string{"hwmon", "pwmchip", "gpio", "rpio"}
	sensorKinds = []string{"thermal", "bmp280"}
)

type Config struct {
	Control  ControlConfig  `yaml:"control"`
	Sensor   SensorConfig   `yaml:"sensor"`
	Actuator ActuatorConfig `yaml:"actuator"`
	Log      LogConfig      `yaml:"log"`
	// LockPath is the file locked for the duration of the run.
	LockPath string `yaml:"lock_path"`
}

type ControlConfig struct {
	// MinTempC is where the ramp starts; below it the fan is off.
	MinTempC float64 `yaml:"min_temp_c"`
	// MaxTempC is where the fan reaches full speed.
	MaxTempC float64 `yaml:"max_temp_c"`
	// MinDutyPercent is the floor (0-100). Unset means raw level 60.
	MinDutyPercent *int `yaml:"min_duty_percent"`
	// ForcePercent sets a static duty cycle (0-100) instead of the curve.
	ForcePercent *int `yaml:"force_percent"`
	// Interval > 0 keeps running cycles; 0 runs a single cycle and exits.
	Interval time.Duration `yaml:"interval"`
}

type SensorConfig struct {
	// Kind is "thermal" (sysfs thermal zone) or "bmp280" (I2C sensor).
	Kind string `yaml:"kind"`
	// GPU selects thermal_zone1 instead of thermal_zone0.
	GPU bool `yaml:"gpu"`
	// Path overrides the thermal zone file.
	Path string `yaml:"path"`
	// I2CBus and I2CAddr locate a bmp280.
	I2CBus  string `yaml:"i2c_bus"`
	I2CAddr uint16 `yaml:"i2c_addr"`
}

type ActuatorConfig struct {
	Backend     string `yaml:"backend"`
	Path        string `yaml:"path"`
	Channel     int    `yaml:"channel"`
	Pin         int    `yaml:"pin"`
	FrequencyHz int    `yaml:"frequency_hz"`
}

type LogConfig struct {
	// Enable appends one history line per cycle to Path.
	Enable bool   `yaml:"enable"`
	Path   string `yaml:"path"`
	Quiet  bool   `yaml:"quiet"`
	Level  string `yaml:"level"`
}

const (
	DefaultMinTempC = 40
	DefaultMaxTempC = 60

	DefaultI2CBus  = "/dev/i2c-1"
	DefaultI2CAddr = 0x77
)

var linePrefix = regexp.MustCompile(`^line \d+: `)

// Default returns a configuration with every default applied.
func Default() Config {
	return Config{
		Control:  ControlConfig{MinTempC: DefaultMinTempC, MaxTempC: DefaultMaxTempC},
		Sensor:   SensorConfig{Kind: "thermal", I2CBus: DefaultI2CBus, I2CAddr: DefaultI2CAddr},
		Actuator: ActuatorConfig{Backend: "hwmon"},
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads path and returns a validated configuration. An empty path yields Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	b, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, err
	}
	return Parse(b)
}

// Parse decodes YAML, rejecting unknown keys, then applies defaults and validates.
func Parse(b []byte) (Config, error) {
	// Decoding over the defaults keeps explicit zero values (min_temp_c: 0).
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		var te *yaml.TypeError
		if errors.As(err, &te) {
			msgs := make([]string, 0, len(te.Errors))
			for _, m := range te.Errors {
				msgs = append(msgs, linePrefix.ReplaceAllString(m, ""))
			}
			return Config{}, fmt.Errorf("config contains unknown fields: %s", strings.Join(msgs, "; "))
		}
		return Config{}, err
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Sensor.Kind == "" {
		cfg.Sensor.Kind = "thermal"
	}
	if cfg.Sensor.I2CBus == "" {
		cfg.Sensor.I2CBus = DefaultI2CBus
	}
	if cfg.Actuator.Backend == "" {
		cfg.Actuator.Backend = "hwmon"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks structural settings. Inverted temperature bounds and
// out-of-range percentages are left to the controller, which reports them
// on every cycle.
func (c Config) Validate() error {
	if !contains(sensorKinds, c.Sensor.Kind) {
		return fmt.Errorf("sensor.kind must be one of %s", strings.Join(sensorKinds, ", "))
	}
	if c.Sensor.Kind == "bmp280" && (c.Sensor.I2CAddr == 0 || c.Sensor.I2CAddr > 0x7F) {
		return fmt.Errorf("sensor.i2c_addr must be a 7-bit address")
	}
	if !contains(backends, c.Actuator.Backend) {
		return fmt.Errorf("actuator.backend must be one of %s", strings.Join(backends, ", "))
	}
	switch c.Actuator.Backend {
	case "pwmchip":
		if c.Actuator.Path == "" {
			return fmt.Errorf("actuator.path is required when actuator.backend is 'pwmchip'")
		}
		if c.Actuator.Channel < 0 {
			return fmt.Errorf("actuator.channel must be >= 0")
		}
	case "gpio", "rpio":
		if c.Actuator.Pin <= 0 {
			return fmt.Errorf("actuator.pin is required when actuator.backend is '%s'", c.Actuator.Backend)
		}
	}
	if c.Actuator.FrequencyHz < 0 {
		return fmt.Errorf("actuator.frequency_hz must be >= 0")
	}
	if c.Control.Interval < 0 {
		return fmt.Errorf("control.interval must be >= 0")
	}
	if c.Log.Path != "" && strings.TrimSpace(c.Log.Path) == "" {
		return fmt.Errorf("log.path must not be blank")
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not a valid level", c.Log.Level)
	}
	return nil
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
