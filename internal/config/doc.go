// Package config loads the fanctl YAML configuration and applies defaults.
//
// Every key is optional; an empty file (or no file) yields the historical
// defaults: a 40..60C ramp, raw floor 60, CPU thermal zone, hwmon pwm1.
package config
