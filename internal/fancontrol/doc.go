// Package fancontrol drives a PWM fan from a thermal sensor reading.
//
// The control core is small and pure:
// - PercentToLevel / LevelToPercent convert between 0..100 % and raw 0..255
// - Evaluate maps a temperature onto a linear ramp between two bounds
// - Controller.RunOnce samples, evaluates, applies the minimum floor and writes
//
// Sensor and actuator access sit behind TemperatureSource and ActuatorSink so
// the core can run without hardware.
package fancontrol
