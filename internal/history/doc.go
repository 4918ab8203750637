// Package history appends one text line per applied fan duty.
//
// The line format is kept stable for existing log consumers:
//
//	2024-03-01 12:00:00.000000 - Temperature: 55.0C - fanPWM: 191
package history
