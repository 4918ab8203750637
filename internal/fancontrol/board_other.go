//go:build !linux

package fancontrol

// BoardModel returns "" outside Linux.
func BoardModel() string { return "" }
