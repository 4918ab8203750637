//go:build linux

package fancontrol

import (
	"os"
	"strings"
)

// modelPaths lists the device-tree model nodes, most specific first.
var modelPaths = []string{
	"/sys/firmware/devicetree/base/model",
	"/proc/device-tree/model",
}

// BoardModel returns the device-tree model string, or "" if unknown.
func BoardModel() string {
	for _, p := range modelPaths {
		b, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		model := strings.Trim(strings.TrimSpace(string(b)), "\x00")
		if model != "" {
			return model
		}
	}
	return ""
}
