//go:build !linux

package fancontrol

import "os"

func isRetryableSysfsErr(err error) bool {
	return os.IsPermission(err) || os.IsNotExist(err)
}
