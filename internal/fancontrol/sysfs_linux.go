//go:build linux

package fancontrol

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

func isRetryableSysfsErr(err error) bool {
	return os.IsPermission(err) || os.IsNotExist(err) ||
		errors.Is(err, unix.EACCES) || errors.Is(err, unix.EPERM) ||
		errors.Is(err, unix.ENOENT) || errors.Is(err, unix.EBUSY)
}
