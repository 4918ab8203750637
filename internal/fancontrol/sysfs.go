package fancontrol

import (
	"errors"
	"os"
	"time"
)

// sysfsRetryWindow bounds how long writeSysfs keeps retrying transient errors.
var sysfsRetryWindow = 2 * time.Second

func writeSysfs(path string, value string) error {
	// Use O_WRONLY without O_TRUNC/O_CREATE.
	// Some sysfs attributes reject truncation flags even when mode bits allow writes.
	// Right after a PWM export udev may still be adjusting permissions, so
	// EACCES/ENOENT are retried for a short window.
	deadline := time.Now().Add(sysfsRetryWindow)
	for {
		err := writeSysfsOnce(path, value)
		if err == nil {
			return nil
		}
		if time.Now().Before(deadline) && isRetryableSysfsErr(err) {
			time.Sleep(25 * time.Millisecond)
			continue
		}
		return err
	}
}

func writeSysfsOnce(path string, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	_, werr := f.WriteString(value)
	cerr := f.Close()
	return errors.Join(werr, cerr)
}

