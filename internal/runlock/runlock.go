// Package runlock provides a process-level exclusive lock on a file so two
// control cycles never drive the same fan at once.
package runlock

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrLocked is returned when another process holds the lock.
var ErrLocked = errors.New("runlock: already locked by another process")

// DefaultPath returns the lock file used when none is configured.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), "fanctl.lock")
}

// Lock is a held lock. Release it with Unlock.
type Lock struct {
	f    *os.File
	path string
}

func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}
