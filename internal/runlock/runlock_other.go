//go:build !linux

package runlock

import (
	"fmt"
	"os"
	"path/filepath"
)

// Acquire creates path exclusively. A stale file from a crashed process must
// be removed by hand on these platforms.
func Acquire(path string) (*Lock, error) {
	path = filepath.Clean(path)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w (%s)", ErrLocked, path)
		}
		return nil, fmt.Errorf("runlock: open %s: %w", path, err)
	}
	return &Lock{f: f, path: path}, nil
}

func (l *Lock) Unlock() error {
	if l == nil || l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	if rerr := os.Remove(l.path); rerr != nil && err == nil {
		err = rerr
	}
	return err
}
