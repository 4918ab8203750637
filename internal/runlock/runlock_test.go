package runlock

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestAcquire_Exclusive verifies a second holder is rejected until release.
func TestAcquire_Exclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fanctl.lock")

	first, err := Acquire(path)
	require.NoError(t, err)
	require.Equal(t, path, first.Path())

	_, err = Acquire(path)
	require.ErrorIs(t, err, ErrLocked)

	require.NoError(t, first.Unlock())

	again, err := Acquire(path)
	require.NoError(t, err)
	require.NoError(t, again.Unlock())
}

func TestUnlock_Idempotent(t *testing.T) {
	l, err := Acquire(filepath.Join(t.TempDir(), "fanctl.lock"))
	require.NoError(t, err)
	require.NoError(t, l.Unlock())
	require.NoError(t, l.Unlock())

	var nilLock *Lock
	require.NoError(t, nilLock.Unlock())
}

func TestAcquire_MissingDir(t *testing.T) {
	_, err := Acquire(filepath.Join(t.TempDir(), "missing", "fanctl.lock"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrLocked)
}
