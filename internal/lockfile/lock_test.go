package lockfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableLockExclusiveExcludesPeer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "classroom.lock")

	owner, err := OpenTableLock(path)
	require.NoError(t, err)
	require.NoError(t, owner.TryExclusive())

	peer, err := OpenTableLock(path)
	require.NoError(t, err)
	defer peer.Unlock()

	err = peer.TryExclusive()
	require.ErrorIs(t, err, ErrLockBusy)

	require.NoError(t, owner.Unlock())
}

func TestTableLockSharedAllowsMultipleReaders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "department.lock")

	a, err := OpenTableLock(path)
	require.NoError(t, err)
	defer a.Unlock()
	require.NoError(t, a.TryShared())

	b, err := OpenTableLock(path)
	require.NoError(t, err)
	defer b.Unlock()
	require.NoError(t, b.TryShared())
}

func TestTableLockSharedExcludesExclusive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "instructor.lock")

	reader, err := OpenTableLock(path)
	require.NoError(t, err)
	defer reader.Unlock()
	require.NoError(t, reader.TryShared())

	writer, err := OpenTableLock(path)
	require.NoError(t, err)
	defer writer.Unlock()

	require.ErrorIs(t, writer.TryExclusive(), ErrLockBusy)
}

func TestIsLocked(t *testing.T) {
	require.True(t, IsLocked(errProcessLocked))
	require.False(t, IsLocked(ErrLockBusy))
}
