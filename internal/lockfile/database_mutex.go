package lockfile

import "github.com/gofrs/flock"

// DatabaseMutex is the cross-process mutex held around a Database's entire
// canonical envelope (load -> ... -> save), so two processes racing on the
// same <dbdir> serialize at the OS level even if one of them crashes mid
// statement while meta_locks still shows a table as locked (spec.md S9's
// open question about lock_table races). It wraps github.com/gofrs/flock
// rather than the hand-rolled unix/windows/wasm primitives above, which
// remain reserved for the per-table TableLock.
type DatabaseMutex struct {
	fl *flock.Flock
}

// NewDatabaseMutex returns a DatabaseMutex backed by the lock file at path
// (conventionally <dbdir>/.reldb.lock).
func NewDatabaseMutex(path string) *DatabaseMutex {
	return &DatabaseMutex{fl: flock.New(path)}
}

// Lock blocks until the exclusive cross-process lock is acquired.
func (m *DatabaseMutex) Lock() error {
	return m.fl.Lock()
}

// Unlock releases the cross-process lock.
func (m *DatabaseMutex) Unlock() error {
	return m.fl.Unlock()
}
