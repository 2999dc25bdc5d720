package catalog

import (
	"fmt"
	"path/filepath"

	"github.com/reldb/reldb/internal/dbglog"
	"github.com/reldb/reldb/internal/lockfile"
	"github.com/reldb/reldb/internal/reldberr"
	"github.com/reldb/reldb/internal/table"
)

// Statement runs mutate against tableName's Table under the canonical
// envelope: reload the catalog from disk, consult meta_locks, acquire an
// exclusive lock, delegate to the Table operation, refresh meta-tables,
// rewrite every table's file, and release the lock.
//
// A locked table is not an error: it is advisory, so Statement returns
// nil without calling mutate.
func (d *Database) Statement(statementName, tableName string, mutate func(t *table.Table) error) error {
	if err := d.mutex.Lock(); err != nil {
		return fmt.Errorf("%s %s: acquire database mutex: %w", statementName, tableName, err)
	}
	defer d.mutex.Unlock()

	if err := d.reloadFromDisk(); err != nil {
		return fmt.Errorf("%s %s: reload: %w", statementName, tableName, err)
	}
	dbglog.Envelope(statementName, tableName, "loaded")

	if d.IsLocked(tableName) {
		dbglog.Envelope(statementName, tableName, "skipped: table locked")
		return nil
	}

	tableLock, err := lockfile.OpenTableLock(filepath.Join(d.Dir, "locks", tableName+".lock"))
	if err != nil {
		return fmt.Errorf("%s %s: %w", statementName, tableName, err)
	}
	if err := tableLock.TryExclusive(); err != nil {
		dbglog.Envelope(statementName, tableName, "skipped: peer holds table lock")
		return nil
	}
	defer tableLock.Unlock()
	dbglog.Envelope(statementName, tableName, "locked")

	t, ok := d.Tables[tableName]
	if !ok {
		return fmt.Errorf("%s: %w: %s", statementName, reldberr.ErrUnknownTable, tableName)
	}

	if err := mutate(t); err != nil {
		return fmt.Errorf("%s %s: %w", statementName, tableName, err)
	}
	dbglog.Envelope(statementName, tableName, "mutated")

	d.refreshMeta(tableName)
	dbglog.Envelope(statementName, tableName, "meta refreshed")

	if err := d.SaveDatabase(); err != nil {
		return fmt.Errorf("%s %s: save: %w", statementName, tableName, err)
	}
	dbglog.Envelope(statementName, tableName, "saved")

	return nil
}

// ReadStatement runs read against tableName under the read-only subset of
// the canonical envelope: select is read-only but still reloads and
// relocks so in-flight mutations elsewhere are respected.
func (d *Database) ReadStatement(statementName, tableName string, read func(*Database) error) error {
	if err := d.mutex.Lock(); err != nil {
		return fmt.Errorf("%s %s: acquire database mutex: %w", statementName, tableName, err)
	}
	defer d.mutex.Unlock()

	if err := d.reloadFromDisk(); err != nil {
		return fmt.Errorf("%s %s: reload: %w", statementName, tableName, err)
	}

	if !IsMetaTableName(tableName) && d.IsLocked(tableName) {
		return nil
	}

	if !IsMetaTableName(tableName) {
		tableLock, err := lockfile.OpenTableLock(filepath.Join(d.Dir, "locks", tableName+".lock"))
		if err != nil {
			return fmt.Errorf("%s %s: %w", statementName, tableName, err)
		}
		if err := tableLock.TryShared(); err != nil {
			return nil
		}
		defer tableLock.Unlock()
	}

	return read(d)
}
