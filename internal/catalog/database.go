package catalog

import (
	"fmt"

	"github.com/reldb/reldb/internal/btree"
	"github.com/reldb/reldb/internal/condition"
	"github.com/reldb/reldb/internal/dbglog"
	"github.com/reldb/reldb/internal/lockfile"
	"github.com/reldb/reldb/internal/reldberr"
	"github.com/reldb/reldb/internal/table"
)

// Database is the catalog of user tables plus the bookkeeping Catalog.
// It owns its Tables; Tables exclusively own their rows and schemas.
type Database struct {
	Name    string
	Dir     string
	Tables  map[string]*table.Table
	Catalog Catalog
	Indexes map[string]*btree.Tree

	mutex *lockfile.DatabaseMutex
}

// New creates an empty, in-memory Database named name rooted at dir
// (conventionally dbdata/<name>_db). Callers that want the on-disk
// layout materialized should follow with SaveDatabase.
func New(name, dir string) *Database {
	return &Database{
		Name:    name,
		Dir:     dir,
		Tables:  map[string]*table.Table{},
		Catalog: NewCatalog(),
		Indexes: map[string]*btree.Tree{},
		mutex:   lockfile.NewDatabaseMutex(dir + "/.reldb.lock"),
	}
}

// CreateTable registers a new, empty table in the in-memory catalog. It
// does not go through the canonical envelope and does not write to disk;
// callers persist the new table with SaveDatabase.
func (d *Database) CreateTable(name string, columnNames []string, columnTypeNames []string, columnExtras []string, primaryKey string) error {
	if _, exists := d.Tables[name]; exists {
		return fmt.Errorf("create_table %s: table already exists", name)
	}
	if IsMetaTableName(name) {
		return fmt.Errorf("create_table %s: name is reserved for a meta-table view", name)
	}

	types := make([]table.ColumnType, len(columnTypeNames))
	for i, tn := range columnTypeNames {
		ct, ok := table.ParseColumnType(tn)
		if !ok {
			return fmt.Errorf("create_table %s column %s: unknown type %q", name, columnNames[i], tn)
		}
		types[i] = ct
	}

	t, err := table.New(name, columnNames, types, columnExtras, primaryKey)
	if err != nil {
		return fmt.Errorf("create_table %s: %w", name, err)
	}

	d.Tables[name] = t
	d.Catalog.Lengths[name] = 0
	d.Catalog.Locks[name] = false
	d.Catalog.InsertStacks[name] = nil
	return nil
}

// DropTable removes a table's row from every meta-table, deletes its
// in-memory state, and cascades the removal of any index associated
// with it.
func (d *Database) DropTable(name string) error {
	if _, ok := d.Tables[name]; !ok {
		return fmt.Errorf("drop_table %s: %w", name, reldberr.ErrUnknownTable)
	}
	delete(d.Tables, name)
	delete(d.Catalog.Lengths, name)
	delete(d.Catalog.Locks, name)
	delete(d.Catalog.InsertStacks, name)
	if indexName, ok := d.Catalog.Indexes[name]; ok {
		delete(d.Indexes, indexName)
		delete(d.Catalog.Indexes, name)
	}
	return nil
}

// lookupTable resolves name to either a user table or a projected
// meta-table view, so select('*','meta_locks',...) still works.
func (d *Database) lookupTable(name string) (*table.Table, error) {
	if IsMetaTableName(name) {
		return d.Catalog.AsTable(name)
	}
	t, ok := d.Tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", reldberr.ErrUnknownTable, name)
	}
	return t, nil
}

// refreshMeta recomputes meta_length and meta_insert_stack for name from
// its current in-memory Table state. meta_locks is refreshed separately
// by lock/unlock since it does not change as a side effect of a
// mutation.
func (d *Database) refreshMeta(name string) {
	t, ok := d.Tables[name]
	if !ok {
		return
	}
	d.Catalog.Lengths[name] = t.Len()
	d.Catalog.InsertStacks[name] = append([]int(nil), t.InsertStack...)
}

// IsLocked reports meta_locks[name].
func (d *Database) IsLocked(name string) bool {
	return d.Catalog.Locks[name]
}

// LockTable sets meta_locks[name] = true.
func (d *Database) LockTable(name string) error {
	if _, ok := d.Tables[name]; !ok {
		return fmt.Errorf("lock_table %s: %w", name, reldberr.ErrUnknownTable)
	}
	d.Catalog.Locks[name] = true
	return nil
}

// UnlockTable sets meta_locks[name] = false.
func (d *Database) UnlockTable(name string) error {
	if _, ok := d.Tables[name]; !ok {
		return fmt.Errorf("unlock_table %s: %w", name, reldberr.ErrUnknownTable)
	}
	d.Catalog.Locks[name] = false
	return nil
}

// CreateIndex builds a fresh B-tree over table name's primary key and
// registers it under indexName. It requires a primary key and a fresh
// index name; it does not incrementally maintain the index on
// subsequent inserts/deletes — the index rebuilds only at creation and
// never updates.
func (d *Database) CreateIndex(indexName, tableName string) error {
	if _, exists := d.Indexes[indexName]; exists {
		return fmt.Errorf("create_index %s: %w", indexName, reldberr.ErrDuplicateIndex)
	}
	t, ok := d.Tables[tableName]
	if !ok {
		return fmt.Errorf("create_index: %w: %s", reldberr.ErrUnknownTable, tableName)
	}
	if t.PKIdx < 0 {
		return fmt.Errorf("create_index %s: %w", tableName, reldberr.ErrNoPrimaryKey)
	}

	bt := btree.New(table.Less(t.ColumnTypes[t.PKIdx]))
	for pos, row := range t.Data {
		if row.IsLive() {
			bt.Insert(row.Values[t.PKIdx], pos)
		}
	}

	d.Indexes[indexName] = bt
	d.Catalog.Indexes[tableName] = indexName
	dbglog.Envelope("create_index", tableName, "index built")
	return nil
}

// indexFor returns the cached B-tree for tableName, if any index is
// registered on it.
func (d *Database) indexFor(tableName string) (*btree.Tree, bool) {
	indexName, ok := d.Catalog.Indexes[tableName]
	if !ok {
		return nil, false
	}
	bt, ok := d.Indexes[indexName]
	return bt, ok
}

// Select implements the select statement: it resolves the target table
// (or meta-table view), picks the B-tree-accelerated path when the
// condition is a primary-key equality and an index exists, and
// otherwise falls back to the unordered scan.
func (d *Database) Select(tableName string, columns []string, cond *condition.Condition, orderBy string, desc bool, topK *int) (*table.Table, error) {
	t, err := d.lookupTable(tableName)
	if err != nil {
		return nil, err
	}
	if bt, ok := d.indexFor(tableName); ok && cond != nil {
		return t.SelectWhereWithBTree(columns, bt, cond, orderBy, desc, topK)
	}
	return t.SelectWhere(columns, cond, orderBy, desc, topK)
}
