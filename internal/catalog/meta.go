// Package catalog implements the Database: the catalog of tables, the
// meta-tables, exclusive lock administration, and the statement entry
// points that wrap table.Table operations with the canonical envelope.
package catalog

import (
	"sort"

	"github.com/reldb/reldb/internal/reldberr"
	"github.com/reldb/reldb/internal/table"
)

// Catalog is a small bookkeeping record rather than "everything is a
// Table, including the catalog": lengths, lock flags, free-position
// lists and the index registry, kept as plain maps rather than as four
// more user tables. AsTable projects any of them into a read-only
// table.Table view on demand, so `select('*','meta_locks',...)` still
// works, without the catalog itself ever being locked, counted, or
// indexed.
type Catalog struct {
	Lengths      map[string]int
	Locks        map[string]bool
	InsertStacks map[string][]int
	Indexes      map[string]string // table name -> index name
}

// NewCatalog returns an empty Catalog.
func NewCatalog() Catalog {
	return Catalog{
		Lengths:      map[string]int{},
		Locks:        map[string]bool{},
		InsertStacks: map[string][]int{},
		Indexes:      map[string]string{},
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsMetaTableName reports whether name is one of the four seeded
// meta-table views rather than a user table.
func IsMetaTableName(name string) bool {
	switch name {
	case "meta_length", "meta_locks", "meta_insert_stack", "meta_indexes":
		return true
	default:
		return false
	}
}

// AsTable projects one of the four meta-table views into a read-only
// table.Table, built fresh from the current Catalog state, for name in
// {meta_length, meta_locks, meta_insert_stack, meta_indexes}.
func (c Catalog) AsTable(name string) (*table.Table, error) {
	switch name {
	case "meta_length":
		return c.lengthsTable()
	case "meta_locks":
		return c.locksTable()
	case "meta_insert_stack":
		return c.insertStackTable()
	case "meta_indexes":
		return c.indexesTable()
	default:
		return nil, reldberr.ErrUnknownTable
	}
}

func (c Catalog) lengthsTable() (*table.Table, error) {
	t, err := table.New("meta_length", []string{"table_name", "no_of_rows"},
		[]table.ColumnType{table.TypeString, table.TypeInteger}, nil, "table_name")
	if err != nil {
		return nil, err
	}
	for _, name := range sortedKeys(c.Lengths) {
		if _, err := t.Insert([]any{name, int64(c.Lengths[name])}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (c Catalog) locksTable() (*table.Table, error) {
	t, err := table.New("meta_locks", []string{"table_name", "locked"},
		[]table.ColumnType{table.TypeString, table.TypeBoolean}, nil, "table_name")
	if err != nil {
		return nil, err
	}
	for _, name := range sortedTableNames(c.Locks) {
		if _, err := t.Insert([]any{name, c.Locks[name]}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (c Catalog) insertStackTable() (*table.Table, error) {
	t, err := table.New("meta_insert_stack", []string{"table_name", "indexes"},
		[]table.ColumnType{table.TypeString, table.TypeList}, nil, "table_name")
	if err != nil {
		return nil, err
	}
	for _, name := range sortedStackNames(c.InsertStacks) {
		positions := make([]any, len(c.InsertStacks[name]))
		for i, p := range c.InsertStacks[name] {
			positions[i] = int64(p)
		}
		if _, err := t.Insert([]any{name, positions}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (c Catalog) indexesTable() (*table.Table, error) {
	t, err := table.New("meta_indexes", []string{"table_name", "index_name"},
		[]table.ColumnType{table.TypeString, table.TypeString}, nil, "table_name")
	if err != nil {
		return nil, err
	}
	for _, name := range sortedIndexNames(c.Indexes) {
		if _, err := t.Insert([]any{name, c.Indexes[name]}); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func sortedIndexNames(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedTableNames(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedStackNames(m map[string][]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
