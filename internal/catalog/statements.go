// Statement entry points: the public Database surface spec.md S4.4 lists,
// each wired through the canonical envelope in envelope.go.
package catalog

import (
	"fmt"

	"github.com/reldb/reldb/internal/condition"
	"github.com/reldb/reldb/internal/reldberr"
	"github.com/reldb/reldb/internal/table"
)

// InsertInto implements the insert_into statement.
func (d *Database) InsertInto(tableName string, values []any) error {
	return d.Statement("insert_into", tableName, func(t *table.Table) error {
		_, err := t.Insert(values)
		return err
	})
}

// UpdateTable implements the update_table statement.
func (d *Database) UpdateTable(tableName, setColumn string, setValue any, conditionText string) error {
	return d.Statement("update_table", tableName, func(t *table.Table) error {
		cond, err := condition.Parse(conditionText)
		if err != nil {
			return err
		}
		return t.UpdateRows(setColumn, setValue, &cond)
	})
}

// DeleteFrom implements the delete_from statement: it pushes every freed
// position onto the table's insert-stack before refresh-meta runs, per
// spec.md S4.3's "the caller is responsible for persisting the shortened
// insert-stack" (in reverse: here the caller grows it).
func (d *Database) DeleteFrom(tableName, conditionText string) error {
	return d.Statement("delete_from", tableName, func(t *table.Table) error {
		cond, err := condition.Parse(conditionText)
		if err != nil {
			return err
		}
		freed, err := t.DeleteWhere(&cond)
		if err != nil {
			return err
		}
		t.InsertStack = append(t.InsertStack, freed...)
		return nil
	})
}

// Sort implements the sort statement.
func (d *Database) Sort(tableName, column string, asc bool) error {
	return d.Statement("sort", tableName, func(t *table.Table) error {
		return t.Sort(column, asc)
	})
}

// Cast implements the cast statement, restricted to the five named atomic
// types (spec.md S9: "the redesigned core restricts it to the five named
// atomic types").
func (d *Database) Cast(tableName, column, typeName string) error {
	return d.Statement("cast", tableName, func(t *table.Table) error {
		ct, ok := table.ParseColumnType(typeName)
		if !ok {
			return fmt.Errorf("cast: %w: %s", reldberr.ErrTypeCoercion, typeName)
		}
		return t.CastColumn(column, ct)
	})
}

// SelectStatement implements the select statement's read-only envelope
// (spec.md S4.4: "select is read-only but still follows steps 1-3 and 7").
func (d *Database) SelectStatement(tableName string, columns []string, conditionText, orderBy string, desc bool, topK *int) (*table.Table, error) {
	var result *table.Table
	err := d.ReadStatement("select", tableName, func(db *Database) error {
		var cond *condition.Condition
		if conditionText != "" {
			c, err := condition.Parse(conditionText)
			if err != nil {
				return err
			}
			cond = &c
		}
		r, err := db.Select(tableName, columns, cond, orderBy, desc, topK)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	return result, err
}

// ShowTable implements the show_table statement: a full unconditioned,
// unsorted select.
func (d *Database) ShowTable(tableName string) (*table.Table, error) {
	return d.SelectStatement(tableName, nil, "", "", false, nil)
}
