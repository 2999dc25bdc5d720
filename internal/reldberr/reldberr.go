// Package reldberr defines the sentinel errors shared by every statement
// entry point in internal/catalog and internal/table, wrapped with
// fmt.Errorf("%s: %w", op, err) and checked with errors.Is.
package reldberr

import "errors"

var (
	// ErrMalformedCondition is returned when a condition string does not
	// match "operand operator operand".
	ErrMalformedCondition = errors.New("malformed condition")

	// ErrUnknownTable is returned when a statement names a table that is
	// not present in the catalog.
	ErrUnknownTable = errors.New("unknown table")

	// ErrUnknownColumn is returned when a statement names a column that
	// is not present in a table's schema.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrUnknownIndex is returned when a statement names an index that is
	// not registered in meta_indexes.
	ErrUnknownIndex = errors.New("unknown index")

	// ErrTypeCoercion is returned when a literal cannot be coerced to the
	// target column's type.
	ErrTypeCoercion = errors.New("type coercion failed")

	// ErrPrimaryKeyViolation is returned when an insert or update would
	// introduce a duplicate key, or a null, into a primary-key column.
	ErrPrimaryKeyViolation = errors.New("primary key violation")

	// ErrDuplicateIndex is returned when create_index names an index that
	// already exists.
	ErrDuplicateIndex = errors.New("duplicate index")

	// ErrNoPrimaryKey is returned when create_index targets a table with
	// no declared primary key.
	ErrNoPrimaryKey = errors.New("table has no primary key")

	// ErrUnsupportedJoinMode is returned when join is asked for a mode
	// other than "inner".
	ErrUnsupportedJoinMode = errors.New("unsupported join mode")

	// ErrTableLocked names the condition of a table whose meta_locks flag
	// is set. The lock is advisory: the statement envelope does not return
	// this error for a locked table, it returns nil without running the
	// statement.
	ErrTableLocked = errors.New("table is locked")
)
