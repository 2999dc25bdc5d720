// Package table implements the typed-column table data model: schema,
// tombstone-aware row storage, the free-slot insert stack, and the six
// operations plus three join algorithms specified in spec.md S3-S4.3.
package table

import "fmt"

// ColumnType is one of the five atomic column types spec.md S3 allows.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeInteger
	TypeReal
	TypeBoolean
	TypeList
)

// String returns the canonical lowercase name of a ColumnType, the same
// spelling ParseColumnType accepts. The persistence header stores the
// numeric value, not this name.
func (t ColumnType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInteger:
		return "integer"
	case TypeReal:
		return "real"
	case TypeBoolean:
		return "boolean"
	case TypeList:
		return "list"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// ParseColumnType recognizes a column type name from a create_table schema
// string or a cast_column target, returning false for anything outside the
// five atomic types spec.md S3 defines.
func ParseColumnType(name string) (ColumnType, bool) {
	switch name {
	case "string", "str":
		return TypeString, true
	case "integer", "int":
		return TypeInteger, true
	case "real", "float":
		return TypeReal, true
	case "boolean", "bool":
		return TypeBoolean, true
	case "list":
		return TypeList, true
	default:
		return 0, false
	}
}

// RowState tags a Row as live data or a tombstone, per spec.md S9's
// re-architecture guidance to model row state as a tagged variant rather
// than sentinel-null rows.
type RowState int

const (
	RowLive RowState = iota
	RowTombstone
)

// Row is one row of a Table: either a live, type-correct value vector or a
// Tombstone occupying a position to preserve the positional identity of
// other rows (spec.md S3, GLOSSARY).
type Row struct {
	State  RowState
	Values []any
}

// IsLive reports whether r holds live data rather than a tombstone.
func (r Row) IsLive() bool {
	return r.State == RowLive
}

func tombstone() Row {
	return Row{State: RowTombstone}
}
