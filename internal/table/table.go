package table

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/reldb/reldb/internal/condition"
	"github.com/reldb/reldb/internal/reldberr"
)

// Table is the typed-column schema plus row vector spec.md S3 describes.
type Table struct {
	Name         string
	ColumnNames  []string
	ColumnTypes  []ColumnType
	ColumnExtras []string
	PrimaryKey   string // "" if the table has none
	PKIdx        int    // -1 if the table has none
	Data         []Row
	InsertStack  []int // LIFO of free positions, most-recently-freed last
}

// New constructs an empty Table. columnExtras may be nil, in which case it
// is filled with empty strings (spec.md S3's "reserved, not interpreted").
func New(name string, columnNames []string, columnTypes []ColumnType, columnExtras []string, primaryKey string) (*Table, error) {
	if len(columnNames) != len(columnTypes) {
		return nil, fmt.Errorf("table %s: %d column names but %d column types", name, len(columnNames), len(columnTypes))
	}
	if columnExtras == nil {
		columnExtras = make([]string, len(columnNames))
	}

	pkIdx := -1
	if primaryKey != "" {
		idx, ok := indexOf(columnNames, primaryKey)
		if !ok {
			return nil, fmt.Errorf("table %s: primary key %q: %w", name, primaryKey, reldberr.ErrUnknownColumn)
		}
		pkIdx = idx
	}

	return &Table{
		Name:         name,
		ColumnNames:  columnNames,
		ColumnTypes:  columnTypes,
		ColumnExtras: columnExtras,
		PrimaryKey:   primaryKey,
		PKIdx:        pkIdx,
		Data:         nil,
		InsertStack:  nil,
	}, nil
}

func indexOf(names []string, target string) (int, bool) {
	for i, n := range names {
		if n == target {
			return i, true
		}
	}
	return 0, false
}

// ColumnIndex returns the position of name within the schema.
func (t *Table) ColumnIndex(name string) (int, bool) {
	return indexOf(t.ColumnNames, name)
}

// Len returns the count of non-tombstone rows, the same quantity
// meta_length tracks (spec.md S3, S8).
func (t *Table) Len() int {
	n := 0
	for _, r := range t.Data {
		if r.IsLive() {
			n++
		}
	}
	return n
}

// Insert coerces each slot of values to its column's type, enforces the
// primary-key uniqueness invariant, and writes the row into a free slot (if
// InsertStack is non-empty) or appends it. It returns the position the row
// was written at. The caller persists the shortened InsertStack (spec.md
// S4.3's insert contract: "the caller is responsible for persisting the
// shortened insert-stack").
func (t *Table) Insert(values []any) (int, error) {
	if len(values) != len(t.ColumnNames) {
		return 0, fmt.Errorf("table %s: insert: expected %d values, got %d", t.Name, len(t.ColumnNames), len(values))
	}

	coerced := make([]any, len(values))
	for i, v := range values {
		cv, err := Coerce(v, t.ColumnTypes[i])
		if err != nil {
			return 0, fmt.Errorf("table %s column %s: %w", t.Name, t.ColumnNames[i], err)
		}
		coerced[i] = cv
	}

	if t.PKIdx >= 0 {
		key := coerced[t.PKIdx]
		if key == nil {
			return 0, fmt.Errorf("table %s: primary key %s is null: %w", t.Name, t.PrimaryKey, reldberr.ErrPrimaryKeyViolation)
		}
		if _, found := t.findByPK(key); found {
			return 0, fmt.Errorf("table %s: primary key %v already present: %w", t.Name, key, reldberr.ErrPrimaryKeyViolation)
		}
	}

	row := Row{State: RowLive, Values: coerced}

	if n := len(t.InsertStack); n > 0 {
		pos := t.InsertStack[n-1]
		t.InsertStack = t.InsertStack[:n-1]
		t.Data[pos] = row
		return pos, nil
	}

	t.Data = append(t.Data, row)
	return len(t.Data) - 1, nil
}

func (t *Table) findByPK(key any) (int, bool) {
	for pos, r := range t.Data {
		if r.IsLive() && Compare(r.Values[t.PKIdx], key, t.ColumnTypes[t.PKIdx]) == 0 {
			return pos, true
		}
	}
	return 0, false
}

// DeleteWhere replaces every matching non-tombstone row with a tombstone
// and returns the freed positions in match order, so the caller can push
// them onto the insert-stack (spec.md S4.3).
func (t *Table) DeleteWhere(cond *condition.Condition) ([]int, error) {
	var freed []int
	for pos := range t.Data {
		if !t.Data[pos].IsLive() {
			continue
		}
		match, err := t.evaluate(cond, t.Data[pos].Values)
		if err != nil {
			return nil, err
		}
		if match {
			t.Data[pos] = tombstone()
			freed = append(freed, pos)
		}
	}
	return freed, nil
}

// UpdateRows coerces setValue to setColumn's type and overwrites it on
// every matching non-tombstone row, rejecting any update to the primary
// key that would introduce a duplicate (spec.md S4.3).
func (t *Table) UpdateRows(setColumn string, setValue any, cond *condition.Condition) error {
	colIdx, ok := t.ColumnIndex(setColumn)
	if !ok {
		return fmt.Errorf("table %s: %w: %s", t.Name, reldberr.ErrUnknownColumn, setColumn)
	}
	coercedSet, err := Coerce(setValue, t.ColumnTypes[colIdx])
	if err != nil {
		return fmt.Errorf("table %s column %s: %w", t.Name, setColumn, err)
	}

	for pos := range t.Data {
		if !t.Data[pos].IsLive() {
			continue
		}
		match, err := t.evaluate(cond, t.Data[pos].Values)
		if err != nil {
			return err
		}
		if !match {
			continue
		}
		if colIdx == t.PKIdx {
			for other, r := range t.Data {
				if other != pos && r.IsLive() && Compare(r.Values[t.PKIdx], coercedSet, t.ColumnTypes[t.PKIdx]) == 0 {
					return fmt.Errorf("table %s: update would duplicate primary key %v: %w", t.Name, coercedSet, reldberr.ErrPrimaryKeyViolation)
				}
			}
		}
		t.Data[pos].Values[colIdx] = coercedSet
	}
	return nil
}

// SelectWhere projects columns from every matching non-tombstone row into a
// new anonymously named Table, optionally sorted and truncated (spec.md
// S4.3). columns that is nil, empty, or exactly ["*"] selects every column.
func (t *Table) SelectWhere(columns []string, cond *condition.Condition, orderBy string, desc bool, topK *int) (*Table, error) {
	projIdx, projNames, projTypes, err := t.resolveProjection(columns)
	if err != nil {
		return nil, err
	}

	result, err := New(uuid.NewString(), projNames, projTypes, nil, "")
	if err != nil {
		return nil, err
	}

	for _, row := range t.Data {
		if !row.IsLive() {
			continue
		}
		match, err := t.evaluate(cond, row.Values)
		if err != nil {
			return nil, err
		}
		if !match {
			continue
		}
		projected := make([]any, len(projIdx))
		for i, colIdx := range projIdx {
			projected[i] = row.Values[colIdx]
		}
		if _, err := result.Insert(projected); err != nil {
			return nil, err
		}
	}

	if orderBy != "" {
		if err := result.Sort(orderBy, !desc); err != nil {
			return nil, err
		}
	}

	if topK != nil && *topK < len(result.Data) {
		result.Data = result.Data[:*topK]
	}

	return result, nil
}

func (t *Table) resolveProjection(columns []string) ([]int, []string, []ColumnType, error) {
	if len(columns) == 0 || (len(columns) == 1 && columns[0] == "*") {
		idx := make([]int, len(t.ColumnNames))
		for i := range idx {
			idx[i] = i
		}
		return idx, append([]string(nil), t.ColumnNames...), append([]ColumnType(nil), t.ColumnTypes...), nil
	}

	idx := make([]int, len(columns))
	names := make([]string, len(columns))
	types := make([]ColumnType, len(columns))
	for i, c := range columns {
		ci, ok := t.ColumnIndex(c)
		if !ok {
			return nil, nil, nil, fmt.Errorf("table %s: %w: %s", t.Name, reldberr.ErrUnknownColumn, c)
		}
		idx[i] = ci
		names[i] = c
		types[i] = t.ColumnTypes[ci]
	}
	return idx, names, types, nil
}

// Sort stably reorders Data in place by column's natural order. Tombstones
// sort after all live rows so callers that re-slice after a Sort+top_k
// never surface a tombstone.
func (t *Table) Sort(column string, asc bool) error {
	colIdx, ok := t.ColumnIndex(column)
	if !ok {
		return fmt.Errorf("table %s: %w: %s", t.Name, reldberr.ErrUnknownColumn, column)
	}
	ct := t.ColumnTypes[colIdx]

	sort.SliceStable(t.Data, func(i, j int) bool {
		ri, rj := t.Data[i], t.Data[j]
		if ri.IsLive() != rj.IsLive() {
			return ri.IsLive()
		}
		if !ri.IsLive() {
			return false
		}
		c := Compare(ri.Values[colIdx], rj.Values[colIdx], ct)
		if asc {
			return c < 0
		}
		return c > 0
	})
	return nil
}

// CastColumn rewrites every slot of column through newType's coercion,
// aborting without partial mutation if any slot fails to coerce (spec.md
// S4.3).
func (t *Table) CastColumn(column string, newType ColumnType) error {
	colIdx, ok := t.ColumnIndex(column)
	if !ok {
		return fmt.Errorf("table %s: %w: %s", t.Name, reldberr.ErrUnknownColumn, column)
	}

	recast := make([]any, len(t.Data))
	for pos, row := range t.Data {
		if !row.IsLive() {
			continue
		}
		v, err := Coerce(row.Values[colIdx], newType)
		if err != nil {
			return fmt.Errorf("table %s column %s row %d: %w", t.Name, column, pos, err)
		}
		recast[pos] = v
	}

	for pos, row := range t.Data {
		if !row.IsLive() {
			continue
		}
		t.Data[pos].Values[colIdx] = recast[pos]
	}
	t.ColumnTypes[colIdx] = newType
	return nil
}

func (t *Table) evaluate(cond *condition.Condition, row []any) (bool, error) {
	if cond == nil {
		return true, nil
	}

	colIdx, ct, colOnLeft, literalOperand, err := t.resolveConditionOperands(*cond)
	if err != nil {
		return false, err
	}

	literal, err := Coerce(literalOperand, ct)
	if err != nil {
		return false, err
	}

	columnValue := row[colIdx]
	var cmp int
	if colOnLeft {
		cmp = Compare(columnValue, literal, ct)
	} else {
		cmp = Compare(literal, columnValue, ct)
	}

	switch cond.Operator {
	case "=":
		return cmp == 0, nil
	case "<":
		return cmp < 0, nil
	case ">":
		return cmp > 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">=":
		return cmp >= 0, nil
	default:
		return false, fmt.Errorf("table %s: operator %q: %w", t.Name, cond.Operator, reldberr.ErrMalformedCondition)
	}
}

// resolveConditionOperands identifies which operand of cond names a column
// of t, per spec.md S4.1's "exactly one of L, R is expected to be a column
// name".
func (t *Table) resolveConditionOperands(cond condition.Condition) (colIdx int, ct ColumnType, colOnLeft bool, literal any, err error) {
	switch {
	case cond.Left.IsColumn:
		idx, ok := t.ColumnIndex(cond.Left.Column)
		if !ok {
			return 0, 0, false, nil, fmt.Errorf("table %s: %w: %s", t.Name, reldberr.ErrUnknownColumn, cond.Left.Column)
		}
		return idx, t.ColumnTypes[idx], true, cond.Right.Literal, nil
	case cond.Right.IsColumn:
		idx, ok := t.ColumnIndex(cond.Right.Column)
		if !ok {
			return 0, 0, false, nil, fmt.Errorf("table %s: %w: %s", t.Name, reldberr.ErrUnknownColumn, cond.Right.Column)
		}
		return idx, t.ColumnTypes[idx], false, cond.Left.Literal, nil
	default:
		return 0, 0, false, nil, fmt.Errorf("table %s: condition has no column operand: %w", t.Name, reldberr.ErrMalformedCondition)
	}
}
