package table

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/reldb/reldb/internal/btree"
	"github.com/reldb/reldb/internal/condition"
	"github.com/reldb/reldb/internal/reldberr"
)

// joinSchema builds the disambiguated schema for self JOIN other: plain
// column names where unique across both tables, "table.column" where a
// name collides (spec.md S4.3's inner_join result schema).
func joinSchema(self, other *Table) (names []string, types []ColumnType) {
	seen := make(map[string]int, len(self.ColumnNames)+len(other.ColumnNames))
	for _, n := range self.ColumnNames {
		seen[n]++
	}
	for _, n := range other.ColumnNames {
		seen[n]++
	}

	for i, n := range self.ColumnNames {
		if seen[n] > 1 {
			names = append(names, self.Name+"."+n)
		} else {
			names = append(names, n)
		}
		types = append(types, self.ColumnTypes[i])
	}
	for i, n := range other.ColumnNames {
		if seen[n] > 1 {
			names = append(names, other.Name+"."+n)
		} else {
			names = append(names, n)
		}
		types = append(types, other.ColumnTypes[i])
	}
	return names, types
}

func concatRows(left, right []any) []any {
	out := make([]any, 0, len(left)+len(right))
	out = append(out, left...)
	out = append(out, right...)
	return out
}

// joinColumns resolves which column of self and which column of other the
// join condition compares, following the Lcol/Rcol convention: cond.Left
// names a column of self, cond.Right names a column of other.
func joinColumns(self, other *Table, cond condition.Condition) (selfIdx, otherIdx int, err error) {
	if !cond.Left.IsColumn || !cond.Right.IsColumn {
		return 0, 0, fmt.Errorf("join condition must compare two columns: %w", reldberr.ErrMalformedCondition)
	}
	selfIdx, ok := self.ColumnIndex(unqualify(self.Name, cond.Left.Column))
	if !ok {
		return 0, 0, fmt.Errorf("join: %w: %s", reldberr.ErrUnknownColumn, cond.Left.Column)
	}
	otherIdx, ok = other.ColumnIndex(unqualify(other.Name, cond.Right.Column))
	if !ok {
		return 0, 0, fmt.Errorf("join: %w: %s", reldberr.ErrUnknownColumn, cond.Right.Column)
	}
	return selfIdx, otherIdx, nil
}

// unqualify strips a "table." prefix matching tableName from a join
// condition operand such as "instructor.ID", leaving a bare column name.
func unqualify(tableName, column string) string {
	prefix := tableName + "."
	if len(column) > len(prefix) && column[:len(prefix)] == prefix {
		return column[len(prefix):]
	}
	return column
}

func compareCross(a any, b any, t ColumnType) (int, error) {
	cb, err := Coerce(b, t)
	if err != nil {
		return 0, err
	}
	return Compare(a, cb, t), nil
}

func satisfiesOperator(cmp int, op string) (bool, error) {
	switch op {
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
		return false, fmt.Errorf("join: operator %q: %w", op, reldberr.ErrMalformedCondition)
	}
}

// InnerJoin is the naive nested-loop Cartesian join filtered by cond,
// supporting all five comparison operators (spec.md S4.3).
func (self *Table) InnerJoin(other *Table, cond condition.Condition) (*Table, error) {
	selfIdx, otherIdx, err := joinColumns(self, other, cond)
	if err != nil {
		return nil, err
	}

	names, types := joinSchema(self, other)
	result, err := New(uuid.NewString(), names, types, nil, "")
	if err != nil {
		return nil, err
	}

	outer := self.UnorderedScan()
	for {
		_, lrow, ok := outer.Next()
		if !ok {
			break
		}
		inner := other.UnorderedScan()
		for {
			_, rrow, ok := inner.Next()
			if !ok {
				break
			}
			cmp, err := compareCross(lrow.Values[selfIdx], rrow.Values[otherIdx], self.ColumnTypes[selfIdx])
			if err != nil {
				continue
			}
			match, err := satisfiesOperator(cmp, cond.Operator)
			if err != nil {
				return nil, err
			}
			if match {
				if _, err := result.Insert(concatRows(lrow.Values, rrow.Values)); err != nil {
					return nil, err
				}
			}
		}
	}
	return result, nil
}

// InljJoin requires other to be indexed on the join column's target and
// the operator be "=". For each row of self it probes otherIndex and emits
// at most one joined row per outer row (spec.md S4.3).
func (self *Table) InljJoin(other *Table, otherIndex *btree.Tree, cond condition.Condition) (*Table, error) {
	if cond.Operator != "=" {
		return nil, fmt.Errorf("inlj_join requires operator \"=\": %w", reldberr.ErrMalformedCondition)
	}
	selfIdx, _, err := joinColumns(self, other, cond)
	if err != nil {
		return nil, err
	}

	names, types := joinSchema(self, other)
	result, err := New(uuid.NewString(), names, types, nil, "")
	if err != nil {
		return nil, err
	}

	outer := self.UnorderedScan()
	for {
		_, lrow, ok := outer.Next()
		if !ok {
			break
		}
		key, err := Coerce(lrow.Values[selfIdx], other.ColumnTypes[other.PKIdx])
		if err != nil {
			continue
		}
		probe := other.PointLookup(otherIndex, key)
		if _, rrow, found := probe.Next(); found {
			if _, err := result.Insert(concatRows(lrow.Values, rrow.Values)); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

// SmjJoin requires both tables indexed on their own primary keys and the
// operator be "=". Both are scanned in primary-key order and merged with
// the classic two-pointer algorithm (spec.md S4.3).
func (self *Table) SmjJoin(other *Table, selfIndex, otherIndex *btree.Tree, cond condition.Condition) (*Table, error) {
	if cond.Operator != "=" {
		return nil, fmt.Errorf("smj_join requires operator \"=\": %w", reldberr.ErrMalformedCondition)
	}
	selfIdx, otherIdx, err := joinColumns(self, other, cond)
	if err != nil {
		return nil, err
	}

	names, types := joinSchema(self, other)
	result, err := New(uuid.NewString(), names, types, nil, "")
	if err != nil {
		return nil, err
	}

	collect := func(it RowIterator) []int {
		var out []int
		for {
			p, _, ok := it.Next()
			if !ok {
				return out
			}
			out = append(out, p)
		}
	}
	leftPositions := collect(self.OrderedScan(selfIndex))
	rightPositions := collect(other.OrderedScan(otherIndex))
	ct := self.ColumnTypes[selfIdx]

	i, j := 0, 0
	for i < len(leftPositions) && j < len(rightPositions) {
		lp, rp := leftPositions[i], rightPositions[j]
		if lp >= len(self.Data) || !self.Data[lp].IsLive() {
			i++
			continue
		}
		if rp >= len(other.Data) || !other.Data[rp].IsLive() {
			j++
			continue
		}
		lval := self.Data[lp].Values[selfIdx]
		rval, err := Coerce(other.Data[rp].Values[otherIdx], ct)
		if err != nil {
			j++
			continue
		}
		cmp := Compare(lval, rval, ct)
		switch {
		case cmp < 0:
			i++
		case cmp > 0:
			j++
		default:
			// Equal keys: emit the pair and advance the side that cannot
			// repeat (primary keys are unique, so both always advance).
			if _, err := result.Insert(concatRows(self.Data[lp].Values, other.Data[rp].Values)); err != nil {
				return nil, err
			}
			i++
			j++
		}
	}
	return result, nil
}
