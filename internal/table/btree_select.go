package table

import (
	"github.com/google/uuid"
	"github.com/reldb/reldb/internal/btree"
	"github.com/reldb/reldb/internal/condition"
)

// SelectWhereWithBTree accelerates an equality lookup on the primary key
// using bt's PointLookup iterator (spec.md S4.3). Any condition that is not
// "primary key = literal" falls back to SelectWhere, exactly as specified:
// "non-equality operators fall back to select_where".
func (t *Table) SelectWhereWithBTree(columns []string, bt *btree.Tree, cond *condition.Condition, orderBy string, desc bool, topK *int) (*Table, error) {
	if !t.isPKEquality(cond) {
		return t.SelectWhere(columns, cond, orderBy, desc, topK)
	}

	projIdx, projNames, projTypes, err := t.resolveProjection(columns)
	if err != nil {
		return nil, err
	}

	result, err := New(uuid.NewString(), projNames, projTypes, nil, "")
	if err != nil {
		return nil, err
	}

	key, colOnLeft, err := t.pkLiteral(*cond)
	if err != nil {
		return nil, err
	}
	_ = colOnLeft

	it := t.PointLookup(bt, key)
	if _, row, ok := it.Next(); ok {
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

// isPKEquality reports whether cond is an equality test against t's
// primary-key column, the only shape select_where_with_btree accelerates.
func (t *Table) isPKEquality(cond *condition.Condition) bool {
	if cond == nil || cond.Operator != "=" || t.PKIdx < 0 {
		return false
	}
	if cond.Left.IsColumn && cond.Left.Column == t.PrimaryKey {
		return true
	}
	if cond.Right.IsColumn && cond.Right.Column == t.PrimaryKey {
		return true
	}
	return false
}

func (t *Table) pkLiteral(cond condition.Condition) (any, bool, error) {
	var literal any
	var colOnLeft bool
	if cond.Left.IsColumn {
		literal, colOnLeft = cond.Right.Literal, true
	} else {
		literal, colOnLeft = cond.Left.Literal, false
	}
	key, err := Coerce(literal, t.ColumnTypes[t.PKIdx])
	if err != nil {
		return nil, false, err
	}
	return key, colOnLeft, nil
}
