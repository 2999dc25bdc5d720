package catalog

import (
	"fmt"

	"github.com/reldb/reldb/internal/btree"
	"github.com/reldb/reldb/internal/condition"
	"github.com/reldb/reldb/internal/reldberr"
	"github.com/reldb/reldb/internal/table"
)

// Join implements the Database-level join-method selector: parse the
// condition as Lcol op Rcol, and choose among nested-loop,
// index-nested-loop and sort-merge purely by which side(s) of the
// equality match their own table's primary key.
func (d *Database) Join(mode, leftName, rightName, conditionText string) (*table.Table, error) {
	if mode != "inner" {
		return nil, fmt.Errorf("join mode %q: %w", mode, reldberr.ErrUnsupportedJoinMode)
	}

	left, ok := d.Tables[leftName]
	if !ok {
		return nil, fmt.Errorf("join: %w: %s", reldberr.ErrUnknownTable, leftName)
	}
	right, ok := d.Tables[rightName]
	if !ok {
		return nil, fmt.Errorf("join: %w: %s", reldberr.ErrUnknownTable, rightName)
	}

	cond, err := condition.Parse(conditionText)
	if err != nil {
		return nil, err
	}
	if !cond.Left.IsColumn || !cond.Right.IsColumn {
		return nil, fmt.Errorf("join condition must compare two columns: %w", reldberr.ErrMalformedCondition)
	}

	if cond.Operator != "=" {
		return left.InnerJoin(right, cond)
	}

	leftCol := unqualifyName(leftName, cond.Left.Column)
	rightCol := unqualifyName(rightName, cond.Right.Column)
	leftIsPK := left.PrimaryKey != "" && leftCol == left.PrimaryKey
	rightIsPK := right.PrimaryKey != "" && rightCol == right.PrimaryKey

	switch {
	case leftIsPK && rightIsPK:
		leftIdx := d.indexForJoin(left)
		rightIdx := d.indexForJoin(right)
		return left.SmjJoin(right, leftIdx, rightIdx, cond)
	case rightIsPK:
		rightIdx := d.indexForJoin(right)
		return left.InljJoin(right, rightIdx, cond)
	case leftIsPK:
		// Only the left side's column is its own primary key: swap the
		// operands and the condition, then index-nested-loop with right
		// as outer.
		swapped := condition.Condition{Left: cond.Right, Operator: cond.Operator, Right: cond.Left}
		leftIdx := d.indexForJoin(left)
		return right.InljJoin(left, leftIdx, swapped)
	default:
		return left.InnerJoin(right, cond)
	}
}

func unqualifyName(tableName, column string) string {
	prefix := tableName + "."
	if len(column) > len(prefix) && column[:len(prefix)] == prefix {
		return column[len(prefix):]
	}
	return column
}

// indexForJoin builds a transient index over t's primary key from the
// table's current rows, ignoring any registered index (which is not
// maintained after create_index and may be stale): the join selector's
// choice of algorithm depends only on which column is the primary key, not
// on whether create_index happened to have been called first.
func (d *Database) indexForJoin(t *table.Table) *btree.Tree {
	bt := btree.New(table.Less(t.ColumnTypes[t.PKIdx]))
	for pos, row := range t.Data {
		if row.IsLive() {
			bt.Insert(row.Values[t.PKIdx], pos)
		}
	}
	return bt
}
