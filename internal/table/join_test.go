package table

import (
	"testing"

	"github.com/reldb/reldb/internal/btree"
	"github.com/reldb/reldb/internal/condition"
	"github.com/stretchr/testify/require"
)

func buildIndex(t *testing.T, tbl *Table) *btree.Tree {
	t.Helper()
	bt := btree.New(Less(tbl.ColumnTypes[tbl.PKIdx]))
	for pos, row := range tbl.Data {
		if row.IsLive() {
			bt.Insert(row.Values[tbl.PKIdx], pos)
		}
	}
	return bt
}

func TestInnerJoinEquiJoin(t *testing.T) {
	instructor := mustTable(t, "instructor", []string{"ID", "name"}, []ColumnType{TypeString, TypeString}, "ID")
	_, _ = instructor.Insert([]any{"10101", "Srinivasan"})
	_, _ = instructor.Insert([]any{"12121", "Wu"})

	advisor := mustTable(t, "advisor", []string{"s_ID", "i_ID"}, []ColumnType{TypeString, TypeString}, "s_ID")
	_, _ = advisor.Insert([]any{"00128", "10101"})
	_, _ = advisor.Insert([]any{"00129", "12121"})

	cond, err := condition.Parse("instructor.ID = advisor.i_ID")
	require.NoError(t, err)

	result, err := instructor.InnerJoin(advisor, cond)
	require.NoError(t, err)
	require.Equal(t, 2, result.Len())
}

func TestInljJoinMatchesInnerJoin(t *testing.T) {
	instructor := mustTable(t, "instructor", []string{"ID", "name"}, []ColumnType{TypeString, TypeString}, "ID")
	_, _ = instructor.Insert([]any{"10101", "Srinivasan"})
	_, _ = instructor.Insert([]any{"12121", "Wu"})

	advisor := mustTable(t, "advisor", []string{"s_ID", "i_ID"}, []ColumnType{TypeString, TypeString}, "s_ID")
	_, _ = advisor.Insert([]any{"00128", "10101"})

	cond, err := condition.Parse("advisor.i_ID = instructor.ID")
	require.NoError(t, err)
	idx := buildIndex(t, instructor)

	result, err := advisor.InljJoin(instructor, idx, cond)
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())

	nested, err := advisor.InnerJoin(instructor, cond)
	require.NoError(t, err)
	require.Equal(t, nested.Data, result.Data)
}

func TestSmjJoinBothIndexed(t *testing.T) {
	instructor := mustTable(t, "instructor", []string{"ID", "name"}, []ColumnType{TypeString, TypeString}, "ID")
	_, _ = instructor.Insert([]any{"10101", "Srinivasan"})
	_, _ = instructor.Insert([]any{"12121", "Wu"})

	student := mustTable(t, "student", []string{"ID", "name"}, []ColumnType{TypeString, TypeString}, "ID")
	_, _ = student.Insert([]any{"10101", "dup-key-coincidence"})

	instructorIdx := buildIndex(t, instructor)
	studentIdx := buildIndex(t, student)

	cond, err := condition.Parse("instructor.ID = student.ID")
	require.NoError(t, err)

	result, err := instructor.SmjJoin(student, instructorIdx, studentIdx, cond)
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())
}
