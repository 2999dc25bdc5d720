package table

import (
	"testing"

	"github.com/reldb/reldb/internal/condition"
	"github.com/reldb/reldb/internal/reldberr"
	"github.com/stretchr/testify/require"
)

func mustTable(t *testing.T, name string, cols []string, types []ColumnType, pk string) *Table {
	tbl, err := New(name, cols, types, nil, pk)
	require.NoError(t, err)
	return tbl
}

func TestCreateInsertSelect(t *testing.T) {
	tbl := mustTable(t, "classroom", []string{"building", "room", "capacity"},
		[]ColumnType{TypeString, TypeString, TypeInteger}, "")

	_, err := tbl.Insert([]any{"Packard", "101", int64(500)})
	require.NoError(t, err)
	_, err = tbl.Insert([]any{"Watson", "100", int64(30)})
	require.NoError(t, err)

	cond, err := condition.Parse("capacity>40")
	require.NoError(t, err)

	result, err := tbl.SelectWhere(nil, &cond, "", false, nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())
	require.Equal(t, []any{"Packard", "101", int64(500)}, result.Data[0].Values)
}

func TestPrimaryKeyUniqueness(t *testing.T) {
	tbl := mustTable(t, "department", []string{"dept_name", "building", "budget"},
		[]ColumnType{TypeString, TypeString, TypeInteger}, "dept_name")

	_, err := tbl.Insert([]any{"Biology", "Watson", int64(90000)})
	require.NoError(t, err)

	_, err = tbl.Insert([]any{"Biology", "Watson", int64(90000)})
	require.ErrorIs(t, err, reldberr.ErrPrimaryKeyViolation)
	require.Equal(t, 1, tbl.Len())
}

func TestDeleteThenReinsertReusesSlot(t *testing.T) {
	tbl := mustTable(t, "classroom", []string{"building", "room", "capacity"},
		[]ColumnType{TypeString, TypeString, TypeInteger}, "")
	_, _ = tbl.Insert([]any{"Packard", "101", int64(500)})
	_, _ = tbl.Insert([]any{"Watson", "100", int64(30)})

	cond, err := condition.Parse(`room="100"`)
	require.NoError(t, err)

	freed, err := tbl.DeleteWhere(&cond)
	require.NoError(t, err)
	require.Equal(t, []int{1}, freed)

	tbl.InsertStack = append(tbl.InsertStack, freed...)

	pos, err := tbl.Insert([]any{"Taylor", "3128", int64(70)})
	require.NoError(t, err)
	require.Equal(t, 1, pos)
	require.Equal(t, []any{"Taylor", "3128", int64(70)}, tbl.Data[1].Values)
	require.Equal(t, 2, tbl.Len())
}

func TestCastColumnAbortsWithoutPartialMutation(t *testing.T) {
	tbl := mustTable(t, "t", []string{"a"}, []ColumnType{TypeString}, "")
	_, _ = tbl.Insert([]any{"12"})
	_, _ = tbl.Insert([]any{"not-a-number"})

	err := tbl.CastColumn("a", TypeInteger)
	require.Error(t, err)
	require.Equal(t, TypeString, tbl.ColumnTypes[0])
	require.Equal(t, "12", tbl.Data[0].Values[0])
}
