package persist

import (
	"testing"

	"github.com/reldb/reldb/internal/btree"
	"github.com/reldb/reldb/internal/table"
	"github.com/stretchr/testify/require"
)

func TestTableRoundTrip(t *testing.T) {
	tbl, err := table.New("department", []string{"dept_name", "building", "budget"},
		[]table.ColumnType{table.TypeString, table.TypeString, table.TypeInteger}, nil, "dept_name")
	require.NoError(t, err)
	_, err = tbl.Insert([]any{"Biology", "Watson", int64(90000)})
	require.NoError(t, err)
	_, err = tbl.Insert([]any{"Comp. Sci.", "Taylor", int64(100000)})
	require.NoError(t, err)

	encoded, err := EncodeTable(tbl)
	require.NoError(t, err)

	decoded, err := DecodeTable(encoded)
	require.NoError(t, err)

	require.Equal(t, tbl.Name, decoded.Name)
	require.Equal(t, tbl.PrimaryKey, decoded.PrimaryKey)
	require.Equal(t, tbl.PKIdx, decoded.PKIdx)
	require.Equal(t, tbl.ColumnNames, decoded.ColumnNames)
	require.Equal(t, tbl.ColumnTypes, decoded.ColumnTypes)
	require.Equal(t, tbl.Data, decoded.Data)
}

func TestTableRoundTripWithTombstonesAndInsertStack(t *testing.T) {
	tbl, err := table.New("classroom", []string{"building", "room"}, []table.ColumnType{table.TypeString, table.TypeString}, nil, "")
	require.NoError(t, err)
	_, _ = tbl.Insert([]any{"Packard", "101"})
	_, _ = tbl.Insert([]any{"Watson", "100"})
	tbl.Data[1] = table.Row{State: table.RowTombstone}
	tbl.InsertStack = []int{1}

	encoded, err := EncodeTable(tbl)
	require.NoError(t, err)
	decoded, err := DecodeTable(encoded)
	require.NoError(t, err)

	require.Equal(t, []int{1}, decoded.InsertStack)
	require.False(t, decoded.Data[1].IsLive())
}

func TestIndexRoundTrip(t *testing.T) {
	bt := btree.New(table.Less(table.TypeString))
	bt.Insert("Biology", 0)
	bt.Insert("Comp. Sci.", 1)

	encoded, err := EncodeIndex(bt)
	require.NoError(t, err)

	decoded, err := DecodeIndex(encoded, table.Less(table.TypeString))
	require.NoError(t, err)

	pos, ok := decoded.Find("Biology")
	require.True(t, ok)
	require.Equal(t, 0, pos)
}
