package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "school_db")
	return New("school", dir)
}

func TestCreateInsertSelectEndToEnd(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateTable("classroom", []string{"building", "room", "capacity"},
		[]string{"string", "string", "integer"}, nil, ""))
	require.NoError(t, db.SaveDatabase())

	require.NoError(t, db.InsertInto("classroom", []any{"Packard", "101", int64(500)}))
	require.NoError(t, db.InsertInto("classroom", []any{"Watson", "100", int64(30)}))

	result, err := db.SelectStatement("classroom", nil, "capacity>40", "", false, nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())
}

func TestPrimaryKeyUniquenessEndToEnd(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateTable("department", []string{"dept_name", "building", "budget"},
		[]string{"string", "string", "integer"}, nil, "dept_name"))
	require.NoError(t, db.SaveDatabase())

	require.NoError(t, db.InsertInto("department", []any{"Biology", "Watson", int64(90000)}))
	err := db.InsertInto("department", []any{"Biology", "Watson", int64(90000)})
	require.Error(t, err)

	require.Equal(t, 1, db.Catalog.Lengths["department"])
}

func TestDeleteThenReinsertReusesSlotEndToEnd(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateTable("classroom", []string{"building", "room", "capacity"},
		[]string{"string", "string", "integer"}, nil, ""))
	require.NoError(t, db.SaveDatabase())
	require.NoError(t, db.InsertInto("classroom", []any{"Packard", "101", int64(500)}))
	require.NoError(t, db.InsertInto("classroom", []any{"Watson", "100", int64(30)}))

	require.NoError(t, db.DeleteFrom("classroom", `room="100"`))
	require.Equal(t, []int{1}, db.Catalog.InsertStacks["classroom"])

	require.NoError(t, db.InsertInto("classroom", []any{"Taylor", "3128", int64(70)}))
	require.Equal(t, 2, db.Catalog.Lengths["classroom"])
	require.Equal(t, []any{"Taylor", "3128", int64(70)}, db.Tables["classroom"].Data[1].Values)
}

func TestIndexAcceleratesEqualitySelect(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateTable("department", []string{"dept_name", "building", "budget"},
		[]string{"string", "string", "integer"}, nil, "dept_name"))
	require.NoError(t, db.SaveDatabase())
	require.NoError(t, db.InsertInto("department", []any{"Biology", "Watson", int64(90000)}))

	require.NoError(t, db.CreateIndex("dept_pk", "department"))
	require.NoError(t, db.SaveDatabase())

	result, err := db.SelectStatement("department", nil, "dept_name=Biology", "", false, nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.Len())
}

func TestLockRespectsPeerProcess(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateTable("classroom", []string{"building", "room"}, []string{"string", "string"}, nil, ""))
	require.NoError(t, db.SaveDatabase())

	// Simulate a peer process setting meta_locks.classroom = true directly
	// on disk, then attempting insert_into from a fresh Database.
	db.Catalog.Locks["classroom"] = true
	require.NoError(t, db.SaveDatabase())

	fresh, err := LoadDatabase("school", db.Dir)
	require.NoError(t, err)
	require.NoError(t, fresh.InsertInto("classroom", []any{"Packard", "101"}))

	require.Equal(t, 0, fresh.Catalog.Lengths["classroom"])
}

func TestSaveLoadRoundTrip(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.CreateTable("department", []string{"dept_name", "budget"}, []string{"string", "integer"}, nil, "dept_name"))
	require.NoError(t, db.SaveDatabase())
	require.NoError(t, db.InsertInto("department", []any{"Biology", int64(90000)}))

	reloaded, err := LoadDatabase("school", db.Dir)
	require.NoError(t, err)
	require.Equal(t, db.Tables["department"].Data, reloaded.Tables["department"].Data)
	require.Equal(t, db.Catalog.Lengths, reloaded.Catalog.Lengths)

	raw, err := os.ReadFile(filepath.Join(db.Dir, descriptorFile))
	require.NoError(t, err)
	var desc descriptor
	_, err = toml.Decode(string(raw), &desc)
	require.NoError(t, err)
	require.Equal(t, []string{"department"}, desc.Tables)
}
