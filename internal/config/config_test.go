package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	require.NoError(t, Initialize(""))
	require.Equal(t, "dbdata", DBDir())
	require.Equal(t, 5*time.Second, LockTimeout())
	require.False(t, Debug())
}

func TestEnvVarOverridesDefault(t *testing.T) {
	t.Setenv("RELDB_DB_DIR", "/tmp/custom")
	require.NoError(t, Initialize(""))
	require.Equal(t, "/tmp/custom", DBDir())
}

func TestConfigFileOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reldb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db-dir: /from/file\n"), 0o644))

	require.NoError(t, Initialize(path))
	require.Equal(t, "/from/file", DBDir())
}

func TestSetOverridesEverything(t *testing.T) {
	t.Setenv("RELDB_DB_DIR", "/tmp/custom")
	require.NoError(t, Initialize(""))
	Set("db-dir", "/from/flag")
	require.Equal(t, "/from/flag", DBDir())
}
