package configlibsql

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	require.Equal(t, Struct{Url: "libsql://schedules.turso.io"}, Parse("libsql://schedules.turso.io"))
	require.Equal(t, Struct{Url: "https://schedules.turso.io"}, Parse("https://schedules.turso.io"))
	require.Equal(t, Struct{File: "results.db"}, Parse("results.db"))
	require.Equal(t, Struct{File: "<dev_state>/results.db"}, Parse("<dev_state>/results.db"))
}

func TestOpenDBFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	db, err := Struct{File: path}.OpenDB()
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec("create table t (x integer)")
	require.NoError(t, err)
	require.FileExists(t, path)
}

func TestOpenDBMissingPath(t *testing.T) {
	_, err := Struct{}.OpenDB()
	require.Error(t, err)
}
