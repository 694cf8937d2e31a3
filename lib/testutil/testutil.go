package testutil

import (
	"database/sql"
	"testing"
	configlibsql "uwsched/lib/configutil/libsql"
)

// OpenDB opens an in-memory sqlite database with the given schema applied,
// it is closed when the test ends.
func OpenDB(t testing.TB, schema string) *sql.DB {
	t.Helper()

	db, err := configlibsql.Struct{File: ":memory:"}.OpenDB()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	if schema != "" {
		_, err = db.Exec(schema)
		if err != nil {
			t.Fatal(err)
		}
	}
	return db
}
