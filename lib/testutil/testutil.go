package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"coupang-search/internal/db"
)

// OpenHistoryDB opens an in-memory run history database that is closed once
// the test finishes.
func OpenHistoryDB(t testing.TB) *sql.DB {
	t.Helper()
	sqldb, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		sqldb.Close()
	})
	return sqldb
}

// WriteFiles writes every name -> contents pair into dir.
func WriteFiles(t testing.TB, dir string, files map[string][]byte) {
	t.Helper()
	for name, contents := range files {
		err := os.WriteFile(filepath.Join(dir, name), contents, 0644)
		if err != nil {
			t.Fatal(err)
		}
	}
}
