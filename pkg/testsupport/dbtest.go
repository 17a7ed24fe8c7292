package testsupport

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-cms-sections/internal/database"
)

// NewSQLiteMemoryDB opens a named shared in-memory database. Distinct names
// isolate tests from each other.
func NewSQLiteMemoryDB(name string) (*sql.DB, error) {
	sqldb, err := sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		return nil, err
	}
	sqldb.SetMaxOpenConns(1)
	return sqldb, nil
}

// NewBunDB returns a migrated bun database closed with the test.
func NewBunDB(t testing.TB, name string) *bun.DB {
	t.Helper()
	sqldb, err := NewSQLiteMemoryDB(name)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
