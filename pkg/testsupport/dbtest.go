package testsupport

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewSQLiteMemoryDB opens a shared in-memory SQLite database for tests.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	return sql.Open("sqlite3", "file::memory:?cache=shared")
}

// NewBunSQLiteDB wraps an in-memory SQLite handle with the bun dialect. The
// connection pool is capped at one so every query sees the same database.
func NewBunSQLiteDB() (*bun.DB, error) {
	sqlDB, err := NewSQLiteMemoryDB()
	if err != nil {
		return nil, err
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	return db, nil
}
