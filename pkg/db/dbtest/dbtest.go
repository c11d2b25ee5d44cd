// Package dbtest opens a migrated in-memory database for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/hasdev/api-gateway/pkg/db"
	"github.com/hasdev/api-gateway/pkg/gwlog"
	"github.com/uptrace/bun"
)

// New returns a fresh SQLite database with every migration applied. The
// database is closed when the test finishes.
func New(t testing.TB) *bun.DB {
	t.Helper()

	ctx := context.Background()
	database, err := db.New(ctx, db.Config{Driver: db.DriverSQLite, Path: ":memory:"})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := db.Migrate(ctx, database, gwlog.Discard()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return database
}
