package migrations

import "github.com/uptrace/bun/migrate"

// Migrations collects every migration registered by the files in this
// package. Files are named <timestamp>_<name>.go.
var Migrations = migrate.NewMigrations()
