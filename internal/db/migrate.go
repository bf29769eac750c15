package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and re-run
// on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// The snapshot is stored normalised. Ordinals preserve insertion order so a
// load reproduces the saved collections exactly. Cross-table references are
// plain columns, not foreign keys; dangling references are resolved at read
// time.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sites (
		id         TEXT PRIMARY KEY,
		ordinal    INTEGER NOT NULL,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS hierarchy_nodes (
		id         TEXT NOT NULL,
		level      TEXT NOT NULL CHECK(level IN ('phase','section','subsection')),
		ordinal    INTEGER NOT NULL,
		site_id    TEXT NOT NULL DEFAULT '',
		parent_id  TEXT NOT NULL DEFAULT '',
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (level, id)
	)`,

	`CREATE TABLE IF NOT EXISTS tasks (
		id                   TEXT PRIMARY KEY,
		ordinal              INTEGER NOT NULL,
		site_id              TEXT NOT NULL DEFAULT '',
		name                 TEXT NOT NULL,
		phase_id             TEXT NOT NULL DEFAULT '',
		section_id           TEXT NOT NULL DEFAULT '',
		subsection_id        TEXT NOT NULL DEFAULT '',
		due_date             TEXT NOT NULL,
		end_date             TEXT NOT NULL,
		actual_start_date    TEXT,
		actual_end_date      TEXT,
		progress             INTEGER NOT NULL DEFAULT 0,
		dependent_on_task_id TEXT NOT NULL DEFAULT '',
		created_at           TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_hierarchy_nodes_site ON hierarchy_nodes(site_id, level)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_site ON tasks(site_id)`,

	// updated_at records when a setting was last written.
	`ALTER TABLE settings ADD COLUMN updated_at TEXT`,
}
