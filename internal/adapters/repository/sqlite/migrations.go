package sqlite

import (
	"database/sql"
	"fmt"
)

// migration represents a single schema migration.
type migration struct {
	version     int
	description string
	sql         string
}

// migrations is the ordered list of schema changes. Append only.
var migrations = []migration{
	{
		version:     1,
		description: "create clipboard items table",
		sql: `
			CREATE TABLE IF NOT EXISTS clipboard_items (
				id TEXT PRIMARY KEY,
				owner_id TEXT NOT NULL,
				content TEXT NOT NULL DEFAULT '',
				content_ref TEXT NOT NULL DEFAULT '',
				content_type TEXT NOT NULL,
				device_type TEXT NOT NULL,
				device_name TEXT NOT NULL,
				target_types TEXT NOT NULL DEFAULT '',
				file_name TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP NOT NULL,
				encrypted INTEGER NOT NULL DEFAULT 0
			);
			CREATE INDEX IF NOT EXISTS idx_items_owner_created
				ON clipboard_items(owner_id, created_at DESC);
		`,
	},
	{
		version:     2,
		description: "create blobs table for image and file payloads",
		sql: `
			CREATE TABLE IF NOT EXISTS clipboard_blobs (
				ref TEXT PRIMARY KEY,
				data BLOB NOT NULL
			);
		`,
	},
}

// applyMigrations brings the schema up to the latest version.
func applyMigrations(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("could not create migrations table: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("could not read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("could not begin migration %d: %w", m.version, err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.description, err)
		}

		if _, err := tx.Exec(
			`INSERT INTO schema_migrations (version, description) VALUES (?, ?)`,
			m.version, m.description,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("could not record migration %d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("could not commit migration %d: %w", m.version, err)
		}
	}

	return nil
}
