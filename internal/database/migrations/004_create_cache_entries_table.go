package migrations

import (
	"database/sql"
	"fmt"
)

// CreateCacheEntriesTable is the migration to create the cache_entries table,
// a generic TTL-keyed cache used to avoid re-fetching the release-group feed
// within its freshness window.
type CreateCacheEntriesTable struct {
	migrationBase
}

func init() {
	Register(&CreateCacheEntriesTable{
		migrationBase: NewMigrationBase(4, "create_cache_entries_table"),
	})
}

// Up creates the cache_entries table
func (m *CreateCacheEntriesTable) Up(tx *sql.Tx) error {
	query := `
		CREATE TABLE IF NOT EXISTS cache_entries (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			type TEXT NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_cache_entries_type ON cache_entries(type);
		CREATE INDEX IF NOT EXISTS idx_cache_entries_expires_at ON cache_entries(expires_at);
	`

	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create cache_entries table: %w", err)
	}

	return nil
}

// Down drops the cache_entries table
func (m *CreateCacheEntriesTable) Down(tx *sql.Tx) error {
	query := `
		DROP INDEX IF EXISTS idx_cache_entries_expires_at;
		DROP INDEX IF EXISTS idx_cache_entries_type;
		DROP TABLE IF EXISTS cache_entries;
	`

	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to drop cache_entries table: %w", err)
	}

	return nil
}
