package migrations

import (
	"database/sql"
	"fmt"
)

// CreateFilenameMappingsTable is the migration to create the filename_mappings
// table, which stores user-taught corrections to the parser's own output.
type CreateFilenameMappingsTable struct {
	migrationBase
}

func init() {
	// Register this migration with the global registry
	Register(&CreateFilenameMappingsTable{
		migrationBase: NewMigrationBase(10, "create_filename_mappings_table"),
	})
}

// Up creates the filename_mappings table
func (m *CreateFilenameMappingsTable) Up(tx *sql.Tx) error {
	query := `
		CREATE TABLE IF NOT EXISTS filename_mappings (
			id TEXT PRIMARY KEY,
			original_filename TEXT NOT NULL UNIQUE,
			fansub_group TEXT,
			title_pattern TEXT,
			corrected_title TEXT,
			corrected_season TEXT,
			corrected_episode TEXT,
			confidence REAL NOT NULL DEFAULT 1.0,
			use_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_used_at TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_filename_mappings_filename ON filename_mappings(original_filename);
		CREATE INDEX IF NOT EXISTS idx_filename_mappings_fansub_group ON filename_mappings(fansub_group);
		CREATE INDEX IF NOT EXISTS idx_filename_mappings_title_pattern ON filename_mappings(title_pattern);
		CREATE INDEX IF NOT EXISTS idx_filename_mappings_fansub_title ON filename_mappings(fansub_group, title_pattern);
	`

	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create filename_mappings table: %w", err)
	}

	return nil
}

// Down drops the filename_mappings table
func (m *CreateFilenameMappingsTable) Down(tx *sql.Tx) error {
	query := `
		DROP INDEX IF EXISTS idx_filename_mappings_fansub_title;
		DROP INDEX IF EXISTS idx_filename_mappings_title_pattern;
		DROP INDEX IF EXISTS idx_filename_mappings_fansub_group;
		DROP INDEX IF EXISTS idx_filename_mappings_filename;
		DROP TABLE IF EXISTS filename_mappings;
	`

	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to drop filename_mappings table: %w", err)
	}

	return nil
}
