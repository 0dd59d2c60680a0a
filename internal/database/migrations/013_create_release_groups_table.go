package migrations

import (
	"database/sql"
	"fmt"
)

// CreateReleaseGroupsTable is the migration to create the release_groups
// table, which persists fansub group names harvested from a feed so they
// survive a restart without re-scraping.
type CreateReleaseGroupsTable struct {
	migrationBase
}

func init() {
	Register(&CreateReleaseGroupsTable{
		migrationBase: NewMigrationBase(13, "create_release_groups_table"),
	})
}

// Up creates the release_groups table
func (m *CreateReleaseGroupsTable) Up(tx *sql.Tx) error {
	query := `
		CREATE TABLE IF NOT EXISTS release_groups (
			name TEXT PRIMARY KEY,
			name_traditional TEXT,
			source_url TEXT NOT NULL,
			harvested_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_release_groups_harvested_at ON release_groups(harvested_at);
	`

	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to create release_groups table: %w", err)
	}

	return nil
}

// Down drops the release_groups table
func (m *CreateReleaseGroupsTable) Down(tx *sql.Tx) error {
	query := `
		DROP INDEX IF EXISTS idx_release_groups_harvested_at;
		DROP TABLE IF EXISTS release_groups;
	`

	if _, err := tx.Exec(query); err != nil {
		return fmt.Errorf("failed to drop release_groups table: %w", err)
	}

	return nil
}
