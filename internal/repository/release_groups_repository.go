package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fansubkit/metaparse/internal/releasegroups"
)

// ReleaseGroupsRepository persists harvested release-group entries so a
// restart doesn't require re-scraping the feed before the keyword
// dictionary can be rebuilt.
type ReleaseGroupsRepository struct {
	db *sql.DB
}

// NewReleaseGroupsRepository creates a new instance of ReleaseGroupsRepository.
func NewReleaseGroupsRepository(db *sql.DB) *ReleaseGroupsRepository {
	return &ReleaseGroupsRepository{
		db: db,
	}
}

// Upsert inserts or refreshes a harvested entry, keyed by name.
func (r *ReleaseGroupsRepository) Upsert(ctx context.Context, entry releasegroups.Entry) error {
	if entry.Name == "" {
		return fmt.Errorf("entry name cannot be empty")
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO release_groups (name, name_traditional, source_url, harvested_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			name_traditional = excluded.name_traditional,
			source_url = excluded.source_url,
			harvested_at = excluded.harvested_at
	`, entry.Name, nullString(entry.NameTraditional), entry.SourceURL, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert release group: %w", err)
	}

	return nil
}

// UpsertAll upserts every entry in entries.
func (r *ReleaseGroupsRepository) UpsertAll(ctx context.Context, entries []releasegroups.Entry) error {
	for _, entry := range entries {
		if err := r.Upsert(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

// ListAll retrieves every harvested release group.
func (r *ReleaseGroupsRepository) ListAll(ctx context.Context) ([]releasegroups.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, name_traditional, source_url FROM release_groups ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list release groups: %w", err)
	}
	defer rows.Close()

	entries := make([]releasegroups.Entry, 0)
	for rows.Next() {
		var entry releasegroups.Entry
		var nameTraditional sql.NullString
		if err := rows.Scan(&entry.Name, &nameTraditional, &entry.SourceURL); err != nil {
			return nil, fmt.Errorf("failed to scan release group: %w", err)
		}
		entry.NameTraditional = nameTraditional.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating release groups: %w", err)
	}

	return entries, nil
}

// Count returns the total number of harvested release groups.
func (r *ReleaseGroupsRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM release_groups").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count release groups: %w", err)
	}
	return count, nil
}
