package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fansubkit/metaparse/internal/learning"
)

// LearningRepository provides data access operations for filename mappings,
// the persisted form of user-taught corrections to the parser's output.
type LearningRepository struct {
	db *sql.DB
}

// NewLearningRepository creates a new instance of LearningRepository.
func NewLearningRepository(db *sql.DB) *LearningRepository {
	return &LearningRepository{
		db: db,
	}
}

var _ learning.Repository = (*LearningRepository)(nil)

// Save inserts a new filename mapping into the database.
func (r *LearningRepository) Save(ctx context.Context, mapping *learning.FilenameMapping) error {
	if mapping == nil {
		return fmt.Errorf("mapping cannot be nil")
	}

	query := `
		INSERT INTO filename_mappings (
			id, original_filename, fansub_group, title_pattern,
			corrected_title, corrected_season, corrected_episode,
			confidence, use_count, created_at, last_used_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		mapping.ID,
		mapping.OriginalFilename,
		nullString(mapping.FansubGroup),
		nullString(mapping.TitlePattern),
		nullString(mapping.CorrectedTitle),
		nullString(mapping.CorrectedSeason),
		nullString(mapping.CorrectedEpisode),
		mapping.Confidence,
		mapping.UseCount,
		mapping.CreatedAt,
		nullTime(mapping.LastUsedAt),
	)

	if err != nil {
		return fmt.Errorf("failed to save mapping: %w", err)
	}

	return nil
}

// FindByID retrieves a mapping by its primary key.
func (r *LearningRepository) FindByID(ctx context.Context, id string) (*learning.FilenameMapping, error) {
	query := `
		SELECT
			id, original_filename, fansub_group, title_pattern,
			corrected_title, corrected_season, corrected_episode,
			confidence, use_count, created_at, last_used_at
		FROM filename_mappings
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindByExactFilename retrieves a mapping by its exact original filename.
func (r *LearningRepository) FindByExactFilename(ctx context.Context, filename string) (*learning.FilenameMapping, error) {
	query := `
		SELECT
			id, original_filename, fansub_group, title_pattern,
			corrected_title, corrected_season, corrected_episode,
			confidence, use_count, created_at, last_used_at
		FROM filename_mappings
		WHERE original_filename = ?
	`

	return r.scanOne(r.db.QueryRowContext(ctx, query, filename))
}

// FindByFansubAndTitle retrieves mappings sharing a fansub group and title pattern.
func (r *LearningRepository) FindByFansubAndTitle(ctx context.Context, fansubGroup, titlePattern string) ([]*learning.FilenameMapping, error) {
	query := `
		SELECT
			id, original_filename, fansub_group, title_pattern,
			corrected_title, corrected_season, corrected_episode,
			confidence, use_count, created_at, last_used_at
		FROM filename_mappings
		WHERE fansub_group = ? AND title_pattern = ?
		ORDER BY use_count DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, fansubGroup, titlePattern)
	if err != nil {
		return nil, fmt.Errorf("failed to find mappings: %w", err)
	}
	defer rows.Close()

	return scanMappings(rows)
}

// ListAll retrieves all filename mappings.
func (r *LearningRepository) ListAll(ctx context.Context) ([]*learning.FilenameMapping, error) {
	query := `
		SELECT
			id, original_filename, fansub_group, title_pattern,
			corrected_title, corrected_season, corrected_episode,
			confidence, use_count, created_at, last_used_at
		FROM filename_mappings
		ORDER BY use_count DESC, created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list all mappings: %w", err)
	}
	defer rows.Close()

	return scanMappings(rows)
}

// Delete removes a filename mapping by ID.
func (r *LearningRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM filename_mappings WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete mapping: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("mapping with id %s not found", id)
	}

	return nil
}

// IncrementUseCount increments the use count and updates last_used_at.
func (r *LearningRepository) IncrementUseCount(ctx context.Context, id string) error {
	query := `
		UPDATE filename_mappings
		SET use_count = use_count + 1, last_used_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to increment use count: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("mapping with id %s not found", id)
	}

	return nil
}

// Count returns the total number of filename mappings.
func (r *LearningRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM filename_mappings`

	var count int
	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count mappings: %w", err)
	}

	return count, nil
}

// Update modifies an existing filename mapping. Not part of learning.Repository,
// but used by the learning handler's edit endpoint.
func (r *LearningRepository) Update(ctx context.Context, mapping *learning.FilenameMapping) error {
	if mapping == nil {
		return fmt.Errorf("mapping cannot be nil")
	}

	query := `
		UPDATE filename_mappings
		SET
			fansub_group = ?,
			title_pattern = ?,
			corrected_title = ?,
			corrected_season = ?,
			corrected_episode = ?,
			confidence = ?,
			use_count = ?,
			last_used_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		nullString(mapping.FansubGroup),
		nullString(mapping.TitlePattern),
		nullString(mapping.CorrectedTitle),
		nullString(mapping.CorrectedSeason),
		nullString(mapping.CorrectedEpisode),
		mapping.Confidence,
		mapping.UseCount,
		nullTime(mapping.LastUsedAt),
		mapping.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update mapping: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("mapping with id %s not found", mapping.ID)
	}

	return nil
}

func (r *LearningRepository) scanOne(row *sql.Row) (*learning.FilenameMapping, error) {
	mapping := &learning.FilenameMapping{}
	var fansubGroup, titlePattern, correctedTitle, correctedSeason, correctedEpisode sql.NullString
	var lastUsedAt sql.NullTime

	err := row.Scan(
		&mapping.ID,
		&mapping.OriginalFilename,
		&fansubGroup,
		&titlePattern,
		&correctedTitle,
		&correctedSeason,
		&correctedEpisode,
		&mapping.Confidence,
		&mapping.UseCount,
		&mapping.CreatedAt,
		&lastUsedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find mapping: %w", err)
	}

	mapping.FansubGroup = fansubGroup.String
	mapping.TitlePattern = titlePattern.String
	mapping.CorrectedTitle = correctedTitle.String
	mapping.CorrectedSeason = correctedSeason.String
	mapping.CorrectedEpisode = correctedEpisode.String
	if lastUsedAt.Valid {
		mapping.LastUsedAt = &lastUsedAt.Time
	}

	return mapping, nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func scanMappings(rows *sql.Rows) ([]*learning.FilenameMapping, error) {
	var mappings []*learning.FilenameMapping

	for rows.Next() {
		mapping := &learning.FilenameMapping{}
		var fansubGroup, titlePattern, correctedTitle, correctedSeason, correctedEpisode sql.NullString
		var lastUsedAt sql.NullTime

		err := rows.Scan(
			&mapping.ID,
			&mapping.OriginalFilename,
			&fansubGroup,
			&titlePattern,
			&correctedTitle,
			&correctedSeason,
			&correctedEpisode,
			&mapping.Confidence,
			&mapping.UseCount,
			&mapping.CreatedAt,
			&lastUsedAt,
		)

		if err != nil {
			return nil, fmt.Errorf("failed to scan mapping: %w", err)
		}

		mapping.FansubGroup = fansubGroup.String
		mapping.TitlePattern = titlePattern.String
		mapping.CorrectedTitle = correctedTitle.String
		mapping.CorrectedSeason = correctedSeason.String
		mapping.CorrectedEpisode = correctedEpisode.String
		if lastUsedAt.Valid {
			mapping.LastUsedAt = &lastUsedAt.Time
		}

		mappings = append(mappings, mapping)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mappings: %w", err)
	}

	return mappings, nil
}
