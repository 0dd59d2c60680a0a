package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/fansubkit/metaparse/internal/learning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupLearningTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)

	_, err = db.Exec(`
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
	`)
	require.NoError(t, err)

	return db
}

func TestLearningRepository_Save(t *testing.T) {
	db := setupLearningTestDB(t)
	defer db.Close()

	repo := NewLearningRepository(db)
	ctx := context.Background()

	mapping := &learning.FilenameMapping{
		ID:               "test-1",
		OriginalFilename: "[Leopard-Raws] Kimetsu no Yaiba - 26 (BD 1920x1080 x264 FLAC).mkv",
		FansubGroup:      "Leopard-Raws",
		TitlePattern:     "Kimetsu no Yaiba",
		CorrectedTitle:   "Demon Slayer",
		CorrectedSeason:  "1",
		CorrectedEpisode: "26",
		Confidence:       1.0,
		UseCount:         0,
		CreatedAt:        time.Now(),
	}

	err := repo.Save(ctx, mapping)
	require.NoError(t, err)

	saved, err := repo.FindByID(ctx, "test-1")
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.Equal(t, mapping.OriginalFilename, saved.OriginalFilename)
	assert.Equal(t, mapping.FansubGroup, saved.FansubGroup)
	assert.Equal(t, mapping.TitlePattern, saved.TitlePattern)
	assert.Equal(t, mapping.CorrectedTitle, saved.CorrectedTitle)
	assert.Equal(t, mapping.CorrectedSeason, saved.CorrectedSeason)
	assert.Equal(t, mapping.CorrectedEpisode, saved.CorrectedEpisode)
}

func TestLearningRepository_FindByID(t *testing.T) {
	db := setupLearningTestDB(t)
	defer db.Close()

	repo := NewLearningRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`
		INSERT INTO filename_mappings (id, original_filename, corrected_title)
		VALUES ('find-test', 'Test Pattern.mkv', 'Test Title')
	`)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, "find-test")
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.Equal(t, "find-test", found.ID)
	assert.Equal(t, "Test Pattern.mkv", found.OriginalFilename)

	notFound, err := repo.FindByID(ctx, "non-existent")
	require.NoError(t, err)
	assert.Nil(t, notFound)
}

func TestLearningRepository_FindByExactFilename(t *testing.T) {
	db := setupLearningTestDB(t)
	defer db.Close()

	repo := NewLearningRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`
		INSERT INTO filename_mappings (id, original_filename, title_pattern)
		VALUES ('exact-test', '[Group] Anime Title - 01.mkv', 'Anime Title')
	`)
	require.NoError(t, err)

	found, err := repo.FindByExactFilename(ctx, "[Group] Anime Title - 01.mkv")
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.Equal(t, "exact-test", found.ID)

	notFound, err := repo.FindByExactFilename(ctx, "Different Filename.mkv")
	require.NoError(t, err)
	assert.Nil(t, notFound)
}

func TestLearningRepository_FindByFansubAndTitle(t *testing.T) {
	db := setupLearningTestDB(t)
	defer db.Close()

	repo := NewLearningRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`
		INSERT INTO filename_mappings (id, original_filename, fansub_group, title_pattern)
		VALUES
			('fansub-1', '[SubsPlease] Frieren - 01.mkv', 'SubsPlease', 'Frieren'),
			('fansub-2', '[SubsPlease] Other - 01.mkv', 'SubsPlease', 'Other'),
			('fansub-3', '[OtherGroup] Frieren - 01.mkv', 'OtherGroup', 'Frieren')
	`)
	require.NoError(t, err)

	results, err := repo.FindByFansubAndTitle(ctx, "SubsPlease", "Frieren")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "fansub-1", results[0].ID)

	noResults, err := repo.FindByFansubAndTitle(ctx, "NonExistent", "Frieren")
	require.NoError(t, err)
	assert.Len(t, noResults, 0)
}

func TestLearningRepository_ListAll(t *testing.T) {
	db := setupLearningTestDB(t)
	defer db.Close()

	repo := NewLearningRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`
		INSERT INTO filename_mappings (id, original_filename)
		VALUES
			('all-1', 'Pattern 1.mkv'),
			('all-2', 'Pattern 2.mkv'),
			('all-3', 'Pattern 3.mkv')
	`)
	require.NoError(t, err)

	results, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, results, 3)
}

func TestLearningRepository_Delete(t *testing.T) {
	db := setupLearningTestDB(t)
	defer db.Close()

	repo := NewLearningRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`
		INSERT INTO filename_mappings (id, original_filename)
		VALUES ('delete-test', 'To Delete.mkv')
	`)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, "delete-test")
	require.NoError(t, err)
	require.NotNil(t, found)

	err = repo.Delete(ctx, "delete-test")
	require.NoError(t, err)

	notFound, err := repo.FindByID(ctx, "delete-test")
	require.NoError(t, err)
	assert.Nil(t, notFound)
}

func TestLearningRepository_IncrementUseCount(t *testing.T) {
	db := setupLearningTestDB(t)
	defer db.Close()

	repo := NewLearningRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`
		INSERT INTO filename_mappings (id, original_filename, use_count)
		VALUES ('count-test', 'Count Pattern.mkv', 5)
	`)
	require.NoError(t, err)

	err = repo.IncrementUseCount(ctx, "count-test")
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, "count-test")
	require.NoError(t, err)
	require.NotNil(t, found)

	assert.Equal(t, 6, found.UseCount)
	assert.NotNil(t, found.LastUsedAt)
}

func TestLearningRepository_Count(t *testing.T) {
	db := setupLearningTestDB(t)
	defer db.Close()

	repo := NewLearningRepository(db)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, err = db.Exec(`
		INSERT INTO filename_mappings (id, original_filename)
		VALUES
			('count-1', 'Pattern 1.mkv'),
			('count-2', 'Pattern 2.mkv')
	`)
	require.NoError(t, err)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestLearningRepository_Update(t *testing.T) {
	db := setupLearningTestDB(t)
	defer db.Close()

	repo := NewLearningRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`
		INSERT INTO filename_mappings (id, original_filename, confidence)
		VALUES ('update-test', 'Original Pattern.mkv', 0.5)
	`)
	require.NoError(t, err)

	mapping, err := repo.FindByID(ctx, "update-test")
	require.NoError(t, err)
	require.NotNil(t, mapping)

	mapping.Confidence = 0.9
	mapping.TitlePattern = "Updated Title"

	err = repo.Update(ctx, mapping)
	require.NoError(t, err)

	updated, err := repo.FindByID(ctx, "update-test")
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, 0.9, updated.Confidence)
	assert.Equal(t, "Updated Title", updated.TitlePattern)
}
