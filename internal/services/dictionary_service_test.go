package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/fansubkit/metaparse/internal/parser"
	"github.com/fansubkit/metaparse/internal/releasegroups"
)

func newTestDictionaryService(feedURL string) *DictionaryService {
	dict := parser.NewDictionary()
	client := releasegroups.NewClient(releasegroups.DefaultConfig(), nil)
	harvester := releasegroups.NewHarvester(client, nil)
	return NewDictionaryService(dict, harvester, feedURL)
}

func TestDictionaryService_GetStats(t *testing.T) {
	service := newTestDictionaryService("")

	stats := service.GetStats()

	require.NotNil(t, stats)
	assert.Greater(t, stats.TotalEntries, 0)
	assert.NotEmpty(t, stats.CategoryCounts)
	assert.Equal(t, len(stats.ReleaseGroups), stats.ReleaseGroupLen)
}

func TestDictionaryService_RefreshReleaseGroups_NoFeedURL(t *testing.T) {
	service := newTestDictionaryService("")

	result, err := service.RefreshReleaseGroups(context.Background())

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "no release-group feed url configured")
}
