package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fansubkit/metaparse/internal/parser"
	"github.com/fansubkit/metaparse/internal/releasegroups"
)

// DictionaryStats summarizes the current state of the keyword dictionary.
type DictionaryStats struct {
	TotalEntries    int            `json:"totalEntries"`
	CategoryCounts  map[string]int `json:"categoryCounts"`
	ReleaseGroups   []string       `json:"releaseGroups"`
	ReleaseGroupLen int            `json:"releaseGroupCount"`
}

// ReleaseGroupRefreshResult reports the outcome of an on-demand feed harvest.
type ReleaseGroupRefreshResult struct {
	FeedURL      string `json:"feedUrl"`
	HarvestCount int    `json:"harvestCount"`
}

// DictionaryServiceInterface defines the contract for dictionary
// introspection and release-group refresh operations.
type DictionaryServiceInterface interface {
	GetStats() *DictionaryStats
	RefreshReleaseGroups(ctx context.Context) (*ReleaseGroupRefreshResult, error)
}

// DictionaryService exposes read access to the keyword dictionary and
// drives on-demand release-group feed harvests into it.
type DictionaryService struct {
	dict      *parser.Dictionary
	harvester *releasegroups.Harvester
	feedURL   string
	logger    *slog.Logger
}

// NewDictionaryService creates a new DictionaryService. feedURL may be
// empty, in which case RefreshReleaseGroups always fails fast.
func NewDictionaryService(dict *parser.Dictionary, harvester *releasegroups.Harvester, feedURL string) *DictionaryService {
	return &DictionaryService{
		dict:      dict,
		harvester: harvester,
		feedURL:   feedURL,
		logger:    slog.Default(),
	}
}

// GetStats returns a snapshot of the dictionary's current contents.
func (s *DictionaryService) GetStats() *DictionaryStats {
	groups := s.dict.ReleaseGroups()
	return &DictionaryStats{
		TotalEntries:    s.dict.Len(),
		CategoryCounts:  s.dict.CategoryCounts(),
		ReleaseGroups:   groups,
		ReleaseGroupLen: len(groups),
	}
}

// RefreshReleaseGroups triggers an immediate harvest of the configured
// release-group feed, upserting any new names into the dictionary.
func (s *DictionaryService) RefreshReleaseGroups(ctx context.Context) (*ReleaseGroupRefreshResult, error) {
	if s.feedURL == "" {
		return nil, fmt.Errorf("no release-group feed url configured")
	}

	entries, err := s.harvester.Refresh(ctx, s.feedURL, s.dict)
	if err != nil {
		return nil, fmt.Errorf("release-group feed refresh failed: %w", err)
	}

	s.logger.Info("Release-group feed refreshed on demand",
		"feed_url", s.feedURL,
		"harvested", len(entries),
	)

	return &ReleaseGroupRefreshResult{
		FeedURL:      s.feedURL,
		HarvestCount: len(entries),
	}, nil
}

var _ DictionaryServiceInterface = (*DictionaryService)(nil)
