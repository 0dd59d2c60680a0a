package releasegroups

import (
	"context"
	"log/slog"

	"github.com/fansubkit/metaparse/internal/parser"
)

// Harvester fetches a release-group feed and upserts every entry found
// into a keyword dictionary.
type Harvester struct {
	scraper *Scraper
	logger  *slog.Logger
}

// NewHarvester builds a Harvester around a Client configured by the
// caller (so config/rate limits come from one place).
func NewHarvester(client *Client, logger *slog.Logger) *Harvester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Harvester{
		scraper: NewScraper(client, logger),
		logger:  logger,
	}
}

// Refresh scrapes feedURL and adds every harvested group name (the
// Traditional Chinese form when one was derived) to dict. It returns the
// entries it found, even on a partial success the caller can still act
// on. Errors from the feed fetch are propagated unchanged so the caller
// can route them through retry policy.
func (h *Harvester) Refresh(ctx context.Context, feedURL string, dict *parser.Dictionary) ([]Entry, error) {
	entries, err := h.scraper.ScrapeIndex(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		name := e.Name
		if e.NameTraditional != "" {
			name = e.NameTraditional
		}
		dict.AddReleaseGroup(name)
	}

	h.logger.Info("upserted release groups into dictionary", "count", len(entries), "feed", feedURL)
	return entries, nil
}
