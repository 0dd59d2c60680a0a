package releasegroups

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Scraper turns a fetched release-group index page into a list of
// Entry values. The expected page shape is a list of anchors or list
// items each carrying a "data-group" attribute or a ".group-name" class
// on the element holding the literal tag text; both are tried so the
// scraper tolerates either markup.
type Scraper struct {
	client    *Client
	converter *chineseConverter
	logger    *slog.Logger
}

// NewScraper builds a Scraper around an already-configured Client.
func NewScraper(client *Client, logger *slog.Logger) *Scraper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{
		client:    client,
		converter: newChineseConverter(logger),
		logger:    logger,
	}
}

// ScrapeIndex fetches feedURL and extracts every release-group entry it
// can find.
func (s *Scraper) ScrapeIndex(ctx context.Context, feedURL string) ([]Entry, error) {
	body, err := s.client.GetBody(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch release-group feed: %w", err)
	}

	entries, err := s.parseIndexPage(feedURL, body)
	if err != nil {
		return nil, err
	}

	s.logger.Info("scraped release-group feed", "url", feedURL, "count", len(entries))
	return entries, nil
}

func (s *Scraper) parseIndexPage(sourceURL, html string) ([]Entry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ParseError{Field: "document", Reason: "failed to parse HTML: " + err.Error()}
	}

	seen := make(map[string]bool)
	var entries []Entry

	sel := doc.Find("[data-group], .group-name, .fansub-group a")
	sel.Each(func(_ int, item *goquery.Selection) {
		name := strings.TrimSpace(item.AttrOr("data-group", item.Text()))
		if name == "" || seen[strings.ToLower(name)] {
			return
		}
		seen[strings.ToLower(name)] = true
		entries = append(entries, Entry{
			Name:            name,
			NameTraditional: s.converter.convertIfSimplified(name),
			SourceURL:       sourceURL,
		})
	})

	if len(entries) == 0 {
		return nil, &ParseError{Field: "group list", Reason: "no [data-group]/.group-name/.fansub-group elements found"}
	}
	return entries, nil
}
