// Package releasegroups harvests fansub/release group names from an HTML
// index page and upserts them into the parser package's keyword
// dictionary as CatReleaseGroup entries. It keeps the client/scraper/
// converter split (rate limiting, backoff, User-Agent rotation, CJK
// normalization); robots.txt is not consulted. It targets "harvest a
// release-group name list" instead of metadata lookup, so there is no
// media-database matching involved.
package releasegroups

import "time"

// Entry is one harvested release group.
type Entry struct {
	// Name is the group's literal tag as it appears in filenames (e.g.
	// "Commie", "喵萌奶茶屋").
	Name string
	// NameTraditional is Name converted to Traditional Chinese when Name
	// is Simplified Chinese; equal to Name otherwise.
	NameTraditional string
	// SourceURL is the page the entry was harvested from.
	SourceURL string
}

// ClientConfig configures the feed HTTP client.
type ClientConfig struct {
	// RequestsPerSecond caps outbound request rate.
	RequestsPerSecond float64
	// Timeout is the HTTP request timeout.
	Timeout time.Duration
	// MaxRetries is the maximum number of retry attempts per request.
	MaxRetries int
	// InitialBackoff is the first retry delay.
	InitialBackoff time.Duration
	// MaxBackoff caps exponential backoff growth.
	MaxBackoff time.Duration
	// BackoffMultiplier scales backoff on each retry.
	BackoffMultiplier float64
	// Enabled controls whether the client will perform requests at all.
	Enabled bool
}

// DefaultConfig returns conservative, polite defaults: one request every
// two seconds, five retries with exponential backoff.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		RequestsPerSecond: 0.5,
		Timeout:           30 * time.Second,
		MaxRetries:        5,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        16 * time.Second,
		BackoffMultiplier: 2.0,
		Enabled:           true,
	}
}

// BlockedError indicates a feed request was refused by the remote site
// (403, 429 or 503), answered with a non-HTML page, or not sent because
// the client is disabled.
type BlockedError struct {
	StatusCode int
	Reason     string
}

func (e *BlockedError) Error() string {
	return "releasegroups: blocked - " + e.Reason
}

// ParseError indicates the fetched page did not have the expected shape.
type ParseError struct {
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	return "releasegroups: parse error for " + e.Field + " - " + e.Reason
}
