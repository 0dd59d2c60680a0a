package releasegroups

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// Client fetches a release-group index page politely: rate limited,
// retried with exponential backoff, and rotating User-Agent.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	config      ClientConfig
	logger      *slog.Logger

	uaIndex int
	uaMu    sync.Mutex

	enabled   bool
	enabledMu sync.RWMutex
}

// NewClient builds a Client. A zero ClientConfig is replaced by
// DefaultConfig; otherwise zero-valued numeric fields are filled from
// DefaultConfig and Enabled is used as given.
func NewClient(config ClientConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if config == (ClientConfig{}) {
		config = def
	}
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = def.RequestsPerSecond
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = def.MaxRetries
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = def.InitialBackoff
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = def.MaxBackoff
	}
	if config.BackoffMultiplier <= 0 {
		config.BackoffMultiplier = def.BackoffMultiplier
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		rateLimiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		config:      config,
		logger:      logger,
		enabled:     config.Enabled,
	}
}

func (c *Client) nextUserAgent() string {
	c.uaMu.Lock()
	defer c.uaMu.Unlock()
	ua := defaultUserAgents[c.uaIndex]
	c.uaIndex = (c.uaIndex + 1) % len(defaultUserAgents)
	return ua
}

// IsEnabled reports whether the client will perform requests.
func (c *Client) IsEnabled() bool {
	c.enabledMu.RLock()
	defer c.enabledMu.RUnlock()
	return c.enabled
}

// SetEnabled toggles whether the client performs requests.
func (c *Client) SetEnabled(enabled bool) {
	c.enabledMu.Lock()
	defer c.enabledMu.Unlock()
	c.enabled = enabled
}

// GetBody fetches urlStr and returns the response body as a string,
// retrying with exponential backoff on transient failures or
// anti-scraping responses (403/429/503).
func (c *Client) GetBody(ctx context.Context, urlStr string) (string, error) {
	if !c.IsEnabled() {
		return "", &BlockedError{Reason: "client is disabled"}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "zh-TW,zh;q=0.9,ja;q=0.8,en;q=0.7")

	var lastErr error
	backoff := c.config.InitialBackoff

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			sleep := backoff + time.Duration(rand.Int63n(int64(200*time.Millisecond)))
			c.logger.Info("retrying release-group feed fetch", "attempt", attempt, "backoff", sleep, "url", urlStr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(sleep):
			}
			backoff = time.Duration(float64(backoff) * c.config.BackoffMultiplier)
			if backoff > c.config.MaxBackoff {
				backoff = c.config.MaxBackoff
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
		req.Header.Set("User-Agent", c.nextUserAgent())

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			c.logger.Warn("release-group feed request failed", "attempt", attempt, "error", err)
			continue
		}

		if blocked, blockErr := isBlocked(resp); blocked {
			resp.Body.Close()
			lastErr = blockErr
			c.logger.Warn("release-group feed request blocked", "attempt", attempt, "status", resp.StatusCode)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read body: %w", err)
			continue
		}
		return string(body), nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("all %d retries failed: %w", c.config.MaxRetries, lastErr)
	}
	return "", fmt.Errorf("all %d retries failed", c.config.MaxRetries)
}

func isBlocked(resp *http.Response) (bool, *BlockedError) {
	switch resp.StatusCode {
	case http.StatusForbidden:
		return true, &BlockedError{StatusCode: resp.StatusCode, Reason: "forbidden (403)"}
	case http.StatusTooManyRequests:
		return true, &BlockedError{StatusCode: resp.StatusCode, Reason: "rate limited (429)"}
	case http.StatusServiceUnavailable:
		return true, &BlockedError{StatusCode: resp.StatusCode, Reason: "service unavailable (503)"}
	}
	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode == http.StatusOK && !strings.Contains(contentType, "text/html") {
		return true, &BlockedError{StatusCode: resp.StatusCode, Reason: "unexpected content type: " + contentType}
	}
	return false, nil
}

// FeedURL is a small helper for callers constructing an index URL from a
// base and page query parameter.
func FeedURL(base string, page int) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	if page > 1 {
		q.Set("page", fmt.Sprintf("%d", page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
