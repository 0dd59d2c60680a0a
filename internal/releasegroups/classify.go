package releasegroups

import (
	"errors"
	"strings"

	"github.com/fansubkit/metaparse/internal/retry"
)

// ClassifyFeedError turns an error from Client.GetBody or Harvester.Refresh
// into a retry.RetryableError so the retry queue can decide whether a feed
// fetch is worth queuing again instead of parsing every caller's error
// string itself.
func ClassifyFeedError(err error) *retry.RetryableError {
	if err == nil {
		return nil
	}

	var blocked *BlockedError
	if errors.As(err, &blocked) {
		switch blocked.StatusCode {
		case 429:
			return retry.NewRetryableError("RELEASE_GROUP_FEED_RATE_LIMITED", blocked.Error(), true, blocked.StatusCode)
		case 503:
			return retry.NewRetryableError("RELEASE_GROUP_FEED_UNAVAILABLE", blocked.Error(), true, blocked.StatusCode)
		case 403:
			return retry.NewRetryableError("RELEASE_GROUP_FEED_FORBIDDEN", blocked.Error(), false, blocked.StatusCode)
		default:
			return retry.NewRetryableError("RELEASE_GROUP_FEED_BLOCKED", blocked.Error(), true, blocked.StatusCode)
		}
	}

	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return retry.NewRetryableError("RELEASE_GROUP_FEED_PARSE_ERROR", parseErr.Error(), false, 0)
	}

	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"timeout",
		"i/o timeout",
		"context deadline exceeded",
		"connection refused",
		"connection reset",
		"no such host",
		"rate limiter",
	}
	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return retry.NewRetryableError("RELEASE_GROUP_FEED_TRANSIENT", err.Error(), true, 0)
		}
	}

	return retry.NewRetryableError("RELEASE_GROUP_FEED_ERROR", err.Error(), false, 0)
}

// IsRetryableFeedError reports whether a Client.GetBody or Harvester.Refresh
// error is worth another retry attempt.
func IsRetryableFeedError(err error) bool {
	classified := ClassifyFeedError(err)
	return classified != nil && classified.IsRetryable()
}
