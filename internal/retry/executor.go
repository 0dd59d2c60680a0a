package retry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// RetryRunner performs the actual work behind a queued retry task. Callers
// supply one implementation per task type this queue carries: re-parsing a
// filename, or re-fetching the release-group feed.
type RetryRunner interface {
	// ReparseFilename retries a filename parse.
	ReparseFilename(ctx context.Context, filename string) error
	// RefreshReleaseGroupFeed retries a release-group feed fetch.
	RefreshReleaseGroupFeed(ctx context.Context, feedURL string) error
}

// RetryExecutor implements TaskExecutor for retry operations
type RetryExecutor struct {
	runner RetryRunner
	logger *slog.Logger
}

// NewRetryExecutor creates a new RetryExecutor instance
func NewRetryExecutor(runner RetryRunner, logger *slog.Logger) *RetryExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetryExecutor{
		runner: runner,
		logger: logger,
	}
}

// Execute implements TaskExecutor interface
// It executes the retry task based on its type
func (e *RetryExecutor) Execute(ctx context.Context, item *RetryItem) error {
	if item == nil {
		return fmt.Errorf("retry item is nil")
	}

	e.logger.Info("Executing retry task",
		"id", item.ID,
		"task_id", item.TaskID,
		"task_type", item.TaskType,
		"attempt", item.AttemptCount,
	)

	switch item.TaskType {
	case TaskTypeParse:
		return e.executeParse(ctx, item)
	case TaskTypeMetadataFetch:
		return e.executeFeedRefresh(ctx, item)
	default:
		return fmt.Errorf("unknown task type: %s", item.TaskType)
	}
}

// executeParse handles retry for parse tasks
func (e *RetryExecutor) executeParse(ctx context.Context, item *RetryItem) error {
	if e.runner == nil {
		return fmt.Errorf("retry runner not configured")
	}

	payload, err := ParsePayload(item.Payload)
	if err != nil {
		return err
	}
	if payload.Filename == "" {
		return fmt.Errorf("retry payload missing filename")
	}

	return e.runner.ReparseFilename(ctx, payload.Filename)
}

// executeFeedRefresh handles retry for release-group feed fetch tasks
func (e *RetryExecutor) executeFeedRefresh(ctx context.Context, item *RetryItem) error {
	if e.runner == nil {
		return fmt.Errorf("retry runner not configured")
	}

	payload, err := ParsePayload(item.Payload)
	if err != nil {
		return err
	}
	if payload.FeedURL == "" {
		return fmt.Errorf("retry payload missing feed url")
	}

	return e.runner.RefreshReleaseGroupFeed(ctx, payload.FeedURL)
}

// Compile-time interface verification
var _ TaskExecutor = (*RetryExecutor)(nil)

// RetryPayload represents the payload structure for retry tasks. TaskTypeParse
// uses Filename; TaskTypeMetadataFetch uses FeedURL.
type RetryPayload struct {
	Filename string `json:"filename,omitempty"`
	FeedURL  string `json:"feedUrl,omitempty"`
}

// ParsePayload parses the JSON payload into RetryPayload
func ParsePayload(data json.RawMessage) (*RetryPayload, error) {
	var payload RetryPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse payload: %w", err)
	}
	return &payload, nil
}
