package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fansubkit/metaparse/internal/media"
	"github.com/fansubkit/metaparse/internal/models"
)

// MediaServiceInterface defines the contract for media directory operations.
// This interface enables testing handlers with mock services.
type MediaServiceInterface interface {
	// GetConfig returns the current media configuration
	GetConfig() *media.MediaConfig
	// GetConfiguredDirectories returns all configured directories
	GetConfiguredDirectories() []media.MediaDirectory
	// GetAccessibleDirectories returns only accessible directories
	GetAccessibleDirectories() []media.MediaDirectory
	// RefreshDirectoryStatus re-validates all directories and returns updated config
	RefreshDirectoryStatus() *media.MediaConfig
	// IsSearchOnlyMode returns true if no accessible directories are configured
	IsSearchOnlyMode() bool
	// ScanAndParseDirectory lists the video files directly inside one of the
	// configured accessible directories and parses each of them.
	ScanAndParseDirectory(ctx context.Context, path string) ([]*models.ParseResult, error)
}

// MediaService provides business logic for media directory operations.
// It caches the directory validation results and provides thread-safe access.
type MediaService struct {
	config *media.MediaConfig
	parser ParserServiceInterface
	mu     sync.RWMutex
}

// NewMediaService creates a new MediaService and loads the initial configuration.
// It validates all configured directories and logs their status. parser may
// be nil, in which case ScanAndParseDirectory always errors.
func NewMediaService(parser ParserServiceInterface) *MediaService {
	config := media.LoadMediaConfig()
	media.LogMediaConfigStatus(config)

	return &MediaService{
		config: config,
		parser: parser,
	}
}

// GetConfig returns the current media configuration with all directories and their status.
func (s *MediaService) GetConfig() *media.MediaConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// GetConfiguredDirectories returns all configured directories regardless of status.
func (s *MediaService) GetConfiguredDirectories() []media.MediaDirectory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Directories
}

// GetAccessibleDirectories returns only the directories that are accessible.
func (s *MediaService) GetAccessibleDirectories() []media.MediaDirectory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.GetAccessibleDirectories()
}

// RefreshDirectoryStatus re-validates all configured directories.
// This is useful when directories may have been mounted/unmounted at runtime.
func (s *MediaService) RefreshDirectoryStatus() *media.MediaConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	slog.Info("Refreshing media directory status")
	s.config = media.LoadMediaConfig()
	media.LogMediaConfigStatus(s.config)

	return s.config
}

// IsSearchOnlyMode returns true if no accessible directories are configured.
// In this mode, the application operates in search-only mode without library features.
func (s *MediaService) IsSearchOnlyMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.SearchOnlyMode
}

// ScanAndParseDirectory lists the video files directly inside path and
// parses each one. path must match one of the configured accessible
// directories, so a caller cannot point this at an arbitrary filesystem
// location.
func (s *MediaService) ScanAndParseDirectory(ctx context.Context, path string) ([]*models.ParseResult, error) {
	if s.parser == nil {
		return nil, fmt.Errorf("media service has no parser configured")
	}

	if !s.isConfiguredAccessibleDirectory(path) {
		return nil, fmt.Errorf("%q is not a configured, accessible media directory", path)
	}

	names, err := media.ScanVideoFiles(path)
	if err != nil {
		return nil, fmt.Errorf("scan directory: %w", err)
	}

	results := make([]*models.ParseResult, 0, len(names))
	for _, name := range names {
		results = append(results, s.parser.ParseFilename(ctx, filepath.Base(name)))
	}
	return results, nil
}

func (s *MediaService) isConfiguredAccessibleDirectory(path string) bool {
	for _, dir := range s.GetAccessibleDirectories() {
		if dir.Path == path {
			return true
		}
	}
	return false
}
