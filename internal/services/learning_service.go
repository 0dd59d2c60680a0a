package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fansubkit/metaparse/internal/learning"
	"github.com/fansubkit/metaparse/internal/parser"
)

// LearningServiceInterface defines the interface for the learning service
type LearningServiceInterface interface {
	LearnFromCorrection(ctx context.Context, req LearnFromCorrectionRequest) (*learning.FilenameMapping, error)
	FindMatchingPattern(ctx context.Context, filename string) (*learning.MatchResult, error)
	GetPatternStats(ctx context.Context) (*PatternStats, error)
	ListPatterns(ctx context.Context) ([]*learning.FilenameMapping, error)
	DeletePattern(ctx context.Context, id string) error
	ApplyPattern(ctx context.Context, id string) error
}

// LearnFromCorrectionRequest represents a user-supplied correction for a
// filename the engine already parsed.
type LearnFromCorrectionRequest struct {
	Filename         string `json:"filename"`
	CorrectedTitle   string `json:"correctedTitle"`
	CorrectedSeason  string `json:"correctedSeason,omitempty"`
	CorrectedEpisode string `json:"correctedEpisode,omitempty"`
}

// PatternStats contains statistics about learned patterns
type PatternStats struct {
	TotalPatterns   int    `json:"totalPatterns"`
	TotalApplied    int    `json:"totalApplied"`
	MostUsedPattern string `json:"mostUsedPattern,omitempty"`
	MostUsedCount   int    `json:"mostUsedCount,omitempty"`
}

// LearningService provides business logic for filename correction learning
type LearningService struct {
	repo      learning.Repository
	extractor *learning.PatternExtractor
	matcher   *learning.PatternMatcher
}

// NewLearningService creates a new LearningService backed by repo, deriving
// patterns with dict.
func NewLearningService(repo learning.Repository, dict *parser.Dictionary) *LearningService {
	extractor := learning.NewPatternExtractor(dict)
	return &LearningService{
		repo:      repo,
		extractor: extractor,
		matcher:   learning.NewPatternMatcher(repo, extractor, slog.Default()),
	}
}

// LearnFromCorrection learns a new pattern from a user's manual correction
func (s *LearningService) LearnFromCorrection(ctx context.Context, req LearnFromCorrectionRequest) (*learning.FilenameMapping, error) {
	if req.Filename == "" {
		return nil, fmt.Errorf("filename cannot be empty")
	}

	if req.CorrectedTitle == "" && req.CorrectedSeason == "" && req.CorrectedEpisode == "" {
		return nil, fmt.Errorf("at least one corrected field must be supplied")
	}

	slog.Info("Learning from correction",
		"filename", req.Filename,
		"correctedTitle", req.CorrectedTitle,
	)

	existing, err := s.repo.FindByExactFilename(ctx, req.Filename)
	if err != nil {
		slog.Warn("Error checking for existing mapping", "error", err)
	}
	if existing != nil {
		slog.Info("Correction already exists for this filename", "id", existing.ID)
		return existing, nil
	}

	extracted := s.extractor.Extract(req.Filename)
	mapping := extracted.ToFilenameMapping(req.CorrectedTitle, req.CorrectedSeason, req.CorrectedEpisode)

	if err := s.repo.Save(ctx, mapping); err != nil {
		slog.Error("Failed to save correction", "error", err)
		return nil, fmt.Errorf("failed to save correction: %w", err)
	}

	slog.Info("Correction learned successfully",
		"id", mapping.ID,
		"titlePattern", mapping.TitlePattern,
		"fansubGroup", mapping.FansubGroup,
	)

	return mapping, nil
}

// FindMatchingPattern finds a matching learned correction for a given filename
func (s *LearningService) FindMatchingPattern(ctx context.Context, filename string) (*learning.MatchResult, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename cannot be empty")
	}

	result, err := s.matcher.FindMatch(ctx, filename)
	if err != nil {
		slog.Error("Failed to find matching correction", "error", err, "filename", filename)
		return nil, fmt.Errorf("failed to find matching correction: %w", err)
	}

	if result != nil {
		slog.Info("Found matching correction",
			"id", result.Mapping.ID,
			"confidence", result.Confidence,
			"matchType", result.MatchType,
		)
	}

	return result, nil
}

// GetPatternStats returns statistics about learned corrections
func (s *LearningService) GetPatternStats(ctx context.Context) (*PatternStats, error) {
	mappings, err := s.repo.ListAll(ctx)
	if err != nil {
		slog.Error("Failed to list corrections for stats", "error", err)
		return nil, fmt.Errorf("failed to get pattern stats: %w", err)
	}

	stats := &PatternStats{
		TotalPatterns: len(mappings),
	}

	var mostUsed *learning.FilenameMapping
	for _, m := range mappings {
		stats.TotalApplied += m.UseCount
		if mostUsed == nil || m.UseCount > mostUsed.UseCount {
			mostUsed = m
		}
	}

	if mostUsed != nil && mostUsed.UseCount > 0 {
		stats.MostUsedPattern = mostUsed.TitlePattern
		stats.MostUsedCount = mostUsed.UseCount
	}

	return stats, nil
}

// ListPatterns returns all learned corrections
func (s *LearningService) ListPatterns(ctx context.Context) ([]*learning.FilenameMapping, error) {
	mappings, err := s.repo.ListAll(ctx)
	if err != nil {
		slog.Error("Failed to list corrections", "error", err)
		return nil, fmt.Errorf("failed to list corrections: %w", err)
	}

	return mappings, nil
}

// DeletePattern removes a learned correction
func (s *LearningService) DeletePattern(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("id cannot be empty")
	}

	slog.Info("Deleting correction", "id", id)

	if err := s.repo.Delete(ctx, id); err != nil {
		slog.Error("Failed to delete correction", "error", err, "id", id)
		return fmt.Errorf("failed to delete correction: %w", err)
	}

	return nil
}

// ApplyPattern marks a correction as used (increments use count)
func (s *LearningService) ApplyPattern(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("id cannot be empty")
	}

	slog.Info("Applying correction", "id", id)

	if err := s.repo.IncrementUseCount(ctx, id); err != nil {
		slog.Error("Failed to apply correction", "error", err, "id", id)
		return fmt.Errorf("failed to apply correction: %w", err)
	}

	return nil
}

// GetPatternByID retrieves a correction by its ID
func (s *LearningService) GetPatternByID(ctx context.Context, id string) (*learning.FilenameMapping, error) {
	if id == "" {
		return nil, fmt.Errorf("id cannot be empty")
	}

	mapping, err := s.repo.FindByID(ctx, id)
	if err != nil {
		slog.Error("Failed to get correction", "error", err, "id", id)
		return nil, fmt.Errorf("failed to get correction: %w", err)
	}

	return mapping, nil
}
