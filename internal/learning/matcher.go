package learning

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Repository is the storage interface a PatternMatcher needs.
type Repository interface {
	Save(ctx context.Context, mapping *FilenameMapping) error
	FindByID(ctx context.Context, id string) (*FilenameMapping, error)
	FindByExactFilename(ctx context.Context, filename string) (*FilenameMapping, error)
	FindByFansubAndTitle(ctx context.Context, fansubGroup, titlePattern string) ([]*FilenameMapping, error)
	ListAll(ctx context.Context) ([]*FilenameMapping, error)
	Delete(ctx context.Context, id string) error
	IncrementUseCount(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// MatchResult is a matched correction with the confidence and the
// strategy that found it.
type MatchResult struct {
	Mapping    *FilenameMapping
	Confidence float64
	MatchType  string // "exact", "fansub_title", "fuzzy"
}

func (r *MatchResult) String() string {
	if r == nil || r.Mapping == nil {
		return "no match"
	}
	return fmt.Sprintf("Match[%s]: %s (confidence: %.2f, type: %s)",
		r.Mapping.ID, r.Mapping.TitlePattern, r.Confidence, r.MatchType)
}

// PatternMatcher finds a learned correction for a new filename.
type PatternMatcher struct {
	repo      Repository
	extractor *PatternExtractor
	logger    *slog.Logger
}

// NewPatternMatcher builds a PatternMatcher.
func NewPatternMatcher(repo Repository, extractor *PatternExtractor, logger *slog.Logger) *PatternMatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &PatternMatcher{repo: repo, extractor: extractor, logger: logger}
}

// FindMatch tries, in order of confidence: an exact filename match, a
// same-fansub-group-and-title match, then a fuzzy title match against
// every stored correction.
func (m *PatternMatcher) FindMatch(ctx context.Context, filename string) (*MatchResult, error) {
	if mapping, err := m.repo.FindByExactFilename(ctx, filename); err == nil && mapping != nil {
		return &MatchResult{Mapping: mapping, Confidence: 1.0, MatchType: "exact"}, nil
	}

	extracted := m.extractor.Extract(filename)

	if extracted.FansubGroup != "" && extracted.TitlePattern != "" {
		mappings, err := m.repo.FindByFansubAndTitle(ctx, extracted.FansubGroup, extracted.TitlePattern)
		if err == nil && len(mappings) > 0 {
			return &MatchResult{Mapping: mappings[0], Confidence: 0.95, MatchType: "fansub_title"}, nil
		}
	}

	if extracted.TitlePattern == "" {
		return nil, nil
	}

	all, err := m.repo.ListAll(ctx)
	if err != nil {
		return nil, nil
	}

	var best *FilenameMapping
	var bestSimilarity float64
	for _, candidate := range all {
		if candidate.TitlePattern == "" {
			continue
		}
		similarity := fuzzyMatch(extracted.TitlePattern, candidate.TitlePattern)
		if similarity > 0.8 && similarity > bestSimilarity {
			best = candidate
			bestSimilarity = similarity
		}
	}
	if best == nil {
		return nil, nil
	}
	return &MatchResult{Mapping: best, Confidence: bestSimilarity, MatchType: "fuzzy"}, nil
}

// fuzzyMatch returns a 0.0-1.0 similarity score derived from the
// Levenshtein edit distance between s1 and s2, normalized by the longer
// string's length.
func fuzzyMatch(s1, s2 string) float64 {
	s1Lower := strings.ToLower(s1)
	s2Lower := strings.ToLower(s2)
	if s1Lower == s2Lower {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(s1Lower, s2Lower)

	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}
	if maxLen == 0 {
		return 1.0
	}

	similarity := 1.0 - float64(distance)/float64(maxLen)
	if similarity < 0 {
		similarity = 0
	}
	return similarity
}
