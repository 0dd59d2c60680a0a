// Package learning stores and matches user-supplied corrections to the
// parser's output: when a caller submits a corrected title/season/episode
// for a filename the engine got wrong, that correction is remembered and
// reapplied to the same filename (or a close fuzzy variant, or other
// releases from the same fansub group and title) next time it is seen.
// It never consults an external media database: fuzzy matching there is
// a different concern from this local, user-taught override table.
package learning

import (
	"strings"
	"time"

	"github.com/fansubkit/metaparse/internal/parser"
	"github.com/google/uuid"
)

// FilenameMapping is a single learned correction.
type FilenameMapping struct {
	ID string `json:"id"`
	// OriginalFilename is the exact filename the correction was taught on.
	OriginalFilename string `json:"original_filename"`
	// FansubGroup and TitlePattern are the engine's own parse of
	// OriginalFilename, used to match other releases from the same group
	// with the same title even when the filename differs.
	FansubGroup  string `json:"fansub_group,omitempty"`
	TitlePattern string `json:"title_pattern,omitempty"`
	// CorrectedTitle/Season/Episode hold the corrected values; empty
	// means "the engine already had this field right, don't override it."
	CorrectedTitle   string `json:"corrected_title,omitempty"`
	CorrectedSeason  string `json:"corrected_season,omitempty"`
	CorrectedEpisode string `json:"corrected_episode,omitempty"`

	Confidence float64    `json:"confidence"`
	UseCount   int        `json:"use_count"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// ExtractedPattern is the engine-derived shape of a filename, used both
// to build a new FilenameMapping and to look one up.
type ExtractedPattern struct {
	OriginalFilename string
	FansubGroup      string
	TitlePattern     string
}

// PatternExtractor derives an ExtractedPattern from a filename using the
// parser package's own tokenizer instead of a second, parallel regex-based
// extraction layer.
type PatternExtractor struct {
	dict *parser.Dictionary
}

// NewPatternExtractor builds an extractor backed by dict.
func NewPatternExtractor(dict *parser.Dictionary) *PatternExtractor {
	return &PatternExtractor{dict: dict}
}

// Extract derives the fansub group and title the engine itself would
// assign to filename.
func (e *PatternExtractor) Extract(filename string) *ExtractedPattern {
	result := parser.ParseFilename(filename, e.dict)
	return &ExtractedPattern{
		OriginalFilename: filename,
		FansubGroup:      result.ReleaseGroup,
		TitlePattern:     strings.TrimSpace(result.Title),
	}
}

// ToFilenameMapping builds a new correction record from p, carrying
// whichever corrected fields the caller supplied.
func (p *ExtractedPattern) ToFilenameMapping(correctedTitle, correctedSeason, correctedEpisode string) *FilenameMapping {
	return &FilenameMapping{
		ID:               uuid.New().String(),
		OriginalFilename: p.OriginalFilename,
		FansubGroup:      p.FansubGroup,
		TitlePattern:     p.TitlePattern,
		CorrectedTitle:   correctedTitle,
		CorrectedSeason:  correctedSeason,
		CorrectedEpisode: correctedEpisode,
		Confidence:       1.0,
		UseCount:         0,
		CreatedAt:        time.Now(),
	}
}

// Apply overlays the correction onto result, leaving fields the
// correction left blank untouched.
func (m *FilenameMapping) Apply(result *parser.AnimeParseResult) {
	if m.CorrectedTitle != "" {
		result.Title = m.CorrectedTitle
	}
	if m.CorrectedSeason != "" {
		result.Season = m.CorrectedSeason
	}
	if m.CorrectedEpisode != "" {
		result.Episode = m.CorrectedEpisode
	}
}
