package services

import (
	"context"
	"log/slog"

	"github.com/fansubkit/metaparse/internal/fansub"
	"github.com/fansubkit/metaparse/internal/learning"
	"github.com/fansubkit/metaparse/internal/models"
	"github.com/fansubkit/metaparse/internal/parser"
)

// matchConfidenceThreshold is the minimum confidence a learned correction
// needs before ParserService will overlay it onto the engine's own parse.
const matchConfidenceThreshold = 0.8

// ParserServiceInterface defines the contract for filename parsing.
type ParserServiceInterface interface {
	ParseFilename(ctx context.Context, filename string) *models.ParseResult
	ParseBatch(ctx context.Context, filenames []string) []*models.ParseResult
	// ParseFilenameWithProgress runs the same pipeline as ParseFilename,
	// calling onStep (if non-nil) with the name of each of
	// models.StandardParseSteps as that stage actually completes.
	ParseFilenameWithProgress(ctx context.Context, filename string, onStep func(step string)) *models.ParseResult
}

// ParserService tokenizes filenames with the parser engine, detects
// fansub releases, and overlays any learned correction on top of the
// engine's own extraction. There is no external metadata lookup or AI
// fallback in this pipeline: every field either comes straight from the
// tokenizer or from a stored correction.
type ParserService struct {
	dict    *parser.Dictionary
	matcher *learning.PatternMatcher
	logger  *slog.Logger
}

// NewParserService creates a ParserService. matcher may be nil, in which
// case parsing runs with no learned-correction lookup.
func NewParserService(dict *parser.Dictionary, matcher *learning.PatternMatcher) *ParserService {
	return &ParserService{
		dict:    dict,
		matcher: matcher,
		logger:  slog.Default(),
	}
}

var _ ParserServiceInterface = (*ParserService)(nil)

// ParseFilename tokenizes filename, detects whether it is a fansub
// release, and applies the best learned correction, if any meets
// matchConfidenceThreshold.
func (s *ParserService) ParseFilename(ctx context.Context, filename string) *models.ParseResult {
	return s.ParseFilenameWithProgress(ctx, filename, nil)
}

// ParseFilenameWithProgress runs the same pipeline as ParseFilename, but
// calls onStep after each real pipeline stage finishes, in the order
// models.StandardParseSteps lists them. onStep may be nil.
func (s *ParserService) ParseFilenameWithProgress(ctx context.Context, filename string, onStep func(step string)) *models.ParseResult {
	notify := func(step string) {
		if onStep != nil {
			onStep(step)
		}
	}

	parsed := parser.ParseFilename(filename, s.dict)
	notify(models.StepFilenameExtract)

	releaseGroup := parsed.ReleaseGroup
	if releaseGroup == "" {
		if detection := fansub.Detect(filename, s.dict); detection.IsFansub && detection.GroupName != "" {
			releaseGroup = detection.GroupName
		}
	}
	notify(models.StepFansubDetect)

	source := models.MetadataSourceEngine
	confidence := baseConfidence(&parsed)

	var match *learning.MatchResult
	var err error
	if s.matcher != nil {
		match, err = s.matcher.FindMatch(ctx, filename)
		if err != nil {
			s.logger.Warn("learned correction lookup failed", "error", err, "filename", filename)
		}
	}
	notify(models.StepLearnedLookup)

	if match != nil && match.Confidence >= matchConfidenceThreshold {
		match.Mapping.Apply(&parsed)
		if match.Mapping.FansubGroup != "" {
			releaseGroup = match.Mapping.FansubGroup
		}
		source = models.MetadataSourceLearned
		confidence = match.Confidence
	}
	notify(models.StepReleaseGroupMatch)

	result := &models.ParseResult{
		Title:          parsed.Title,
		Season:         parsed.Season,
		Episode:        parsed.Episode,
		ReleaseGroup:   releaseGroup,
		MetadataSource: source,
		Confidence:     confidence,
	}
	notify(models.StepConfidenceScore)

	return result
}

// ParseBatch parses every filename in filenames independently, in order.
func (s *ParserService) ParseBatch(ctx context.Context, filenames []string) []*models.ParseResult {
	results := make([]*models.ParseResult, 0, len(filenames))
	for _, filename := range filenames {
		results = append(results, s.ParseFilename(ctx, filename))
	}
	return results
}

// baseConfidence scores the engine's own extraction before any learned
// correction is considered: a title plus an episode number is the
// minimum bar for a usable result, each further resolved field adds to it.
func baseConfidence(result *parser.AnimeParseResult) float64 {
	if result.Title == "" {
		return 0.3
	}

	score := 0.5
	if result.Episode != "" || result.Volume != "" {
		score += 0.2
	}
	if result.ReleaseGroup != "" {
		score += 0.1
	}
	if result.VideoResolution != "" {
		score += 0.1
	}
	if result.Source != "" {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
