// Package fansub detects whether a filename follows fan-subtitle release
// conventions and pulls out the bracket-enclosed group tag. It is built
// directly on the parser package's token stream (bracket atoms, the
// enclosed flag, shapes) instead of the regexes the same heuristic used
// to rely on.
package fansub

import (
	"strings"
	"unicode"

	"github.com/fansubkit/metaparse/internal/parser"
)

// BracketType identifies which bracket convention opened a filename.
type BracketType string

const (
	// BracketSquare is the standard ASCII [GroupName] convention.
	BracketSquare BracketType = "square"
	// BracketFullwidth is the CJK【字幕組】convention.
	BracketFullwidth BracketType = "fullwidth"
	// BracketCorner is the less common「字幕組」convention.
	BracketCorner BracketType = "corner"
	// BracketNone means no recognized bracket opened the filename.
	BracketNone BracketType = "none"
)

// knownGroups supplements the core dictionary's CatReleaseGroup entries,
// which only seed a handful of names by design (see keyword.go). A group
// tag matching this list counts as known even when the core dictionary
// has no entry for it.
var knownGroups = []string{
	"Leopard-Raws", "SubsPlease", "Erai-raws", "Commie", "HorribleSubs",
	"ANK-Raws", "VCB-Studio", "DHD", "Moozzi2", "U3-Web",
	"幻櫻字幕組", "极影字幕社", "動漫國字幕組", "华盟字幕社", "天使动漫论坛",
	"喵萌奶茶屋", "悠哈璃羽字幕社", "诸神字幕组", "风车字幕组",
}

// DetectionResult reports what the detector found about a filename.
type DetectionResult struct {
	// IsFansub is the overall verdict: Confidence >= 0.5.
	IsFansub bool `json:"is_fansub"`
	// BracketType is the bracket convention detected at the start of the
	// filename, or BracketNone.
	BracketType BracketType `json:"bracket_type"`
	// GroupName is the literal text found inside the leading bracket.
	GroupName string `json:"group_name,omitempty"`
	// HasChineseEpisode reports Chinese/Korean episode notation (第12話,
	// 제12화) anywhere in the filename.
	HasChineseEpisode bool `json:"has_chinese_episode"`
	// HasKnownGroup reports whether GroupName matched a known fansub
	// group, either via the core dictionary or the supplementary list.
	HasKnownGroup bool `json:"has_known_group"`
	// Confidence is a score from 0.0 to 1.0.
	Confidence float64 `json:"confidence"`
}

// IsFansubFilename reports whether filename appears to be a fansub release.
func IsFansubFilename(filename string, dict *parser.Dictionary) bool {
	return Detect(filename, dict).IsFansub
}

// Detect runs the full heuristic against filename and returns the result.
// dict is the same keyword dictionary the parser uses; Detect tokenizes
// and parses filename with it to recognize release-group keywords and
// episode-dash runs from the token stream rather than pattern matching
// the raw string.
func Detect(filename string, dict *parser.Dictionary) *DetectionResult {
	result := &DetectionResult{BracketType: BracketNone}

	stream := parser.Tokenize(filename)
	parser.Parse(stream, dict)
	atoms := stream.Atoms()

	result.BracketType, result.GroupName = detectBracket(atoms)
	result.HasChineseEpisode = hasChineseOrKoreanEpisodeNotation(filename)
	result.HasKnownGroup = hasKnownGroup(atoms, result.GroupName)
	result.Confidence = confidence(result, filename, atoms)
	result.IsFansub = result.Confidence >= 0.5

	return result
}

// detectBracket inspects the first atom of the stream: if it opens a
// recognized bracket, it walks forward tracking depth until the matching
// closer and returns the concatenated literal of everything in between.
// The lexer files 【 under its closing set and 】 under its opening set, so
// a leading 【 is accepted here and its closer is matched by literal.
func detectBracket(atoms []parser.Atom) (BracketType, string) {
	if len(atoms) == 0 {
		return BracketNone, ""
	}
	first := atoms[0]
	if first.Category.Kind != parser.CategoryBracket || (first.Category.Bracket != parser.BracketOpening && first.Value != "【") {
		return BracketNone, ""
	}
	bt := classifyBracketRune(first.Value)
	if bt == BracketNone {
		return BracketNone, ""
	}
	if bt == BracketFullwidth {
		var sb strings.Builder
		for _, a := range atoms[1:] {
			if a.Value == "】" {
				break
			}
			sb.WriteString(a.Value)
		}
		return bt, strings.TrimSpace(sb.String())
	}

	depth := 1
	var sb strings.Builder
	for i := 1; i < len(atoms); i++ {
		a := atoms[i]
		if a.Category.Kind == parser.CategoryBracket {
			if a.Category.Bracket == parser.BracketOpening {
				depth++
				sb.WriteString(a.Value)
				continue
			}
			depth--
			if depth == 0 {
				break
			}
			sb.WriteString(a.Value)
			continue
		}
		sb.WriteString(a.Value)
	}
	return bt, strings.TrimSpace(sb.String())
}

func classifyBracketRune(v string) BracketType {
	switch v {
	case "[":
		return BracketSquare
	case "【":
		return BracketFullwidth
	case "「":
		return BracketCorner
	default:
		return BracketNone
	}
}

// hasChineseOrKoreanEpisodeNotation looks for 第<digits>[話集话] or
// 제<digits>화, allowing spaces around the digit run, without a regex
// engine: it scans runes and walks forward by hand from each marker.
func hasChineseOrKoreanEpisodeNotation(s string) bool {
	runes := []rune(s)
	for i, r := range runes {
		if r != '第' && r != '제' {
			continue
		}
		j := skipSpaces(runes, i+1)
		digitStart := j
		for j < len(runes) && unicode.IsDigit(runes[j]) {
			j++
		}
		if j == digitStart {
			continue
		}
		j = skipSpaces(runes, j)
		if j >= len(runes) {
			continue
		}
		switch r {
		case '第':
			if runes[j] == '話' || runes[j] == '集' || runes[j] == '话' {
				return true
			}
		case '제':
			if runes[j] == '화' {
				return true
			}
		}
	}
	return false
}

func skipSpaces(runes []rune, i int) int {
	for i < len(runes) && runes[i] == ' ' {
		i++
	}
	return i
}

// hasKnownGroup reports whether the stream already resolved a
// CatReleaseGroup keyword, or whether groupName matches (exactly, or as
// a substring) an entry in the supplementary known-groups list.
func hasKnownGroup(atoms []parser.Atom, groupName string) bool {
	for _, a := range atoms {
		if a.Category.Kind == parser.CategoryKeyword && a.Category.Keyword.Category == parser.CatReleaseGroup {
			return true
		}
	}
	if groupName == "" {
		return false
	}
	lower := strings.ToLower(groupName)
	for _, g := range knownGroups {
		gl := strings.ToLower(g)
		if lower == gl || strings.Contains(lower, gl) {
			return true
		}
	}
	return false
}

// hasEpisodeDashPattern reports a "- NN" style episode marker: a
// separator atom holding "-" immediately (modulo delimiters) followed by
// a bare 1-3 digit run.
func hasEpisodeDashPattern(atoms []parser.Atom) bool {
	for i, a := range atoms {
		if a.Category.Kind != parser.CategorySeparator || a.Value != "-" {
			continue
		}
		next, ok := nextNonDelimiter(atoms, i)
		if ok && isShortDigitRun(next) {
			return true
		}
	}
	return false
}

func nextNonDelimiter(atoms []parser.Atom, i int) (parser.Atom, bool) {
	for j := i + 1; j < len(atoms); j++ {
		if atoms[j].Category.Kind == parser.CategoryDelimiter {
			continue
		}
		return atoms[j], true
	}
	return parser.Atom{}, false
}

func isShortDigitRun(a parser.Atom) bool {
	v := a.Value
	if v == "" || len(v) > 3 {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// containsCJKCharacters reports whether s contains any CJK, hiragana,
// katakana, or hangul codepoint.
func containsCJKCharacters(s string) bool {
	for _, r := range s {
		if (r >= 0x4E00 && r <= 0x9FFF) ||
			(r >= 0x3400 && r <= 0x4DBF) ||
			(r >= 0x3040 && r <= 0x309F) ||
			(r >= 0x30A0 && r <= 0x30FF) ||
			(r >= 0xAC00 && r <= 0xD7AF) {
			return true
		}
	}
	return false
}

// confidence combines the signals into a 0.0-1.0 score. Weights mirror
// the relative specificity of each signal: a fullwidth bracket is almost
// always CJK fansub packaging, a plain square bracket could just as
// easily be a scene release.
func confidence(result *DetectionResult, filename string, atoms []parser.Atom) float64 {
	c := 0.0

	switch result.BracketType {
	case BracketFullwidth:
		c += 0.5
	case BracketCorner:
		c += 0.4
	case BracketSquare:
		c += 0.3
	}

	if result.HasChineseEpisode {
		c += 0.3
	}
	if result.HasKnownGroup {
		c += 0.4
	}
	if containsCJKCharacters(filename) && result.BracketType != BracketNone {
		c += 0.1
	}
	if result.BracketType != BracketNone && hasEpisodeDashPattern(atoms) {
		c += 0.1
	}

	if c > 1.0 {
		c = 1.0
	}
	return c
}

// KnownGroups returns a copy of the supplementary known fansub group
// names, useful for tests and documentation.
func KnownGroups() []string {
	out := make([]string, len(knownGroups))
	copy(out, knownGroups)
	return out
}
