package parser

import "strings"

// AnimeParseResult contains the structured metadata recovered from a
// fan-subtitled filename. It is the thin calling surface described in
// everything in it is folded from the final token stream by
// Parse, not computed by the CORE engine itself.
type AnimeParseResult struct {
	// OriginalFilename is the input filename, unmodified.
	OriginalFilename string `json:"original_filename"`

	// Title is the reconstructed anime title recovered from the longest
	// run of unclassified, unenclosed atoms.
	Title string `json:"title"`

	// Season is the season number, if one was resolved.
	Season string `json:"season,omitempty"`
	// Episode is the episode number, if one was resolved.
	Episode string `json:"episode,omitempty"`
	// EpisodeAlt holds an alternate episode number atom, when the stream
	// produced more than one known:episode-number atom (e.g. a range).
	EpisodeAlt string `json:"episode_alt,omitempty"`
	// Volume is the volume number, if one was resolved.
	Volume string `json:"volume,omitempty"`
	// Part is the part number, if one was resolved.
	Part string `json:"part,omitempty"`

	// AnimeType is the release form (e.g. "OVA", "MOVIE"), if resolved.
	AnimeType string `json:"anime_type,omitempty"`
	// ReleaseGroup is the fansub/release group literal, if matched.
	ReleaseGroup string `json:"release_group,omitempty"`
	// VideoResolution is the resolved resolution literal (e.g. "1080p").
	VideoResolution string `json:"video_resolution,omitempty"`
	// VideoTerms lists matched video-term keywords in stream order.
	VideoTerms []string `json:"video_terms,omitempty"`
	// AudioTerms lists matched audio-term keywords in stream order.
	AudioTerms []string `json:"audio_terms,omitempty"`
	// Source is the matched release source (e.g. "BDRIP"), if any.
	Source string `json:"source,omitempty"`
	// Language is the matched language literal, if any.
	Language string `json:"language,omitempty"`
	// Subtitles lists matched subtitle keywords in stream order.
	Subtitles []string `json:"subtitles,omitempty"`
	// Checksum is the resolved CRC32 file checksum, if any.
	Checksum string `json:"checksum,omitempty"`
	// ReleaseInfo lists matched release-information keywords.
	ReleaseInfo []string `json:"release_info,omitempty"`
	// ReleaseVersion is the matched version tag (e.g. "V2"), if any.
	ReleaseVersion string `json:"release_version,omitempty"`
	// DeviceCompat lists matched device-compatibility keywords.
	DeviceCompat []string `json:"device_compat,omitempty"`
	// FileExtension is the matched file-extension keyword category, when
	// the stripped extension also happens to classify as a keyword.
	FileExtension string `json:"file_extension,omitempty"`
}

// ParseFilename is the library's top-level entry point: it strips a
// recognizable file extension, tokenizes the remainder, drives the parser
// passes, and folds the final stream into an AnimeParseResult.
func ParseFilename(filename string, dict *Dictionary) AnimeParseResult {
	stem, _ := StripFileExtension(filename, dict)
	stream := Tokenize(stem)
	Parse(stream, dict)
	return foldResult(filename, stream)
}

// StripFileExtension removes a trailing ".<ext>" suffix if ext classifies
// as a FileExtension dictionary entry. It returns
// the stem and the stripped extension (without the leading dot); if no
// known extension is found the original filename is returned unchanged.
func StripFileExtension(filename string, dict *Dictionary) (string, string) {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return filename, ""
	}
	suffix := filename[idx+1:]
	for _, e := range dict.entries {
		if e.Category == CatFileExtension && e.IsStandalone() && strings.EqualFold(e.Value, suffix) {
			return filename[:idx], suffix
		}
	}
	return filename, ""
}

func foldResult(originalFilename string, stream *Stream) AnimeParseResult {
	result := AnimeParseResult{OriginalFilename: originalFilename}
	atoms := stream.Atoms()

	result.Title = reconstructTitle(atoms)

	episodeSeen := false
	for _, a := range atoms {
		switch a.Category.Kind {
		case CategoryKnown:
			switch a.Category.Known {
			case KindSeason:
				if result.Season == "" {
					result.Season = a.Value
				}
			case KindEpisodeNumber:
				if !episodeSeen {
					result.Episode = a.Value
					episodeSeen = true
				} else if result.EpisodeAlt == "" {
					result.EpisodeAlt = a.Value
				}
			case KindVolumeNumber:
				result.Volume = a.Value
			case KindPart:
				result.Part = a.Value
			case KindAnimeType:
				result.AnimeType = a.Value
			case KindVideoResolution:
				result.VideoResolution = a.Value
			case KindFileChecksum:
				result.Checksum = a.Value
			}
		case CategoryKeyword:
			entry := a.Category.Keyword
			switch entry.Category {
			case CatReleaseGroup:
				if result.ReleaseGroup == "" {
					result.ReleaseGroup = entry.Value
				}
			case CatVideoTerm:
				result.VideoTerms = append(result.VideoTerms, entry.Value)
			case CatAudioTerm:
				result.AudioTerms = append(result.AudioTerms, entry.Value)
			case CatSource:
				if result.Source == "" {
					result.Source = entry.Value
				}
			case CatLanguage:
				if result.Language == "" {
					result.Language = entry.Value
				}
			case CatSubtitles:
				result.Subtitles = append(result.Subtitles, entry.Value)
			case CatReleaseInfo:
				result.ReleaseInfo = append(result.ReleaseInfo, entry.Value)
			case CatReleaseVersion:
				if result.ReleaseVersion == "" {
					result.ReleaseVersion = entry.Value
				}
			case CatDeviceCompat:
				result.DeviceCompat = append(result.DeviceCompat, entry.Value)
			case CatFileExtension:
				if result.FileExtension == "" {
					result.FileExtension = entry.Value
				}
			case CatAnimeType:
				if result.AnimeType == "" {
					result.AnimeType = entry.Value
				}
			}
		}
	}

	return result
}

// reconstructTitle finds the longest contiguous run of unclassified,
// unenclosed atoms (delimiters/separators between them rendered as a
// single space) and returns it trimmed, matching the "title
// reconstruction from leftover unknowns".
func reconstructTitle(atoms []Atom) string {
	type run struct {
		start, end int // inclusive atom indices
	}
	var runs []run
	inRun := false
	var cur run

	flushIfUnknownRun := func(kind CategoryKind) bool {
		return kind == CategoryUnknown || kind == CategoryDelimiter || kind == CategorySeparator
	}

	for i, a := range atoms {
		isTitleish := a.Category.Kind == CategoryUnknown && !a.Enclosed
		isGlue := (a.Category.Kind == CategoryDelimiter || a.Category.Kind == CategorySeparator) && !a.Enclosed

		if isTitleish {
			if !inRun {
				cur = run{start: i, end: i}
				inRun = true
			} else {
				cur.end = i
			}
		} else if isGlue && inRun {
			// tentatively extend; trimmed away later if nothing titleish follows
			cur.end = i
		} else {
			if inRun {
				runs = append(runs, cur)
				inRun = false
			}
		}
		_ = flushIfUnknownRun
	}
	if inRun {
		runs = append(runs, cur)
	}

	best := -1
	bestLen := -1
	for idx, r := range runs {
		length := 0
		for i := r.start; i <= r.end; i++ {
			length += len([]rune(atoms[i].Value))
		}
		if length > bestLen {
			bestLen = length
			best = idx
		}
	}
	if best < 0 {
		return ""
	}

	r := runs[best]
	var sb strings.Builder
	for i := r.start; i <= r.end; i++ {
		a := atoms[i]
		switch a.Category.Kind {
		case CategoryDelimiter:
			sb.WriteRune(' ')
		case CategorySeparator:
			sb.WriteString(" " + a.Value + " ")
		default:
			sb.WriteString(a.Value)
		}
	}
	return strings.TrimSpace(collapseSpaces(sb.String()))
}

func collapseSpaces(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
