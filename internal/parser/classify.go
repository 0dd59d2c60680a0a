package parser

import "strconv"

// Parse drives the fixed sequence of contextual classifier passes over a
// stream: checksum and resolution, normal-priority keyword identification,
// flattening, season, volume, part and episode resolution, low-priority
// keyword identification, a second flattening, and anime-type promotion.
// It mutates the stream in place and returns it for convenience.
func Parse(stream *Stream, dict *Dictionary) *Stream {
	passChecksumAndResolution(stream)
	passIdentifyKeywords(stream, dict, PriorityNormal)
	passFlattenParts(stream)
	passSeasonResolution(stream, dict)
	passVolumeResolution(stream)
	passPartResolution(stream)
	passEpisodeResolution(stream)
	passIdentifyKeywords(stream, dict, PriorityLow)
	passFlattenParts(stream)
	passAnimeTypePromotion(stream)
	return stream
}

// passChecksumAndResolution is the first classification pass.
func passChecksumAndResolution(stream *Stream) {
	for _, a := range stream.Atoms() {
		if a.Category.Kind != CategoryUnknown {
			continue
		}
		switch {
		case isCRC32(a.Value):
			stream.UpdateCategory(a.ID, knownCategory(KindFileChecksum))
		case isResolutionShape(a.Value):
			stream.UpdateCategory(a.ID, knownCategory(KindVideoResolution))
		}
	}
}

// passIdentifyKeywords is the second classification pass (and its low-priority
// counterpart, reserved by §4.5 point 5 / §9).
func passIdentifyKeywords(stream *Stream, dict *Dictionary, priority KeywordPriority) {
	for _, a := range stream.Atoms() {
		if a.Category.Kind != CategoryUnknown {
			continue
		}
		realIndex, ok := stream.realIndex(a.ID)
		if !ok {
			continue
		}
		result, ok := IdentifyKeyword(stream, dict, a, realIndex)
		if !ok {
			continue
		}
		if len(result) == 1 {
			if result[0].Category.Kind != CategoryKeyword {
				continue
			}
			if result[0].Category.Keyword.Priority != priority {
				continue
			}
			stream.UpdateCategory(a.ID, result[0].Category)
			continue
		}
		stream.UpdateCategory(a.ID, partsCategory(result))
	}
}

// passFlattenParts is the third classification pass. It repeatedly flattens
// the first remaining parts atom, since flattening shifts subsequent
// indices and stale indices must never be reused.
func passFlattenParts(stream *Stream) {
	for {
		atoms := stream.Atoms()
		found := false
		for _, a := range atoms {
			if a.Category.Kind != CategoryParts {
				continue
			}
			realIndex, ok := stream.realIndex(a.ID)
			if !ok {
				continue
			}
			stream.FlattenAt(realIndex, a.Category.Parts)
			found = true
			break
		}
		if !found {
			return
		}
	}
}

// passSeasonResolution is the fourth classification pass.
func passSeasonResolution(stream *Stream, dict *Dictionary) {
	if stream.HasTokenWithMetadataKind(KindSeason) {
		return
	}

	prefix, ok := firstKeywordOfCategory(stream, CatSeasonPrefix)
	if !ok {
		return
	}

	switch prefix.Category.Keyword.Kind.Tag {
	case KindTagStandalone, KindTagCombined, KindTagOrdinalSuffix:
		return
	}

	prefixIndex, ok := stream.realIndex(prefix.ID)
	if !ok {
		return
	}

	left, leftIdx, ok := nextNumberOrLike(stream, prefixIndex)
	if !ok {
		return
	}
	_, sepIdx, ok := nextSeparator(stream, leftIdx)
	if !ok {
		stream.UpdateCategory(left.ID, knownCategory(KindSeason))
		return
	}
	right, rightIdx, ok := nextNumberOrLike(stream, sepIdx)
	if !ok {
		stream.UpdateCategory(left.ID, knownCategory(KindSeason))
		return
	}

	plural := len(prefix.Category.Keyword.Value) > 0 && prefix.Category.Keyword.Value[len(prefix.Category.Keyword.Value)-1] == 'S'

	seasonToSeason := func() {
		stream.UpdateCategory(left.ID, knownCategory(KindSeason))
		stream.UpdateCategory(right.ID, knownCategory(KindSeason))
	}
	seasonEpisode := func() {
		stream.UpdateCategory(left.ID, knownCategory(KindSeason))
		stream.UpdateCategory(right.ID, knownCategory(KindEpisodeNumber))
	}

	switch {
	case plural:
		seasonToSeason()
	default:
		zl := isZeroPadded(left.Value)
		zr := isZeroPadded(right.Value)
		switch {
		case !zl && zr:
			seasonEpisode()
		case zl && zr:
			prevRaw, ok := stream.TokenBefore(rightIdx, false)
			if ok && prevRaw.Category.Kind == CategoryDelimiter {
				seasonEpisode()
			} else {
				seasonToSeason()
			}
		default:
			if leadingNumber(right.Value) > 10 {
				seasonEpisode()
			} else {
				seasonToSeason()
			}
		}
	}
}

// passVolumeResolution and passPartResolution mirror season resolution's
// single-number form (no range disambiguation is specified for these
// categories): they consume the next number-or-like atom following the
// first unconsumed prefix keyword.
func passVolumeResolution(stream *Stream) {
	resolveSingleNumberPrefix(stream, CatVolumePrefix, KindVolumeNumber)
}

func passPartResolution(stream *Stream) {
	resolveSingleNumberPrefix(stream, CatPartPrefix, KindPart)
}

func resolveSingleNumberPrefix(stream *Stream, category KeywordCategory, target MetadataKind) {
	if stream.HasTokenWithMetadataKind(target) {
		return
	}
	prefix, ok := firstKeywordOfCategory(stream, category)
	if !ok {
		return
	}
	if prefix.Category.Keyword.Kind.Tag == KindTagStandalone {
		return
	}
	prefixIndex, ok := stream.realIndex(prefix.ID)
	if !ok {
		return
	}
	num, _, ok := nextNumberOrLike(stream, prefixIndex)
	if !ok {
		return
	}
	stream.UpdateCategory(num.ID, knownCategory(target))
}

// passEpisodeResolution covers filenames whose episode number was never
// produced by §4.4's combined S/E split (e.g. a bare "EPISODE 04" with no
// season prefix at all).
func passEpisodeResolution(stream *Stream) {
	if stream.HasTokenWithMetadataKind(KindEpisodeNumber) {
		return
	}
	prefix, ok := firstKeywordOfCategory(stream, CatEpisodePrefix)
	if !ok {
		return
	}
	if prefix.Category.Keyword.Kind.Tag == KindTagStandalone {
		return
	}
	prefixIndex, ok := stream.realIndex(prefix.ID)
	if !ok {
		return
	}
	num, _, ok := nextNumberOrLike(stream, prefixIndex)
	if !ok {
		return
	}
	stream.UpdateCategory(num.ID, knownCategory(KindEpisodeNumber))
}

// passAnimeTypePromotion promotes the first still-keyword (unpromoted)
// anime-type atom to the terminal known(anime-type) label, once contextual
// passes have had a chance to resolve competing labels first.
func passAnimeTypePromotion(stream *Stream) {
	if stream.HasTokenWithMetadataKind(KindAnimeType) {
		return
	}
	entry, ok := firstKeywordOfCategory(stream, CatAnimeType)
	if !ok {
		return
	}
	stream.UpdateCategory(entry.ID, knownCategory(KindAnimeType))
}

func firstKeywordOfCategory(stream *Stream, category KeywordCategory) (Atom, bool) {
	for _, a := range stream.Atoms() {
		if a.Category.Kind == CategoryKeyword && a.Category.Keyword.Category == category {
			return a, true
		}
	}
	return Atom{}, false
}

// nextNumberOrLike scans forward, skipping delimiters, returning the next
// atom of shape number or number-like along with its real index.
func nextNumberOrLike(stream *Stream, fromRealIndex int) (Atom, int, bool) {
	a, ok := stream.TokenAfter(fromRealIndex, true)
	if !ok || (a.Shape != ShapeNumber && a.Shape != ShapeNumberLike) {
		return Atom{}, 0, false
	}
	idx, ok := stream.realIndex(a.ID)
	if !ok {
		return Atom{}, 0, false
	}
	return a, idx, true
}

// nextSeparator scans forward, skipping delimiters, returning the next
// separator-category atom along with its real index.
func nextSeparator(stream *Stream, fromRealIndex int) (Atom, int, bool) {
	a, ok := stream.TokenAfter(fromRealIndex, true)
	if !ok || a.Category.Kind != CategorySeparator {
		return Atom{}, 0, false
	}
	idx, ok := stream.realIndex(a.ID)
	if !ok {
		return Atom{}, 0, false
	}
	return a, idx, true
}

// leadingNumber parses the leading run of ASCII digits in s as an integer,
// returning 0 if there is none.
func leadingNumber(s string) int {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
