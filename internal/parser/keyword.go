package parser

import "strings"

// KeywordCategory classifies what a dictionary entry means once matched.
type KeywordCategory int

const (
	CatSeasonPrefix KeywordCategory = iota
	CatEpisodePrefix
	CatVolumePrefix
	CatPartPrefix
	CatAnimeType
	CatVideoTerm
	CatAudioTerm
	CatDeviceCompat
	CatFileExtension
	CatLanguage
	CatReleaseInfo
	CatReleaseVersion
	CatReleaseGroup
	CatSubtitles
	CatSource
)

func (c KeywordCategory) String() string {
	switch c {
	case CatSeasonPrefix:
		return "season_prefix"
	case CatEpisodePrefix:
		return "episode_prefix"
	case CatVolumePrefix:
		return "volume_prefix"
	case CatPartPrefix:
		return "part_prefix"
	case CatAnimeType:
		return "anime_type"
	case CatVideoTerm:
		return "video_term"
	case CatAudioTerm:
		return "audio_term"
	case CatDeviceCompat:
		return "device_compat"
	case CatFileExtension:
		return "file_extension"
	case CatLanguage:
		return "language"
	case CatReleaseInfo:
		return "release_info"
	case CatReleaseVersion:
		return "release_version"
	case CatReleaseGroup:
		return "release_group"
	case CatSubtitles:
		return "subtitles"
	case CatSource:
		return "source"
	default:
		return "unknown"
	}
}

// KeywordPriority controls which identification pass an entry is eligible
// to be matched in.
type KeywordPriority int

const (
	PriorityNormal KeywordPriority = iota
	PriorityLow
)

// KeywordKindTag discriminates the neighbor-validation rule a KeywordKind
// carries.
type KeywordKindTag int

const (
	KindTagStandalone KeywordKindTag = iota
	KindTagCombined
	KindTagCombinedOrSeparated
	KindTagSeparated
	KindTagOrdinalSuffix
)

// KeywordKind describes how an entry must relate to its neighboring atoms
// to be considered valid. NextShape is populated for every tag except
// Standalone and OrdinalSuffix, and is always ShapeNumberLike.
type KeywordKind struct {
	Tag       KeywordKindTag
	NextShape Shape
}

func standaloneKind() KeywordKind { return KeywordKind{Tag: KindTagStandalone} }
func combinedKind() KeywordKind {
	return KeywordKind{Tag: KindTagCombined, NextShape: ShapeNumberLike}
}
func combinedOrSeparatedKind() KeywordKind {
	return KeywordKind{Tag: KindTagCombinedOrSeparated, NextShape: ShapeNumberLike}
}
func ordinalSuffixKind() KeywordKind { return KeywordKind{Tag: KindTagOrdinalSuffix} }

// KeywordEntry is one row of the keyword dictionary.
type KeywordEntry struct {
	Value    string // uppercase canonical literal
	Category KeywordCategory
	Kind     KeywordKind
	Priority KeywordPriority
}

func (k KeywordEntry) IsStandalone() bool { return k.Kind.Tag == KindTagStandalone }
func (k KeywordEntry) IsCombined() bool   { return k.Kind.Tag == KindTagCombined }
func (k KeywordEntry) IsCombinedOrSeparated() bool {
	return k.Kind.Tag == KindTagCombinedOrSeparated
}
func (k KeywordEntry) IsSeparated() bool     { return k.Kind.Tag == KindTagSeparated }
func (k KeywordEntry) IsOrdinalSuffix() bool { return k.Kind.Tag == KindTagOrdinalSuffix }

// Dictionary is an immutable, case-insensitive collection of keyword
// entries. It is safe for concurrent use after construction.
type Dictionary struct {
	entries []KeywordEntry
}

// NewDictionary builds the dictionary seeded with the fixed keyword table.
func NewDictionary() *Dictionary {
	d := &Dictionary{}
	d.addGroup(CatSeasonPrefix, combinedKind(), PriorityNormal, "S")
	d.addGroup(CatSeasonPrefix, combinedOrSeparatedKind(), PriorityNormal,
		"SEASON", "SAISON", "SEASONS", "SAISONS")
	d.addGroup(CatSeasonPrefix, ordinalSuffixKind(), PriorityNormal,
		"SEASON", "SAISON", "SEASONS", "SAISONS")

	d.addGroup(CatEpisodePrefix, combinedOrSeparatedKind(), PriorityNormal,
		"EPISODE", "EPISODE.", "EPISODES", "CAPITULO", "EPISODIO", "FOLGE")
	d.addGroup(CatEpisodePrefix, combinedKind(), PriorityNormal, "E")
	d.addGroup(CatEpisodePrefix, combinedOrSeparatedKind(), PriorityNormal,
		"EP", "EP.", "EPS", "EPS.")

	d.addGroup(CatAnimeType, combinedOrSeparatedKind(), PriorityNormal,
		"MOVIE", "OAD", "OAV", "ONA", "OVA", "SPECIAL", "SPECIALS", "ED", "ENDING",
		"NCED", "NCOP", "OPED", "OP", "OPENING",
		"TV", "番外編", "總集編", "映像特典", "特典", "特典アニメ")
	d.addGroup(CatAnimeType, standaloneKind(), PriorityNormal,
		"MOVIE", "GEKIJOUBAN", "ONA", "OVA", "OAV", "OAD")
	d.addGroup(CatAnimeType, standaloneKind(), PriorityLow,
		"ED", "ENDING", "NCED", "NCOP", "OPED", "OP", "OPENING", "PREVIEW",
		"PV", "EVENT", "TOKUTEN", "LOGO", "CM", "SPOT", "MENU")

	d.addGroup(CatAudioTerm, standaloneKind(), PriorityNormal,
		"2.0CH", "2CH", "5.1", "5.1CH", "DTS", "DTS-ES", "DTS5.1", "TRUEHD5.1",
		"AAC", "AACX2", "AACX3", "AACX4", "AC3", "EAC3", "E-AC-3", "FLAC",
		"FLACX2", "FLACX3", "FLACX4", "LOSSLESS", "MP3", "OGG", "VORBIS",
		"DD2", "DD2.0",
		"DUALAUDIO", "DUAL-AUDIO")

	d.addGroup(CatDeviceCompat, standaloneKind(), PriorityNormal,
		"IPAD3", "IPHONE5", "IPOD", "PS3", "XBOX", "XBOX360")
	d.addGroup(CatDeviceCompat, standaloneKind(), PriorityLow, "ANDROID")

	d.addGroup(CatFileExtension, standaloneKind(), PriorityNormal,
		"3GP", "AVI", "DIVX", "FLV", "M2TS", "MKV", "MOV", "MP4", "MPG",
		"OGM", "RM", "RMVB", "TS", "WEBM", "WMV")
	d.addGroup(CatFileExtension, standaloneKind(), PriorityLow,
		"AAC", "AIFF", "FLAC", "M4A", "MP3", "MKA", "OGG", "WAV", "WMA",
		"7Z", "RAR", "ZIP", "ASS", "SRT")

	d.addGroup(CatLanguage, standaloneKind(), PriorityNormal,
		"ENG", "ENGLISH", "ESPANOL", "JAP", "PT-BR", "SPANISH", "VOSTFR")
	d.addGroup(CatLanguage, standaloneKind(), PriorityLow, "ESP", "ITA")

	d.addGroup(CatReleaseInfo, standaloneKind(), PriorityNormal,
		"REMASTER", "REMASTERED", "UNCENSORED", "UNCUT", "TS", "VFR",
		"WIDESCREEN", "WS", "BATCH", "COMPLETE", "PATCH", "REMUX")
	d.addGroup(CatReleaseInfo, standaloneKind(), PriorityLow, "END", "FINAL")

	d.addGroup(CatReleaseGroup, standaloneKind(), PriorityNormal,
		"THORA", "HORRIBLESUBS", "ERAI-RAWS", "SUBSPLEASE")

	d.addGroup(CatReleaseVersion, standaloneKind(), PriorityLow,
		"V0", "V1", "V2", "V3", "V4")

	d.addGroup(CatSource, standaloneKind(), PriorityNormal,
		"BD", "BDRIP", "BLURAY", "BLU-RAY", "DVD", "DVD5", "DVD9",
		"DVD-R2J", "DVDRIP", "DVD-RIP", "R2DVD", "R2J", "R2JDVD",
		"R2JDVDRIP", "HDTV", "HDTVRIP", "TVRIP", "TV-RIP",
		"WEBCAST", "WEBRIP")

	d.addGroup(CatSubtitles, standaloneKind(), PriorityNormal,
		"ASS", "BIG5", "DUB", "DUBBED", "HARDSUB", "HARDSUBS", "RAW",
		"SOFTSUB", "SOFTSUBS", "SUB", "SUBBED", "SUBTITLED", "MULTISUB")

	d.addGroup(CatVideoTerm, standaloneKind(), PriorityNormal,
		"23.976FPS", "24FPS", "29.97FPS", "30FPS", "60FPS", "120FPS",
		"8BIT", "8-BIT", "10BIT", "10BITS", "10-BIT", "10-BITS",
		"HI10", "HI10P", "HI444", "HI444P", "HI444PP",
		"H264", "H265", "H.264", "H.265", "X264", "X265", "X.264",
		"AVC", "HEVC", "HEVC2", "DIVX", "DIVX5", "DIVX6", "XVID", "AV1",
		"HDR", "DV", "DOLBY VISION",
		"AVI", "RMVB", "WMV", "WMV3", "WMV9",
		"HQ", "LQ",
		"HD", "SD", "4K")

	d.addGroup(CatVolumePrefix, combinedOrSeparatedKind(), PriorityNormal,
		"VOL", "VOL.", "VOLUME", "VOLUMES")
	d.addGroup(CatPartPrefix, combinedOrSeparatedKind(), PriorityNormal,
		"PART", "PT.")

	return d
}

// AddReleaseGroup registers an additional standalone CatReleaseGroup
// entry at normal priority. It is how harvested release-group names (see
// internal/releasegroups) extend the fixed seed table at runtime. A
// value already present (case-insensitively) is not duplicated.
func (d *Dictionary) AddReleaseGroup(value string) {
	upper := strings.ToUpper(value)
	if upper == "" {
		return
	}
	for _, e := range d.entries {
		if e.Category == CatReleaseGroup && e.Value == upper {
			return
		}
	}
	d.addGroup(CatReleaseGroup, standaloneKind(), PriorityNormal, value)
}

// ReleaseGroups returns the canonical values of every CatReleaseGroup
// entry currently in the dictionary, seed and harvested alike.
func (d *Dictionary) ReleaseGroups() []string {
	var out []string
	for _, e := range d.entries {
		if e.Category == CatReleaseGroup {
			out = append(out, e.Value)
		}
	}
	return out
}

// CategoryCounts returns the number of entries currently registered under
// each keyword category, keyed by its String() name.
func (d *Dictionary) CategoryCounts() map[string]int {
	counts := make(map[string]int)
	for _, e := range d.entries {
		counts[e.Category.String()]++
	}
	return counts
}

// Len returns the total number of entries in the dictionary, seed and
// harvested alike.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

func (d *Dictionary) addGroup(category KeywordCategory, kind KeywordKind, priority KeywordPriority, values ...string) {
	for _, v := range values {
		d.entries = append(d.entries, KeywordEntry{
			Value:    strings.ToUpper(v),
			Category: category,
			Kind:     kind,
			Priority: priority,
		})
	}
}

func isNonStandalone(e KeywordEntry) bool {
	switch e.Kind.Tag {
	case KindTagCombined, KindTagCombinedOrSeparated, KindTagSeparated, KindTagOrdinalSuffix:
		return true
	default:
		return false
	}
}

// FindStandalone returns the first standalone entry whose value equals
// value case-insensitively.
func (d *Dictionary) FindStandalone(value string) (KeywordEntry, bool) {
	upper := strings.ToUpper(value)
	for _, e := range d.entries {
		if e.IsStandalone() && e.Value == upper {
			return e, true
		}
	}
	return KeywordEntry{}, false
}

// Find returns the standalone match if one exists, otherwise the
// longest-prefix non-standalone entry matching value.
func (d *Dictionary) Find(value string) (KeywordEntry, bool) {
	if e, ok := d.FindStandalone(value); ok {
		return e, true
	}
	upper := strings.ToUpper(value)
	var best KeywordEntry
	found := false
	for _, e := range d.entries {
		if !isNonStandalone(e) {
			continue
		}
		if strings.HasPrefix(upper, e.Value) {
			if !found || len(e.Value) > len(best.Value) {
				best = e
				found = true
			}
		}
	}
	return best, found
}

// FindMany returns every entry whose value is a prefix of value's
// uppercase form, regardless of kind.
func (d *Dictionary) FindMany(value string) []KeywordEntry {
	upper := strings.ToUpper(value)
	var out []KeywordEntry
	for _, e := range d.entries {
		if strings.HasPrefix(upper, e.Value) {
			out = append(out, e)
		}
	}
	return out
}
