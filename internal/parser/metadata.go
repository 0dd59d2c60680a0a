package parser

// MetadataKind enumerates the terminal labels an atom can carry once it is
// fully resolved.
type MetadataKind int

const (
	KindTitle MetadataKind = iota
	KindSeason
	KindSeasonPrefix
	KindPart
	KindPartPrefix
	KindEpisodeNumber
	KindEpisodeNumberAlt
	KindEpisodePrefix
	KindEpisodeTitle
	KindAnimeType
	KindYear
	KindAudioTerm
	KindDeviceCompatibility
	KindFileChecksum
	KindFileExtension
	KindFileName
	KindLanguage
	KindOther
	KindReleaseGroup
	KindReleaseInformation
	KindReleaseVersion
	KindSource
	KindSubtitles
	KindVideoResolution
	KindVideoTerm
	KindVolumeNumber
	KindVolumePrefix
	KindUnknown
)

var metadataKindNames = map[MetadataKind]string{
	KindTitle:               "title",
	KindSeason:              "season",
	KindSeasonPrefix:        "season-prefix",
	KindPart:                "part",
	KindPartPrefix:          "part-prefix",
	KindEpisodeNumber:       "episode-number",
	KindEpisodeNumberAlt:    "episode-number-alt",
	KindEpisodePrefix:       "episode-prefix",
	KindEpisodeTitle:        "episode-title",
	KindAnimeType:           "anime-type",
	KindYear:                "year",
	KindAudioTerm:           "audio-term",
	KindDeviceCompatibility: "device-compatibility",
	KindFileChecksum:        "file-checksum",
	KindFileExtension:       "file-extension",
	KindFileName:            "file-name",
	KindLanguage:            "language",
	KindOther:               "other",
	KindReleaseGroup:        "release-group",
	KindReleaseInformation:  "release-information",
	KindReleaseVersion:      "release-version",
	KindSource:              "source",
	KindSubtitles:           "subtitles",
	KindVideoResolution:     "video-resolution",
	KindVideoTerm:           "video-term",
	KindVolumeNumber:        "volume-number",
	KindVolumePrefix:        "volume-prefix",
	KindUnknown:             "unknown",
}

func (k MetadataKind) String() string {
	if name, ok := metadataKindNames[k]; ok {
		return name
	}
	return "unknown"
}
