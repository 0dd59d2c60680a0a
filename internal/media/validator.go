package media

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ValidateDirectory checks if a path is a valid, accessible directory.
// It returns a MediaDirectory struct with the validation status and any error message.
func ValidateDirectory(path string) MediaDirectory {
	dir := MediaDirectory{
		Path: path,
		Type: InferMediaType(path),
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			dir.Status = StatusNotFound
			dir.Error = "directory does not exist"
			slog.Warn("Media directory not found",
				"path", path,
				"recommendation", "Check if the path is correctly mounted in Docker")
		} else if os.IsPermission(err) {
			dir.Status = StatusNotReadable
			dir.Error = "permission denied"
			slog.Warn("Media directory permission denied",
				"path", path,
				"error", err)
		} else {
			dir.Status = StatusNotReadable
			dir.Error = err.Error()
			slog.Warn("Media directory not accessible",
				"path", path,
				"error", err)
		}
		return dir
	}

	if !info.IsDir() {
		dir.Status = StatusNotDir
		dir.Error = "path is not a directory"
		slog.Warn("Media path is not a directory", "path", path)
		return dir
	}

	// Check readability by attempting to list contents
	entries, err := os.ReadDir(path)
	if err != nil {
		dir.Status = StatusNotReadable
		dir.Error = "cannot read directory contents"
		slog.Warn("Cannot read media directory",
			"path", path,
			"error", err)
		return dir
	}

	dir.Status = StatusAccessible
	dir.FileCount = len(entries)
	slog.Info("Media directory validated",
		"path", path,
		"type", dir.Type,
		"file_count", dir.FileCount)

	return dir
}

// videoExtensions lists the file extensions ScanVideoFiles treats as
// fansub release candidates worth feeding through the parser.
var videoExtensions = map[string]bool{
	".mkv": true,
	".mp4": true,
	".avi": true,
	".wmv": true,
	".mov": true,
	".ts":  true,
	".flv": true,
	".m4v": true,
}

// IsVideoFile reports whether name has an extension ScanVideoFiles
// recognizes as a video file.
func IsVideoFile(name string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(name))]
}

// ScanVideoFiles lists the video filenames directly inside dir (no
// recursion into subdirectories), for callers that want to batch-parse a
// configured media directory's contents.
func ScanVideoFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsVideoFile(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// InferMediaType guesses the media type from the directory path name.
// Returns "movies", "tv", "anime", or "mixed" based on path patterns.
func InferMediaType(path string) string {
	base := strings.ToLower(filepath.Base(path))

	switch {
	case strings.Contains(base, "movie"):
		return "movies"
	case strings.Contains(base, "tv") || strings.Contains(base, "series") || strings.Contains(base, "show"):
		return "tv"
	case strings.Contains(base, "anime"):
		return "anime"
	default:
		return "mixed"
	}
}
