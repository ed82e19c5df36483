package scan

import (
	"strings"

	"github.com/backmassage/photoprep/internal/config"
)

// Ignore-keyword sets. A file whose name contains any keyword
// (case-insensitive) is never part of a photo set.
var (
	IgnoreSheet  = []string{"cover", "poster"}
	IgnoreRetina = []string{"contactsheet", "cover", "poster", config.BackupDirName}
)

// photoSuffixes are matched against the lowercased full path without a
// leading dot, so "/shoot/frontjpg" qualifies. Existing folders depend on
// this looseness.
var photoSuffixes = []string{"jpg", "jpeg"}

// Eligible reports whether a file name passes the ignore-keyword filter.
// name must be a base name, not a full path.
func Eligible(name string, ignore []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range ignore {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}

// HasPhotoExt reports whether path looks like a JPEG by its suffix. It is
// the historical endswith test, not a substring search: "a.jpg.bak" is
// rejected while "frontjpg" is accepted.
func HasPhotoExt(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range photoSuffixes {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// IsMarked reports whether a directory name carries the batch marker.
func IsMarked(name string) bool {
	return strings.HasPrefix(name, config.DirMarker)
}
