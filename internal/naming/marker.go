package naming

import (
	"path/filepath"
	"strings"

	"github.com/backmassage/photoprep/internal/config"
)

// FinishedName returns the name a marked directory gets once every file in
// it has been processed: the marker is dropped and the done suffix added.
//
//	"00Spring Trip" -> "Spring Trip Mx"
func FinishedName(name string) string {
	return strings.TrimPrefix(name, config.DirMarker) + config.DoneSuffix
}

// FinishedPath applies FinishedName to the last element of dir.
func FinishedPath(dir string) string {
	dir = filepath.Clean(dir)
	return filepath.Join(filepath.Dir(dir), FinishedName(filepath.Base(dir)))
}

// Stem returns the base name of path without its extension. It is the
// caption text for a contact-sheet tile.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
