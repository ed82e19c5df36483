package retina

import (
	"github.com/backmassage/photoprep/internal/fsx"
	"github.com/backmassage/photoprep/internal/naming"
)

// Finalize renames a finished marked directory ("00Name" -> "Name Mx") and
// returns the new path. An existing target yields a
// *fsx.RenameCollisionError and leaves dir in place.
func Finalize(dir string) (string, error) {
	dst := naming.FinishedPath(dir)
	if err := fsx.RenameDir(dir, dst); err != nil {
		return "", err
	}
	return dst, nil
}
