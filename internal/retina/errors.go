package retina

import (
	"errors"
	"fmt"
)

// BackupWriteError reports that the original could not be copied into the
// backup directory. The photo is left untouched.
type BackupWriteError struct {
	Path   string
	Backup string
	Err    error
}

func (e *BackupWriteError) Error() string {
	return fmt.Sprintf("backup %q to %q: %v", e.Path, e.Backup, e.Err)
}

func (e *BackupWriteError) Unwrap() error { return e.Err }

// IsBackupWrite reports whether err is (or wraps) a BackupWriteError.
func IsBackupWrite(err error) bool {
	var e *BackupWriteError
	return errors.As(err, &e)
}
