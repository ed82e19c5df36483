// Package scan enumerates photo sets: the eligible JPEG files of one
// directory, or the marked subdirectories of a root. Every listing is
// sorted explicitly, since directory enumeration order differs across
// platforms.
package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// NotFoundError reports a missing root. It is fatal: the run stops before
// any work starts.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// Photos lists the immediate regular-file children of dir that look like
// JPEGs and pass the ignore filter, sorted by path. An empty result is not
// an error.
func Photos(dir string, ignore []string) ([]string, error) {
	entries, err := readDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if !isRegular(path, e) {
			continue
		}
		if !HasPhotoExt(path) || !Eligible(e.Name(), ignore) {
			continue
		}
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// MarkedDirs lists the immediate subdirectories of root whose name starts
// with the batch marker, sorted by path.
func MarkedDirs(root string) ([]string, error) {
	entries, err := readDir(root)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() && IsMarked(e.Name()) {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

func readDir(dir string) ([]os.DirEntry, error) {
	dir = filepath.Clean(dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: dir, Err: err}
		}
		return nil, err
	}
	return entries, nil
}

// isRegular accepts regular files and symlinks that resolve to one.
func isRegular(path string, e os.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
