// Package fsx provides the filesystem primitives the processors rely on:
// atomic replace-writes, byte-for-byte copies and collision-checked
// directory renames.
package fsx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// Swappable so tests can simulate rename failures.
var renameFunc = os.Rename

// RenameCollisionError reports that a rename target already exists.
// Callers treat it as non-fatal.
type RenameCollisionError struct {
	Src string
	Dst string
}

func (e *RenameCollisionError) Error() string {
	return fmt.Sprintf("cannot rename %q: %q already exists", e.Src, e.Dst)
}

// IsRenameCollision reports whether err is a RenameCollisionError.
func IsRenameCollision(err error) bool {
	var e *RenameCollisionError
	return errors.As(err, &e)
}

// CrossDeviceError marks an EXDEV rename failure. We never fall back to
// copy+delete.
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("cross-device rename %q -> %q: %v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// IsCrossDevice reports whether err is a CrossDeviceError.
func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// Rename wraps os.Rename and tags EXDEV failures as CrossDeviceError.
func Rename(src, dst string) error {
	if err := renameFunc(src, dst); err != nil {
		if isEXDEV(err) {
			return &CrossDeviceError{Src: src, Dst: dst, Err: err}
		}
		return err
	}
	return nil
}

// RenameDir renames directory src to dst, refusing to touch an existing dst.
// POSIX rename silently replaces an empty target directory, so the
// existence check cannot be left to the kernel.
func RenameDir(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return &RenameCollisionError{Src: src, Dst: dst}
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := Rename(src, dst); err != nil {
		if errors.Is(err, os.ErrExist) {
			return &RenameCollisionError{Src: src, Dst: dst}
		}
		return err
	}
	return nil
}

// WriteFileAtomic writes data to dir/name through a temp file in the same
// directory and renames it into place, replacing any existing file. A
// failed write leaves the previous file untouched.
func WriteFileAtomic(dir, name string, data []byte) error {
	return writeAtomic(dir, name, 0o644, func(w io.Writer) error {
		return writeAll(w, data)
	})
}

// CopyFile copies src byte-for-byte to dst (atomically, replacing dst) and
// keeps the source's permission bits.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return err
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("copy %q: not a regular file", src)
	}

	return writeAtomic(filepath.Dir(dst), filepath.Base(dst), fi.Mode().Perm(), func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}

func writeAtomic(dir, name string, perm os.FileMode, fill func(io.Writer) error) error {
	dst := filepath.Join(dir, name)

	// Dot-prefixed so a half-written temp never looks like a photo.
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if err := fill(tmp); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := Rename(tmpName, dst); err != nil {
		return err
	}

	_ = syncDirBestEffort(dir)
	return nil
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

func syncDirBestEffort(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
