package scan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// --- Filter tests ---

func TestEligible(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		ignore []string
		want   bool
	}{
		{"plain photo sheet mode", "IMG_001.jpg", IgnoreSheet, true},
		{"plain photo retina mode", "IMG_001.jpg", IgnoreRetina, true},
		{"cover sheet mode", "Front Cover.jpg", IgnoreSheet, false},
		{"cover retina mode", "Front Cover.jpg", IgnoreRetina, false},
		{"poster uppercase", "POSTER-final.JPG", IgnoreSheet, false},
		{"contactsheet only in retina", "contactsheet.jpg", IgnoreSheet, true},
		{"contactsheet retina", "contactsheet.jpg", IgnoreRetina, false},
		{"originals retina", "originals-01.jpg", IgnoreRetina, false},
		{"keyword inside word", "discover.jpg", IgnoreSheet, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Eligible(tt.file, tt.ignore); got != tt.want {
				t.Errorf("Eligible(%q) = %v, want %v", tt.file, got, tt.want)
			}
		})
	}
}

func TestHasPhotoExt(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/shoot/IMG_001.jpg", true},
		{"/shoot/IMG_001.JPG", true},
		{"/shoot/IMG_001.jpeg", true},
		{"/shoot/IMG_001.Jpeg", true},
		{"/shoot/IMG_001.png", false},
		{"/shoot/IMG_001.jpg.txt", false},
		{"/shoot/IMG_001.webp", false},
		// Historical looseness: no dot required before the suffix.
		{"/shoot/framejpg", true},
		// Suffix only, never a substring elsewhere in the path.
		{"/shoot/jpeg-exports/notes.txt", false},
	}
	for _, tt := range tests {
		if got := HasPhotoExt(tt.path); got != tt.want {
			t.Errorf("HasPhotoExt(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIsMarked(t *testing.T) {
	if !IsMarked("00Spring Trip") {
		t.Error("00Spring Trip should be marked")
	}
	for _, name := range []string{"0Spring", "Spring 00", "Spring Trip Mx", ""} {
		if IsMarked(name) {
			t.Errorf("%q should not be marked", name)
		}
	}
}

// --- Scanner tests ---

func TestPhotos_FiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"IMG_010.jpg", "IMG_002.JPG", "Front Cover.jpg", "poster.jpeg", "notes.txt", "b.jpeg", "A.jpg"} {
		touch(t, dir, name)
	}
	if err := os.Mkdir(filepath.Join(dir, "subjpg"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := Photos(dir, IgnoreSheet)
	if err != nil {
		t.Fatalf("Photos: %v", err)
	}

	want := []string{"A.jpg", "IMG_002.JPG", "IMG_010.jpg", "b.jpeg"}
	got := basenames(files)
	if !sliceEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPhotos_RetinaIgnoresSheetAndBackups(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"IMG_001.jpg", "contactsheet.jpg", "cover-clean.jpg"} {
		touch(t, dir, name)
	}
	os.MkdirAll(filepath.Join(dir, "originals"), 0o755)
	touch(t, filepath.Join(dir, "originals"), "IMG_001.jpg")

	files, err := Photos(dir, IgnoreRetina)
	if err != nil {
		t.Fatalf("Photos: %v", err)
	}
	if got := basenames(files); !sliceEqual(got, []string{"IMG_001.jpg"}) {
		t.Errorf("got %v, want [IMG_001.jpg]", got)
	}
}

func TestPhotos_EmptyDir(t *testing.T) {
	files, err := Photos(t.TempDir(), IgnoreSheet)
	if err != nil {
		t.Fatalf("Photos: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("got %d files, want 0", len(files))
	}
}

func TestPhotos_MissingRoot(t *testing.T) {
	_, err := Photos(filepath.Join(t.TempDir(), "gone"), IgnoreSheet)
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %T %v", err, err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("NotFoundError should unwrap to fs.ErrNotExist: %v", err)
	}
}

func TestMarkedDirs(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"00Zoo", "00Beach", "Archive", "0Single", "Done Mx"} {
		if err := os.Mkdir(filepath.Join(root, name), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	touch(t, root, "00file.jpg")

	dirs, err := MarkedDirs(root)
	if err != nil {
		t.Fatalf("MarkedDirs: %v", err)
	}
	if got := basenames(dirs); !sliceEqual(got, []string{"00Beach", "00Zoo"}) {
		t.Errorf("got %v, want [00Beach 00Zoo]", got)
	}
}

func TestMarkedDirs_MissingRoot(t *testing.T) {
	if _, err := MarkedDirs(filepath.Join(t.TempDir(), "gone")); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %T %v", err, err)
	}
}

// --- Helpers ---

func touch(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte{}, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
