// Package config holds runtime configuration: defaults, CLI flag binding, and
// validation.
//
// A Config is built once per run (DefaultConfig, then flags), validated once,
// and then passed by pointer to every package. Nothing mutates it after
// Validate returns.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// --- Enum types for validated string fields ---

// Format is the output encoding used by the retina processor.
type Format string

const (
	FormatJPEG Format = "jpeg" // Overwrite the source in place (default).
	FormatWebP Format = "webp" // Write a sibling .webp and delete the source.
)

// Mode selects how the root path is interpreted.
type Mode string

const (
	ModeFiles Mode = "files" // The root itself is one photo set.
	ModeDirs  Mode = "dirs"  // Every "00"-marked subdirectory is a photo set.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Fixed names and markers shared by the scanners and processors.
const (
	SheetName     = "contactsheet.jpg"
	BackupDirName = "originals"
	DirMarker     = "00"
	DoneSuffix    = " Mx"
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by the flag binders before being passed (by pointer) to
// packages that need it.
type Config struct {
	// Paths (set from the positional arg; defaults to the working directory).
	Root string
	Mode Mode

	// Contact sheets.
	TileSize     int  // Fixed: 256 px.
	Columns      int  // Sheet width in tiles.
	Caption      bool // Draw the file stem under each tile.
	SkipBroken   bool // Leave a black cell instead of aborting on a bad image.
	SheetQuality int  // Fixed: 75.

	// Retina processing.
	Backup       bool
	Resize       bool    // Default: true. Cleared by --no-resize.
	MaxDimension int     // Default: 4320.
	Format       Format  // Default: "jpeg".
	JPEGQuality  int     // Fixed: 75.
	WebPQuality  int     // Fixed: 80.
	MaxAspect    float64 // Default: 2.25. Taller images (H/W) are skipped.
	MinHeight    int     // Default: 800. Images this tall or shorter are skipped; 0 disables.
	DryRun       bool

	// Decoding and scheduling.
	MaxPixels int64 // Default: 104,000,000. 0 disables the guard.
	Workers   int   // Default: runtime.NumCPU(). 1 processes files sequentially.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
}

// DefaultConfig returns a Config with the standard sheet and retina
// presets: 256 px tiles, 4320 px retina bound, JPEG q75, WebP q80.
func DefaultConfig() Config {
	return Config{
		Root:         ".",
		Mode:         ModeFiles,
		TileSize:     256,
		Columns:      4,
		Caption:      false,
		SkipBroken:   false,
		SheetQuality: 75,
		Backup:       false,
		Resize:       true,
		MaxDimension: 4320,
		Format:       FormatJPEG,
		JPEGQuality:  75,
		WebPQuality:  80,
		MaxAspect:    2.25,
		MinHeight:    800,
		DryRun:       false,
		MaxPixels:    104_000_000,
		Workers:      runtime.NumCPU(),
		Verbose:      false,
		ColorMode:    ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and numeric bounds. It is called once, after
// flag parsing and before any file is touched.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeFiles, ModeDirs:
		// valid
	default:
		return errors.New("invalid mode (use 'files' or 'dirs')")
	}

	switch c.Format {
	case FormatJPEG, FormatWebP:
		// valid
	default:
		return errors.New("invalid format (use 'jpeg' or 'webp')")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Root == "" {
		return errors.New("need a root directory")
	}
	if c.TileSize <= 0 || c.Columns <= 0 {
		return fmt.Errorf("invalid sheet grid %dx%d", c.Columns, c.TileSize)
	}
	if c.MaxDimension <= 0 {
		return fmt.Errorf("max dimension must be positive (got %d)", c.MaxDimension)
	}
	if c.MaxAspect <= 0 {
		return fmt.Errorf("max aspect must be positive (got %g)", c.MaxAspect)
	}
	if c.MinHeight < 0 {
		return fmt.Errorf("min height must not be negative (got %d)", c.MinHeight)
	}
	if c.MaxPixels < 0 {
		return fmt.Errorf("max pixels must not be negative (got %d)", c.MaxPixels)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1 (got %d)", c.Workers)
	}
	return nil
}
