package config

// This file binds CLI flags onto a pflag.FlagSet owned by a cobra command.
// Flags are grouped into global, sheet, retina and analyze sets. Negated and
// mode-switching flags (e.g. --no-resize, --dirs) are captured in Overrides
// and applied after parsing so Config defaults hold unless set.

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// Overrides holds boolean flags that are applied after parsing.
// These either invert a default (noResize -> Resize=false) or switch the mode.
type Overrides struct {
	noResize   bool
	files      bool
	dirs       bool
	forceColor bool
	noColor    bool
}

// BindGlobalFlags registers flags shared by every command: scheduling,
// decoding guard, and display.
func BindGlobalFlags(fs *pflag.FlagSet, cfg *Config, o *Overrides) {
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Files processed in parallel (1 = sequential)")
	fs.Int64Var(&cfg.MaxPixels, "max-pixels", cfg.MaxPixels, "Refuse to decode images larger than this many pixels (0 = no limit)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Verbose output")
	fs.BoolVar(&o.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&o.noColor, "no-color", false, "Disable colored logs")
	fs.StringVarP(&cfg.LogFile, "log", "l", "", "Append logs to file")
}

// BindSheetFlags registers -t/--text, --dirs and --skip-broken.
func BindSheetFlags(fs *pflag.FlagSet, cfg *Config, o *Overrides) {
	fs.BoolVarP(&cfg.Caption, "text", "t", false, "Caption every tile with the file name")
	fs.BoolVar(&o.dirs, "dirs", false, "Build one sheet per \""+DirMarker+"\"-marked subdirectory")
	fs.BoolVar(&cfg.SkipBroken, "skip-broken", false, "Leave a black cell for unreadable images instead of aborting")
}

// BindRetinaFlags registers backup, format, resize, gate thresholds, --files and --dry-run.
func BindRetinaFlags(fs *pflag.FlagSet, cfg *Config, o *Overrides) {
	fs.BoolVarP(&cfg.Backup, "backup", "b", false, "Copy originals into \""+BackupDirName+"\" before processing")
	fs.Var(&formatValue{&cfg.Format}, "format", "Output format: jpeg | webp")
	fs.BoolVar(&o.noResize, "no-resize", false, "Re-encode without downscaling")
	fs.IntVar(&cfg.MaxDimension, "max-size", cfg.MaxDimension, "Longest allowed side in pixels")
	fs.Float64Var(&cfg.MaxAspect, "max-aspect", cfg.MaxAspect, "Skip images whose height/width exceeds this ratio")
	fs.IntVar(&cfg.MinHeight, "min-height", cfg.MinHeight, "Skip images this tall or shorter (0 = off)")
	fs.BoolVar(&o.files, "files", false, "Process the root itself instead of marked subdirectories")
	fs.BoolVarP(&cfg.DryRun, "dry-run", "d", false, "Preview only; do not write, delete or rename")
}

// BindAnalyzeFlags registers --dirs and the gate thresholds used for the report.
func BindAnalyzeFlags(fs *pflag.FlagSet, cfg *Config, o *Overrides) {
	fs.BoolVar(&o.dirs, "dirs", false, "Analyze every \""+DirMarker+"\"-marked subdirectory")
	fs.Float64Var(&cfg.MaxAspect, "max-aspect", cfg.MaxAspect, "Skip threshold for height/width")
	fs.IntVar(&cfg.MinHeight, "min-height", cfg.MinHeight, "Skip threshold for height (0 = off)")
}

// Apply copies negated and mode flag values into cfg.
func (o *Overrides) Apply(cfg *Config) {
	if o.noResize {
		cfg.Resize = false
	}
	if o.dirs {
		cfg.Mode = ModeDirs
	}
	if o.files {
		cfg.Mode = ModeFiles
	}
	if o.noColor {
		cfg.ColorMode = ColorNever
	} else if o.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// SetRoot sets Root from the optional positional arg, defaulting to the
// current working directory.
func SetRoot(cfg *Config, args []string) error {
	switch len(args) {
	case 0:
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("cannot read working directory: %w", err)
		}
		cfg.Root = wd
	case 1:
		cfg.Root = NormalizeDirArg(args[0])
	default:
		return fmt.Errorf("expected at most one directory, got %d", len(args))
	}
	return nil
}

// pflag.Value adapters so we can use enum types with fs.Var.

type formatValue struct{ p *Format }

func (f *formatValue) String() string { return string(*f.p) }
func (f *formatValue) Type() string   { return "format" }
func (f *formatValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "jpeg", "jpg":
		*f.p = FormatJPEG
	case "webp":
		*f.p = FormatWebP
	default:
		return fmt.Errorf("invalid format %q (use 'jpeg' or 'webp')", s)
	}
	return nil
}
