package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/backmassage/photoprep/internal/config"
	"github.com/backmassage/photoprep/internal/display"
	"github.com/backmassage/photoprep/internal/fsx"
	"github.com/backmassage/photoprep/internal/logging"
	"github.com/backmassage/photoprep/internal/naming"
	"github.com/backmassage/photoprep/internal/retina"
	"github.com/backmassage/photoprep/internal/scan"
	"github.com/backmassage/photoprep/internal/sheet"
	"github.com/backmassage/photoprep/internal/term"
)

// Console sink for tables and the progress line. Swapped by tests.
var (
	stdout io.Writer = os.Stdout
	isTTY            = func() bool { return term.IsTerminal(os.Stdout) }
)

// targetDirs resolves the directories a run covers: the root itself in
// files mode, or its marked subdirectories in dirs mode.
func targetDirs(cfg *config.Config) ([]string, error) {
	if cfg.Mode == config.ModeDirs {
		return scan.MarkedDirs(cfg.Root)
	}
	fi, err := os.Stat(cfg.Root)
	if err != nil {
		return nil, &scan.NotFoundError{Path: cfg.Root, Err: err}
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", cfg.Root)
	}
	return []string{cfg.Root}, nil
}

// announce prints the per-directory header.
func announce(cfg *config.Config, log *logging.Logger, k, total int, dir string) {
	if cfg.Mode == config.ModeDirs {
		log.Info("%d/%d: %s", k, total, filepath.Base(dir))
		return
	}
	log.Info("Directory: %s", dir)
}

// RunSheets writes one contact sheet per directory.
func RunSheets(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	var stats RunStats

	dirs, err := targetDirs(cfg)
	if err != nil {
		log.Error("%v", err)
		stats.Err = err
		return stats
	}
	stats.Dirs = len(dirs)
	if len(dirs) == 0 {
		log.Warn("No marked directories in %s", cfg.Root)
	}

	for k, dir := range dirs {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			stats.Interrupted = true
			break
		}
		announce(cfg, log, k+1, len(dirs), dir)
		buildSheet(ctx, cfg, log, dir, &stats)
	}
	if ctx.Err() != nil {
		stats.Interrupted = true
	}

	logSummary(cfg, log, &stats)
	return stats
}

// buildSheet handles one directory: scan → build → write.
func buildSheet(ctx context.Context, cfg *config.Config, log *logging.Logger, dir string, stats *RunStats) {
	paths, err := scan.Photos(dir, scan.IgnoreSheet)
	if err != nil {
		log.Error("%v", err)
		stats.Failed++
		return
	}
	if len(paths) == 0 {
		log.Warn("No photos in %s, no sheet written", dir)
		return
	}
	stats.Files += len(paths)

	if cfg.DryRun {
		log.Success("[DRY] Would write %s (%d photos)", filepath.Join(dir, config.SheetName), len(paths))
		stats.Processed += len(paths)
		return
	}

	progress := display.NewProgress(stdout, isTTY(), "Thumbnailing")
	skipped := 0
	opts := sheet.OptionsFromConfig(cfg)
	opts.Progress = func(done, total int, path string, err error) {
		if err != nil {
			skipped++
			progress.Clear()
			log.Skip("%s: %v (cell left black)", filepath.Base(path), err)
		}
		progress.Update(done, total, skipped, filepath.Base(path))
	}

	img, err := sheet.Build(ctx, paths, opts)
	progress.Clear()
	if err != nil {
		if ctx.Err() != nil {
			log.Warn("Interrupted, no sheet written for %s", dir)
			stats.Interrupted = true
			return
		}
		log.Error("Sheet aborted: %v", err)
		stats.Failed++
		return
	}

	n, err := sheet.Write(dir, img, cfg.SheetQuality)
	if err != nil {
		log.Error("%v", err)
		stats.Failed++
		return
	}
	stats.Sheets++
	stats.Processed += len(paths) - skipped
	stats.Skipped += skipped
	b := img.Bounds()
	log.Success("Wrote %s (%d photos, %dx%d, %s)", config.SheetName, len(paths)-skipped, b.Dx(), b.Dy(), display.FormatBytes(int64(n)))
}

// RunRetina normalizes every photo in each directory and, in dirs mode,
// renames directories whose files all finished.
func RunRetina(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	var stats RunStats

	dirs, err := targetDirs(cfg)
	if err != nil {
		log.Error("%v", err)
		stats.Err = err
		return stats
	}
	stats.Dirs = len(dirs)
	if len(dirs) == 0 {
		log.Warn("No marked directories in %s", cfg.Root)
	}
	if cfg.DryRun {
		log.Warn("DRY RUN, no files will be written")
	}

	for k, dir := range dirs {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			stats.Interrupted = true
			break
		}
		announce(cfg, log, k+1, len(dirs), dir)
		processRetinaDir(ctx, cfg, log, dir, &stats)
	}
	if ctx.Err() != nil {
		stats.Interrupted = true
	}

	logSummary(cfg, log, &stats)
	return stats
}

// processRetinaDir handles one directory: process → tally → finalize.
func processRetinaDir(ctx context.Context, cfg *config.Config, log *logging.Logger, dir string, stats *RunStats) {
	progress := display.NewProgress(stdout, isTTY(), "Resizing")
	skipped := 0
	observe := func(done, total int, r retina.Result) {
		name := filepath.Base(r.Path)
		switch {
		case r.Err != nil:
			progress.Clear()
			log.Error("%s: %v", name, r.Err)
		case r.Skipped:
			skipped++
			progress.Clear()
			log.Skip("%s: %s", name, r.Reason)
		case r.DryRun:
			progress.Clear()
			logDryRun(log, r)
		default:
			log.Debug(cfg.Verbose, "%s -> %s (%s of original)", name, filepath.Base(r.Output), display.FormatRatio(r.BytesBefore, r.BytesAfter))
		}
		progress.Update(done, total, skipped, name)
	}

	res := retina.ProcessDir(ctx, dir, cfg, observe)
	progress.Clear()

	stats.Files += len(res.Results)
	stats.Processed += res.Processed
	stats.Skipped += res.Skipped
	stats.Failed += res.Failed
	stats.TotalInputBytes += res.BytesBefore
	stats.TotalOutputBytes += res.BytesAfter

	if len(res.Results) == 0 && res.Err == nil {
		log.Warn("No photos in %s", dir)
	}
	if res.Err != nil {
		if ctx.Err() != nil {
			log.Warn("Interrupted, %s left as is", filepath.Base(dir))
			stats.Interrupted = true
			return
		}
		log.Error("%v", res.Err)
		if res.Failed == 0 {
			stats.Failed++
		}
		return
	}
	if res.Processed > 0 && !cfg.DryRun {
		log.Success("%d processed, %d skipped (%s of original)", res.Processed, res.Skipped, display.FormatRatio(res.BytesBefore, res.BytesAfter))
	}

	if cfg.Mode != config.ModeDirs {
		return
	}
	finalizeDir(cfg, log, dir, &res, stats)
}

// finalizeDir renames a marked directory once every file in it is done.
// A collision is logged and the run continues.
func finalizeDir(cfg *config.Config, log *logging.Logger, dir string, res *retina.DirResult, stats *RunStats) {
	if !res.Clean() {
		log.Warn("Not renaming %s: %d file(s) failed", filepath.Base(dir), res.Failed)
		return
	}
	if cfg.DryRun {
		log.Success("[DRY] Would rename %s -> %s", filepath.Base(dir), naming.FinishedName(filepath.Base(dir)))
		return
	}

	dst, err := retina.Finalize(dir)
	if err != nil {
		stats.RenameFailed++
		log.Warn("Unable to rename dir: %s", renameFailure(dir, err))
		return
	}
	stats.Renamed++
	log.Success("Renamed -> %s", filepath.Base(dst))
}

// renameFailure describes why a finished folder kept its name.
func renameFailure(dir string, err error) string {
	switch {
	case fsx.IsRenameCollision(err):
		return filepath.Base(naming.FinishedPath(dir)) + " already exists"
	case fsx.IsCrossDevice(err):
		// overlayfs refuses in-place renames of lower-layer directories.
		return filepath.Base(dir) + " cannot be renamed across devices, rename it by hand"
	default:
		return err.Error()
	}
}

func logDryRun(log *logging.Logger, r retina.Result) {
	t := r.Task
	name := filepath.Base(r.Path)
	action := "re-encode"
	if t.Resize {
		action = fmt.Sprintf("resize %dx%d -> %dx%d and re-encode", t.Info.Width, t.Info.Height, t.TargetWidth, t.TargetHeight)
	}
	if t.RemoveSource {
		log.Success("[DRY] Would %s %s as %s", action, name, filepath.Base(t.OutputPath))
	} else {
		log.Success("[DRY] Would %s %s", action, name)
	}
	if t.BackupPath != "" {
		log.Info("  backup -> %s", filepath.Join(config.BackupDirName, filepath.Base(t.BackupPath)))
	}
}

// --- Summary ---

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d processed, %d skipped, %d failed", stats.Processed, stats.Skipped, stats.Failed)
	log.Info("Summary report:")
	log.Info("  Directories: %d", stats.Dirs)
	log.Info("  Photos scanned: %d", stats.Files)
	if stats.Sheets > 0 {
		log.Info("  Contact sheets written: %d", stats.Sheets)
	}
	if stats.Renamed > 0 || stats.RenameFailed > 0 {
		log.Info("  Directories renamed: %d (%d not renamed)", stats.Renamed, stats.RenameFailed)
	}

	if stats.TotalInputBytes > 0 {
		if cfg.DryRun {
			log.Info("  Total space saved: n/a (dry run)")
		} else if saved := stats.SpaceSaved(); saved >= 0 {
			log.Success("  Total space saved: %s (input %s -> output %s)",
				display.FormatBytes(saved),
				display.FormatBytes(stats.TotalInputBytes),
				display.FormatBytes(stats.TotalOutputBytes))
		} else {
			log.Warn("  Total space saved: -%s (overall output is larger)",
				display.FormatBytes(-saved))
		}
	}
	log.Info("Done.")
}
