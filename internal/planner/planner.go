// Package planner turns a probed image into a retina Task: the gate
// decision (process or skip), the backup location, whether to downscale,
// and where and how to encode.
package planner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/backmassage/photoprep/internal/codec"
	"github.com/backmassage/photoprep/internal/config"
	"github.com/backmassage/photoprep/internal/probe"
)

// BuildTask is the decision matrix the retina processor runs for every file.
//
// Flow:
//  1. Gate: stretched (H/W above MaxAspect) or too short (H <= MinHeight) → skip
//  2. Backup path (when enabled) under <dir>/originals/<base>
//  3. Resize decision and target size (never upscale)
//  4. Output format, quality and path
func BuildTask(cfg *config.Config, info probe.Info) *Task {
	task := &Task{Info: info}

	// --- 1. Gate ---
	if reason := SkipReason(cfg, info); reason != "" {
		task.Action = ActionSkip
		task.SkipReason = reason
		return task
	}
	task.Action = ActionProcess

	// --- 2. Backup ---
	dir := filepath.Dir(info.Path)
	if cfg.Backup {
		task.BackupPath = filepath.Join(dir, config.BackupDirName, filepath.Base(info.Path))
	}

	// --- 3. Resize ---
	task.MaxDimension = cfg.MaxDimension
	task.TargetWidth, task.TargetHeight = info.Width, info.Height
	if cfg.Resize && info.LongSide() > cfg.MaxDimension {
		task.Resize = true
		task.TargetWidth, task.TargetHeight = FitSize(info.Width, info.Height, cfg.MaxDimension)
	}

	// --- 4. Encoding ---
	switch cfg.Format {
	case config.FormatWebP:
		task.Format = codec.WebP
		task.Quality = cfg.WebPQuality
		base := filepath.Base(info.Path)
		task.OutputPath = filepath.Join(dir, strings.TrimSuffix(base, filepath.Ext(base))+codec.WebP.Ext())
		task.RemoveSource = task.OutputPath != info.Path
	default:
		task.Format = codec.JPEG
		task.Quality = cfg.JPEGQuality
		task.OutputPath = info.Path
	}
	return task
}

// SkipReason returns why the gate rejects info, or "" when it passes.
func SkipReason(cfg *config.Config, info probe.Info) string {
	if info.Aspect() > cfg.MaxAspect {
		return fmt.Sprintf("stretched (H/W %.2f > %.2f)", info.Aspect(), cfg.MaxAspect)
	}
	if cfg.MinHeight > 0 && info.Height <= cfg.MinHeight {
		return fmt.Sprintf("too small (height %d <= %d)", info.Height, cfg.MinHeight)
	}
	return ""
}

// FitSize returns the dimensions of a w x h image scaled down to fit a
// limit x limit box. The short side is truncated, as imaging.Fit does.
func FitSize(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	aspect := float64(w) / float64(h)
	if aspect > 1 {
		return limit, max(1, int(float64(limit)/aspect))
	}
	return max(1, int(float64(limit)*aspect)), limit
}
