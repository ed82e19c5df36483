package pipeline

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/backmassage/photoprep/internal/config"
	"github.com/backmassage/photoprep/internal/display"
	"github.com/backmassage/photoprep/internal/logging"
	"github.com/backmassage/photoprep/internal/planner"
	"github.com/backmassage/photoprep/internal/probe"
	"github.com/backmassage/photoprep/internal/scan"
	"github.com/backmassage/photoprep/internal/term"
)

// fileRow holds the probed per-file data for the analysis table.
type fileRow struct {
	Name     string
	Width    int
	Height   int
	Aspect   float64
	Size     int64
	Density  float64 // KiB per megapixel
	Decision string
	Reason   string
}

// Analyze probes every retina candidate under the configured root and
// prints a table of dimensions, aspect ratio, size and the gate decision.
// Nothing is written. Compression density (KiB per megapixel) is checked
// for statistical outliers, which usually mark photos that were already
// re-encoded or exported at an unusual quality.
func Analyze(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	var stats RunStats

	dirs, err := targetDirs(cfg)
	if err != nil {
		log.Error("%v", err)
		stats.Err = err
		return stats
	}
	stats.Dirs = len(dirs)

	var files []string
	for _, dir := range dirs {
		paths, err := scan.Photos(dir, scan.IgnoreRetina)
		if err != nil {
			log.Error("%v", err)
			stats.Failed++
			continue
		}
		files = append(files, paths...)
	}
	if len(files) == 0 {
		log.Warn("No photos found in %s", cfg.Root)
		return stats
	}

	total := len(files)
	stats.Files = total
	log.Info("Analyzing %d photos in %s …", total, cfg.Root)
	fmt.Fprintln(stdout)

	progress := display.NewProgress(stdout, isTTY(), "Probing")
	var rows []fileRow
	var densities []float64

	for i, path := range files {
		if ctx.Err() != nil {
			progress.Clear()
			log.Warn("Interrupted")
			stats.Interrupted = true
			return stats
		}

		progress.Update(i+1, total, stats.Failed, filepath.Base(path))

		info, err := probe.Probe(path)
		if err != nil {
			stats.Failed++
			progress.Clear()
			log.Warn("Skip (probe failed): %s", filepath.Base(path))
			continue
		}

		row := newRow(cfg, info)
		if rel, err := filepath.Rel(cfg.Root, path); err == nil {
			row.Name = rel
		}
		rows = append(rows, row)
		if row.Density > 0 {
			densities = append(densities, row.Density)
		}
		if row.Decision == planner.ActionSkip.String() {
			stats.Skipped++
		} else {
			stats.Processed++
		}
		stats.TotalInputBytes += info.Size
	}
	progress.Clear()

	if len(rows) == 0 {
		log.Warn("No photos could be probed")
		return stats
	}

	dStats := computeStats(densities)
	printAnalysisTable(rows, dStats)
	printAnalysisSummary(log, rows, dStats)
	return stats
}

func newRow(cfg *config.Config, info probe.Info) fileRow {
	row := fileRow{
		Name:     filepath.Base(info.Path),
		Width:    info.Width,
		Height:   info.Height,
		Aspect:   info.Aspect(),
		Size:     info.Size,
		Decision: planner.ActionProcess.String(),
	}
	if mp := float64(info.Width) * float64(info.Height) / 1e6; mp > 0 {
		row.Density = float64(info.Size) / 1024 / mp
	}
	if reason := planner.SkipReason(cfg, info); reason != "" {
		row.Decision = planner.ActionSkip.String()
		row.Reason = reason
	} else if cfg.Resize && info.LongSide() > cfg.MaxDimension {
		w, h := planner.FitSize(info.Width, info.Height, cfg.MaxDimension)
		row.Decision = "resize"
		row.Reason = fmt.Sprintf("-> %dx%d", w, h)
	}
	return row
}

// iqrBounds holds the IQR-based thresholds for outlier classification.
type iqrBounds struct {
	q1, q3    float64
	outlierLo float64 // Q1 - 1.5*IQR
	outlierHi float64 // Q3 + 1.5*IQR
	extremeLo float64 // Q1 - 3.0*IQR
	extremeHi float64 // Q3 + 3.0*IQR
	valid     bool
}

func computeStats(vals []float64) iqrBounds {
	if len(vals) < 4 {
		return iqrBounds{}
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	q1 := percentile(sorted, 25)
	q3 := percentile(sorted, 75)
	iqr := q3 - q1

	return iqrBounds{
		q1:        q1,
		q3:        q3,
		outlierLo: q1 - 1.5*iqr,
		outlierHi: q3 + 1.5*iqr,
		extremeLo: q1 - 3.0*iqr,
		extremeHi: q3 + 3.0*iqr,
		valid:     iqr > 0,
	}
}

// classify returns "" (normal), "outlier", or "extreme" for a value.
func (b *iqrBounds) classify(v float64) string {
	if !b.valid || v <= 0 {
		return ""
	}
	if v < b.extremeLo || v > b.extremeHi {
		return "extreme"
	}
	if v < b.outlierLo || v > b.outlierHi {
		return "outlier"
	}
	return ""
}

func printAnalysisTable(rows []fileRow, dStats iqrBounds) {
	nameW := len("File")
	resW := len("Resolution")
	sizeW := len("Size")
	densW := len("KiB/MP")
	decW := len("Decision")

	for _, r := range rows {
		nameW = max(nameW, len([]rune(r.Name)))
		resW = max(resW, len(fmtResolution(r)))
		sizeW = max(sizeW, len(display.FormatBytes(r.Size)))
		densW = max(densW, len(fmtDensity(r.Density)))
		decW = max(decW, len(r.Decision))
	}
	nameW = min(nameW, 50)

	header := fmt.Sprintf("  %-*s  %-*s  %5s  %-*s  %-*s  %-*s",
		nameW, "File",
		resW, "Resolution",
		"H/W",
		sizeW, "Size",
		densW, "KiB/MP",
		decW, "Decision",
	)
	separator := "  " + strings.Repeat("─", len(header)-2)

	fmt.Fprintln(stdout, header)
	fmt.Fprintln(stdout, separator)

	for _, r := range rows {
		name := r.Name
		if rn := []rune(name); len(rn) > nameW {
			name = string(rn[:nameW-1]) + "…"
		}

		class := dStats.classify(r.Density)

		// Pad the plain text first, then wrap in color so escape bytes do
		// not count toward the column width.
		densCell := colorPad(fmtDensity(r.Density), densW, class)
		decCell := decisionPad(r.Decision, decW)

		line := fmt.Sprintf("  %-*s  %-*s  %5.2f  %-*s  %s  %s",
			nameW, name,
			resW, fmtResolution(r),
			r.Aspect,
			sizeW, display.FormatBytes(r.Size),
			densCell,
			decCell,
		)
		if r.Reason != "" {
			line += "  " + r.Reason
		}
		if flag := formatFlag(class); flag != "" {
			line += "  " + flag
		}
		fmt.Fprintln(stdout, line)
	}
	fmt.Fprintln(stdout)
}

func printAnalysisSummary(log *logging.Logger, rows []fileRow, dStats iqrBounds) {
	var outliers, extremes, skips, resizes int
	for _, r := range rows {
		switch dStats.classify(r.Density) {
		case "extreme":
			extremes++
		case "outlier":
			outliers++
		}
		switch r.Decision {
		case planner.ActionSkip.String():
			skips++
		case "resize":
			resizes++
		}
	}

	log.Info("Analyzed %d photos: %d to resize, %d to re-encode, %d skipped by the gate",
		len(rows), resizes, len(rows)-resizes-skips, skips)
	if dStats.valid {
		log.Info("  Density IQR: %.0f – %.0f KiB/MP (outlier < %.0f or > %.0f)",
			dStats.q1, dStats.q3, dStats.outlierLo, dStats.outlierHi)
	}
	if outliers > 0 {
		log.Outlier("  %d outlier(s) flagged [*]", outliers)
	}
	if extremes > 0 {
		log.Error("  %d extreme outlier(s) flagged [!]", extremes)
	}
	if outliers == 0 && extremes == 0 {
		log.Success("  No outliers detected")
	}
}

func fmtResolution(r fileRow) string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

func fmtDensity(v float64) string {
	if v <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.0f", v)
}

func formatFlag(class string) string {
	switch class {
	case "extreme":
		return term.Red.Sprint("[!]")
	case "outlier":
		return term.Orange.Sprint("[*]")
	default:
		return ""
	}
}

// colorPad pads a plain string to width, then wraps it in the class color.
func colorPad(s string, width int, class string) string {
	padded := fmt.Sprintf("%-*s", width, s)
	switch class {
	case "extreme":
		return term.Red.Sprint(padded)
	case "outlier":
		return term.Orange.Sprint(padded)
	default:
		return padded
	}
}

func decisionPad(decision string, width int) string {
	padded := fmt.Sprintf("%-*s", width, decision)
	var c *color.Color
	switch decision {
	case planner.ActionSkip.String():
		c = term.Magenta
	case "resize":
		c = term.Cyan
	default:
		return padded
	}
	return c.Sprint(padded)
}

// percentile computes the p-th percentile using linear interpolation.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p / 100) * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi || hi >= len(sorted) {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
