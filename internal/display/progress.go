package display

import (
	"fmt"
	"io"
	"strings"
)

const progressWidth = 80

// Progress is a single \r-overwritten status line. It only draws when tty
// is set; piped and logged output get the per-file log lines instead.
// Progress is not safe for concurrent use; callers serialize updates.
type Progress struct {
	w     io.Writer
	tty   bool
	label string
	drawn bool
}

// NewProgress returns a progress line labelled label ("Probing", "Resizing").
func NewProgress(w io.Writer, tty bool, label string) *Progress {
	return &Progress{w: w, tty: tty, label: label}
}

// Update redraws the line for item current of total.
func (p *Progress) Update(current, total, skipped int, name string) {
	if !p.tty || total <= 0 {
		return
	}
	pct := current * 100 / total
	status := fmt.Sprintf("  %s [%d/%d] %d%% ", p.label, current, total, pct)
	if skipped > 0 {
		status += fmt.Sprintf("(%d skipped) ", skipped)
	}

	maxName := 40
	if r := []rune(name); len(r) > maxName {
		name = string(r[:maxName-1]) + "…"
	}
	status += name

	// Pad to overwrite previous longer lines.
	if n := len([]rune(status)); n < progressWidth {
		status += strings.Repeat(" ", progressWidth-n)
	}
	fmt.Fprintf(p.w, "\r%s", status)
	p.drawn = true
}

// Clear erases the line if anything was drawn. Call it before logging so
// log lines do not land on top of the status.
func (p *Progress) Clear() {
	if !p.drawn {
		return
	}
	fmt.Fprintf(p.w, "\r%s\r", strings.Repeat(" ", progressWidth))
	p.drawn = false
}
