// Package display holds console presentation helpers: the banner, human
// readable sizes and the inline progress line.
package display

import (
	"fmt"
)

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	if exp >= len(suffixes) {
		exp = len(suffixes) - 1
		div = 1
		for i := 0; i <= exp; i++ {
			div *= unit
		}
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}

// FormatBytesWithSign prefixes with + or - for delta display (e.g. "- 1.2 GiB").
func FormatBytesWithSign(bytes int64) string {
	sign := ""
	if bytes > 0 {
		sign = "+ "
	} else if bytes < 0 {
		sign = "- "
		bytes = -bytes
	}
	return sign + FormatBytes(bytes)
}

// FormatRatio returns after as a whole percentage of before ("62%").
// A zero before reads as 100%.
func FormatRatio(before, after int64) string {
	if before <= 0 {
		return "100%"
	}
	return fmt.Sprintf("%d%%", after*100/before)
}

// FormatMegapixels returns the pixel count of a w x h image ("24.2 MP").
func FormatMegapixels(w, h int) string {
	return fmt.Sprintf("%.1f MP", float64(w)*float64(h)/1e6)
}
