package display

import (
	"io"

	"github.com/backmassage/photoprep/internal/term"
)

const banner = `       _           _
 _ __ | |__   ___ | |_ ___  _ __  _ __ ___ _ __
| '_ \| '_ \ / _ \| __/ _ \| '_ \| '__/ _ \ '_ \
| |_) | | | | (_) | || (_) | |_) | | |  __/ |_) |
| .__/|_| |_|\___/ \__\___/| .__/|_|  \___| .__/
|_|                        |_|            |_|
`

// PrintBanner writes the ASCII art banner to w in magenta when colors
// are enabled.
func PrintBanner(w io.Writer) {
	_, _ = term.Magenta.Fprint(w, banner)
}
