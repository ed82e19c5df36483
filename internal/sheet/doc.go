// Package sheet builds contact sheets: a four-column grid of 256 px
// thumbnails of every photo in a directory, written as contactsheet.jpg.
//
// Each photo is decoded, shrunk with a Lanczos filter (never enlarged),
// letterboxed onto a black square with a gray border when it is not
// already square, and optionally captioned with its file name. Tiles are
// pasted in scan order, so the last row may end in black cells.
package sheet
