package sheet

import "image"

// DefaultColumns is the sheet width, in tiles, used when Options leaves
// Columns unset.
const DefaultColumns = 4

// Position returns the top-left pixel of tile index on a sheet cols tiles
// wide whose tiles are size x size. Tiles fill rows left to right, top to
// bottom.
func Position(index, cols, size int) image.Point {
	return image.Pt((index%cols)*size, (index/cols)*size)
}

// CanvasSize returns the pixel dimensions of a sheet cols tiles wide holding
// count tiles. The last row is always allocated in full.
func CanvasSize(count, cols, size int) image.Point {
	rows := (count + cols - 1) / cols
	return image.Pt(cols*size, rows*size)
}
