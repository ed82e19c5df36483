package sheet

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/backmassage/photoprep/internal/codec"
	"github.com/backmassage/photoprep/internal/naming"
)

// Tile geometry shared by letterboxing and captions.
const (
	BorderWidth = 2
	captionPad  = 2
)

var (
	// BorderColor outlines letterboxed tiles.
	BorderColor = color.NRGBA{R: 128, G: 128, B: 128, A: 255}

	captionFace = basicfont.Face7x13
)

// Tile decodes the photo at path and renders it as one sheet cell.
func Tile(path string, opts Options) (*image.NRGBA, error) {
	img, err := codec.Decode(path, opts.MaxPixels)
	if err != nil {
		return nil, err
	}
	tile := Letterbox(codec.Fit(img, opts.TileSize, opts.TileSize, imaging.Lanczos), opts.TileSize)
	if opts.Caption {
		Caption(tile, naming.Stem(path))
	}
	return tile, nil
}

// Letterbox centers a non-square thumbnail on a size x size black tile and
// outlines the tile in BorderColor. Square thumbnails are returned as they
// are, without a border.
func Letterbox(thumb *image.NRGBA, size int) *image.NRGBA {
	b := thumb.Bounds()
	if b.Dx() == b.Dy() {
		return thumb
	}

	tile := imaging.PasteCenter(imaging.New(size, size, color.Black), thumb)
	border := image.NewUniform(BorderColor)
	for _, r := range []image.Rectangle{
		image.Rect(0, 0, size, BorderWidth),
		image.Rect(0, size-BorderWidth, size, size),
		image.Rect(0, 0, BorderWidth, size),
		image.Rect(size-BorderWidth, 0, size, size),
	} {
		xdraw.Draw(tile, r, border, image.Point{}, xdraw.Src)
	}
	return tile
}

// Caption draws text in white on a black strip along the bottom of tile,
// inside the border. Text wider than the strip is clipped. Tiles too small
// to hold a line of text are left alone.
func Caption(tile *image.NRGBA, text string) {
	b := tile.Bounds()
	m := captionFace.Metrics()
	lineHeight := m.Height.Ceil()

	strip := image.Rect(
		b.Min.X+BorderWidth, b.Max.Y-BorderWidth-lineHeight,
		b.Max.X-BorderWidth, b.Max.Y-BorderWidth,
	)
	if b.Dx() <= 2*BorderWidth || b.Dy() < lineHeight+2*BorderWidth {
		return
	}
	xdraw.Draw(tile, strip, image.Black, image.Point{}, xdraw.Src)

	d := font.Drawer{
		Dst:  tile.SubImage(strip).(*image.NRGBA),
		Src:  image.White,
		Face: captionFace,
		Dot:  fixed.P(strip.Min.X+captionPad, strip.Min.Y+m.Ascent.Ceil()),
	}
	d.DrawString(text)
}
