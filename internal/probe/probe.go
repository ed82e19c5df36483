// Package probe reads image headers without decoding pixels. It is the
// cheap first step for every candidate file: the retina gate and the
// analyze report only need dimensions and size.
//
// Dimensions are reported as displayed. codec.Decode applies the EXIF
// orientation, so a photo stored sideways is gated and resized on the same
// axes it is decoded on.
package probe

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/backmassage/photoprep/internal/codec"
)

// exifScanLimit bounds how far into a file the APP1 search reads. A JPEG
// without EXIF would otherwise be scanned to the end.
const exifScanLimit = 256 << 10

// Info is the header-level view of one image file.
type Info struct {
	Path        string
	Width       int
	Height      int
	Orientation int   // EXIF orientation, 1 when absent
	Size        int64 // bytes on disk
}

// Probe opens path and reads only the image header. Unreadable or
// non-image files yield a *codec.DecodeError.
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, &codec.DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return Info{}, &codec.DecodeError{Path: path, Err: err}
	}

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Info{}, &codec.DecodeError{Path: path, Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Info{}, &codec.DecodeError{Path: path, Err: fmt.Errorf("invalid size %dx%d", cfg.Width, cfg.Height)}
	}

	info := Info{Path: path, Width: cfg.Width, Height: cfg.Height, Orientation: 1, Size: fi.Size()}
	if _, err := f.Seek(0, io.SeekStart); err == nil {
		info.Orientation = orientation(f)
	}
	// Orientations 5-8 transpose the stored raster.
	if info.Orientation >= 5 {
		info.Width, info.Height = info.Height, info.Width
	}
	return info, nil
}

// orientation returns the EXIF orientation tag of the image in r, or 1 when
// it has none or the tag is malformed.
func orientation(r io.Reader) int {
	x, _ := exif.Decode(io.LimitReader(r, exifScanLimit))
	if x == nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil || tag.Count == 0 {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil || o < 1 || o > 8 {
		return 1
	}
	return o
}

// Aspect returns height divided by width.
func (i Info) Aspect() float64 {
	if i.Width == 0 {
		return 0
	}
	return float64(i.Height) / float64(i.Width)
}

// LongSide returns the larger of width and height.
func (i Info) LongSide() int {
	return max(i.Width, i.Height)
}

// Resolution returns "WxH", or "unknown" for a zero Info.
func (i Info) Resolution() string {
	if i.Width <= 0 || i.Height <= 0 {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", i.Width, i.Height)
}
