package codec

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register the WebP decoder with image.Decode
)

// Format identifies an encoder.
type Format int

const (
	JPEG Format = iota
	WebP
)

// Ext returns the file extension (with dot) written for f.
func (f Format) Ext() string {
	if f == WebP {
		return ".webp"
	}
	return ".jpg"
}

// Decode reads the image at path. When maxPixels is positive, the header is
// checked first and images larger than maxPixels are refused before any
// pixel buffer is allocated. EXIF orientation is applied so re-encoded
// output (which drops EXIF) keeps the intended rotation.
func Decode(path string, maxPixels int64) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	defer f.Close()

	if maxPixels > 0 {
		cfg, _, err := image.DecodeConfig(f)
		if err != nil {
			return nil, &DecodeError{Path: path, Err: err}
		}
		if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
			return nil, &DecodeError{Path: path, Err: &PixelLimitError{Width: cfg.Width, Height: cfg.Height, Limit: maxPixels}}
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, &DecodeError{Path: path, Err: err}
		}
	}

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return img, nil
}

// Fit scales img down so that it fits within maxW x maxH, preserving the
// aspect ratio. Images already within bounds are returned at native size;
// Fit never upscales.
func Fit(img image.Image, maxW, maxH int, filter imaging.ResampleFilter) *image.NRGBA {
	return imaging.Fit(img, maxW, maxH, filter)
}

// Encode writes img to w in the given format. quality is 1-100 for both
// encoders; WebP uses libwebp's default method (4).
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	switch f {
	case JPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality))
	case WebP:
		return webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
	default:
		return fmt.Errorf("unknown format %d", f)
	}
}

// EncodeBytes is Encode into a fresh buffer, the form the atomic writers need.
func EncodeBytes(img image.Image, f Format, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
