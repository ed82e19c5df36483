// Package check provides system diagnostics (the check command): a codec
// self-test of every encoder and decoder the processors rely on, plus a
// filesystem probe of the atomic-write path.
package check

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"github.com/backmassage/photoprep/internal/codec"
	"github.com/backmassage/photoprep/internal/config"
	"github.com/backmassage/photoprep/internal/fsx"
)

// Sentinel errors returned by the individual checks.
var (
	ErrSizeMismatch = errors.New("decoded size does not match the encoded image")
	ErrCopyMismatch = errors.New("copied file differs from its source")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// testW and testH are deliberately not square so a swapped axis shows up.
const testW, testH = 96, 64

// RunCheck runs every diagnostic and logs each result. It returns false if
// any check failed.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")
	ok := true

	for _, c := range []struct {
		name string
		run  func(*config.Config) error
	}{
		{fmt.Sprintf("JPEG encode/decode (q%d)", cfg.JPEGQuality), checkJPEG},
		{fmt.Sprintf("WebP encode/decode (q%d)", cfg.WebPQuality), checkWebP},
		{"Resize (Catmull-Rom, Lanczos)", checkResize},
		{"Atomic write and byte copy", checkFilesystem},
	} {
		if err := c.run(cfg); err != nil {
			log.Error("%s: %v", c.name, err)
			ok = false
			continue
		}
		log.Success("%s: ok", c.name)
	}

	if cfg.MaxPixels > 0 {
		log.Info("Decode guard: %d pixels", cfg.MaxPixels)
	} else {
		log.Warn("Decode guard disabled")
	}
	log.Info("Workers: %d", cfg.Workers)
	return ok
}

func testImage() *image.NRGBA {
	return imaging.New(testW, testH, color.NRGBA{R: 180, G: 90, B: 40, A: 255})
}

func roundTrip(f codec.Format, quality int) error {
	data, err := codec.EncodeBytes(testImage(), f, quality)
	if err != nil {
		return err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	if b := img.Bounds(); b.Dx() != testW || b.Dy() != testH {
		return fmt.Errorf("%w: got %dx%d", ErrSizeMismatch, b.Dx(), b.Dy())
	}
	return nil
}

func checkJPEG(cfg *config.Config) error {
	return roundTrip(codec.JPEG, cfg.JPEGQuality)
}

func checkWebP(cfg *config.Config) error {
	return roundTrip(codec.WebP, cfg.WebPQuality)
}

func checkResize(*config.Config) error {
	for _, filter := range []imaging.ResampleFilter{imaging.CatmullRom, imaging.Lanczos} {
		got := codec.Fit(testImage(), testW/2, testW/2, filter).Bounds()
		if got.Dx() != testW/2 || got.Dy() != testH/2 {
			return fmt.Errorf("%w: got %dx%d", ErrSizeMismatch, got.Dx(), got.Dy())
		}
	}
	return nil
}

func checkFilesystem(*config.Config) error {
	dir, err := os.MkdirTemp("", "photoprep-check-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	data, err := codec.EncodeBytes(testImage(), codec.JPEG, 75)
	if err != nil {
		return err
	}
	if err := fsx.WriteFileAtomic(dir, "probe.jpg", data); err != nil {
		return err
	}
	dst := filepath.Join(dir, "copy.jpg")
	if err := fsx.CopyFile(filepath.Join(dir, "probe.jpg"), dst); err != nil {
		return err
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, data) {
		return ErrCopyMismatch
	}
	return nil
}
