package codec

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	xwebp "golang.org/x/image/webp"
)

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 120, B: 40, A: 255})
	data, err := EncodeBytes(img, JPEG, 90)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDecode_Dimensions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "IMG_001.jpg")
	writeJPEG(t, path, 320, 200)

	img, err := Decode(path, 0)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 200 {
		t.Errorf("size = %dx%d, want 320x200", b.Dx(), b.Dy())
	}
}

func TestDecode_PixelLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.jpg")
	writeJPEG(t, path, 100, 100)

	_, err := Decode(path, 9_999)
	if !IsDecode(err) || !IsPixelLimit(err) {
		t.Fatalf("expected DecodeError wrapping PixelLimitError, got %T %v", err, err)
	}

	if _, err := Decode(path, 10_000); err != nil {
		t.Fatalf("limit equal to pixel count should pass: %v", err)
	}
}

func TestDecode_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, limit := range []int64{0, 1000} {
		if _, err := Decode(path, limit); !IsDecode(err) {
			t.Errorf("limit %d: expected DecodeError, got %T %v", limit, err, err)
		}
	}
}

func TestDecode_Missing(t *testing.T) {
	_, err := Decode(filepath.Join(t.TempDir(), "nope.jpg"), 0)
	if !IsDecode(err) {
		t.Fatalf("expected DecodeError, got %T %v", err, err)
	}
}

func TestFit_NeverUpscales(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		max          int
		wantW, wantH int
	}{
		{"within bounds", 300, 200, 4320, 300, 200},
		{"landscape down", 8640, 4320, 4320, 4320, 2160},
		{"portrait down", 3000, 6000, 4320, 2160, 4320},
		{"thumbnail", 1024, 512, 256, 256, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewGray(image.Rect(0, 0, tt.w, tt.h))
			got := Fit(src, tt.max, tt.max, imaging.CatmullRom).Bounds()
			if got.Dx() != tt.wantW || got.Dy() != tt.wantH {
				t.Errorf("Fit = %dx%d, want %dx%d", got.Dx(), got.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestEncode_WebPRoundTrip(t *testing.T) {
	img := imaging.New(64, 48, color.NRGBA{R: 10, G: 200, B: 10, A: 255})
	data, err := EncodeBytes(img, WebP, 80)
	if err != nil {
		t.Fatalf("EncodeBytes: %v", err)
	}
	got, err := xwebp.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("webp decode: %v", err)
	}
	if b := got.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("size = %dx%d, want 64x48", b.Dx(), b.Dy())
	}
}

func TestFormat_Ext(t *testing.T) {
	if JPEG.Ext() != ".jpg" || WebP.Ext() != ".webp" {
		t.Errorf("Ext = %q/%q", JPEG.Ext(), WebP.Ext())
	}
}
