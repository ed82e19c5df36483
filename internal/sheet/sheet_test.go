package sheet

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/backmassage/photoprep/internal/codec"
	"github.com/backmassage/photoprep/internal/config"
)

var fill = color.NRGBA{R: 200, G: 60, B: 30, A: 255}

func testOptions() Options {
	return Options{TileSize: 256, Workers: 3, Quality: 75}
}

func writePhoto(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	data, err := codec.EncodeBytes(imaging.New(w, h, fill), codec.JPEG, 95)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func near(c color.Color, want color.NRGBA, tol int) bool {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	diff := func(a, b uint8) int {
		d := int(a) - int(b)
		if d < 0 {
			return -d
		}
		return d
	}
	return diff(n.R, want.R) <= tol && diff(n.G, want.G) <= tol && diff(n.B, want.B) <= tol
}

var black = color.NRGBA{A: 255}

// --- Layout ---

func TestPosition(t *testing.T) {
	tests := []struct {
		index int
		want  image.Point
	}{
		{0, image.Pt(0, 0)},
		{3, image.Pt(768, 0)},
		{4, image.Pt(0, 256)},
		{5, image.Pt(256, 256)},
		{11, image.Pt(768, 512)},
	}
	for _, tt := range tests {
		if got := Position(tt.index, DefaultColumns, 256); got != tt.want {
			t.Errorf("Position(%d) = %v, want %v", tt.index, got, tt.want)
		}
	}
}

func TestPosition_TilesNeverOverlap(t *testing.T) {
	seen := make(map[image.Point]int)
	for i := 0; i < 64; i++ {
		p := Position(i, DefaultColumns, 256)
		if j, ok := seen[p]; ok {
			t.Fatalf("tiles %d and %d share %v", j, i, p)
		}
		seen[p] = i
		if p.X%256 != 0 || p.Y%256 != 0 || p.X >= 1024 {
			t.Fatalf("tile %d off grid at %v", i, p)
		}
	}
}

func TestCanvasSize(t *testing.T) {
	tests := []struct {
		count int
		want  image.Point
	}{
		{1, image.Pt(1024, 256)},
		{4, image.Pt(1024, 256)},
		{5, image.Pt(1024, 512)},
		{8, image.Pt(1024, 512)},
		{9, image.Pt(1024, 768)},
	}
	for _, tt := range tests {
		if got := CanvasSize(tt.count, DefaultColumns, 256); got != tt.want {
			t.Errorf("CanvasSize(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}

// --- Tiles ---

func TestLetterbox_Landscape(t *testing.T) {
	tile := Letterbox(imaging.New(256, 128, fill), 256)

	if b := tile.Bounds(); b.Dx() != 256 || b.Dy() != 256 {
		t.Fatalf("tile = %v, want 256x256", b)
	}
	if got := tile.NRGBAAt(0, 0); got != BorderColor {
		t.Errorf("corner = %v, want border %v", got, BorderColor)
	}
	if got := tile.NRGBAAt(128, 255); got != BorderColor {
		t.Errorf("bottom edge = %v, want border %v", got, BorderColor)
	}
	if got := tile.NRGBAAt(128, 20); got != black {
		t.Errorf("padding = %v, want black", got)
	}
	if got := tile.NRGBAAt(128, 128); got != fill {
		t.Errorf("center = %v, want photo %v", got, fill)
	}
}

func TestLetterbox_SmallPortraitIsCentered(t *testing.T) {
	tile := Letterbox(imaging.New(50, 100, fill), 256)
	// Photo occupies x in [103,153), y in [78,178).
	if got := tile.NRGBAAt(128, 128); got != fill {
		t.Errorf("center = %v, want photo", got)
	}
	for _, p := range []image.Point{{100, 128}, {128, 75}, {156, 128}, {128, 181}} {
		if got := tile.NRGBAAt(p.X, p.Y); got != black {
			t.Errorf("%v = %v, want black", p, got)
		}
	}
}

func TestLetterbox_SquareUntouched(t *testing.T) {
	thumb := imaging.New(256, 256, fill)
	if tile := Letterbox(thumb, 256); tile != thumb {
		t.Fatal("square thumbnail should be used as-is")
	}
	if got := thumb.NRGBAAt(0, 0); got != fill {
		t.Errorf("corner = %v, square tiles get no border", got)
	}
}

func TestCaption(t *testing.T) {
	tile := imaging.New(256, 256, fill)
	Caption(tile, "IMG")

	// Strip spans y in [241,254), x in [2,254).
	if got := tile.NRGBAAt(250, 245); got != black {
		t.Errorf("strip right end = %v, want black", got)
	}
	if got := tile.NRGBAAt(128, 239); got != fill {
		t.Errorf("above strip = %v, want photo", got)
	}
	if got := tile.NRGBAAt(1, 245); got != fill {
		t.Errorf("left of strip = %v, want photo", got)
	}

	white := 0
	for y := 241; y < 254; y++ {
		for x := 2; x < 40; x++ {
			if c := tile.NRGBAAt(x, y); c.R > 200 && c.G > 200 && c.B > 200 {
				white++
			}
		}
	}
	if white == 0 {
		t.Error("no caption text drawn")
	}
}

func TestCaption_TinyTileIgnored(t *testing.T) {
	tile := imaging.New(8, 8, fill)
	Caption(tile, "IMG")
	if got := tile.NRGBAAt(4, 4); got != fill {
		t.Errorf("tiny tile changed: %v", got)
	}
}

// --- Build ---

func TestBuild_FivePhotos(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 5; i++ {
		paths = append(paths, writePhoto(t, dir, fmt.Sprintf("IMG_%03d.jpg", i), 600, 400))
	}

	var calls int
	opts := testOptions()
	opts.Progress = func(done, total int, path string, err error) {
		calls++
		if total != 5 || err != nil {
			t.Errorf("progress(%d, %d, %s, %v)", done, total, path, err)
		}
	}

	img, err := Build(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 1024 || b.Dy() != 512 {
		t.Fatalf("sheet = %dx%d, want 1024x512", b.Dx(), b.Dy())
	}
	if calls != 5 {
		t.Errorf("progress called %d times, want 5", calls)
	}
	for i := 0; i < 5; i++ {
		c := Position(i, DefaultColumns, 256).Add(image.Pt(128, 128))
		if got := img.At(c.X, c.Y); !near(got, fill, 12) {
			t.Errorf("tile %d center = %v, want photo", i, got)
		}
	}
	for i := 5; i < 8; i++ {
		c := Position(i, DefaultColumns, 256).Add(image.Pt(128, 128))
		if got := img.NRGBAAt(c.X, c.Y); got != black {
			t.Errorf("empty cell %d = %v, want black", i, got)
		}
	}
}

func TestBuild_Columns(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		paths = append(paths, writePhoto(t, dir, name, 400, 300))
	}

	opts := testOptions()
	opts.Columns = 2
	img, err := Build(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 512 || b.Dy() != 512 {
		t.Fatalf("sheet = %dx%d, want 512x512", b.Dx(), b.Dy())
	}
	c := Position(2, 2, 256).Add(image.Pt(128, 128))
	if got := img.At(c.X, c.Y); !near(got, fill, 12) {
		t.Errorf("third tile center = %v, want photo on the second row", got)
	}
}

func TestBuild_Empty(t *testing.T) {
	if _, err := Build(context.Background(), nil, testOptions()); err != ErrEmpty {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
}

func TestBuild_FailFastOnBrokenPhoto(t *testing.T) {
	dir := t.TempDir()
	good := writePhoto(t, dir, "a.jpg", 300, 300)
	bad := filepath.Join(dir, "b.jpg")
	if err := os.WriteFile(bad, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Build(context.Background(), []string{good, bad}, testOptions())
	if !codec.IsDecode(err) {
		t.Fatalf("expected DecodeError, got %T %v", err, err)
	}
}

func TestBuild_SkipBrokenLeavesBlackCell(t *testing.T) {
	dir := t.TempDir()
	good := writePhoto(t, dir, "a.jpg", 300, 300)
	bad := filepath.Join(dir, "b.jpg")
	if err := os.WriteFile(bad, []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}

	var skipped []string
	opts := testOptions()
	opts.SkipBroken = true
	opts.Progress = func(done, total int, path string, err error) {
		if err != nil {
			skipped = append(skipped, filepath.Base(path))
		}
	}

	img, err := Build(context.Background(), []string{good, bad}, opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(skipped) != 1 || skipped[0] != "b.jpg" {
		t.Errorf("skipped = %v, want [b.jpg]", skipped)
	}
	if got := img.NRGBAAt(256+128, 128); got != black {
		t.Errorf("broken cell = %v, want black", got)
	}
}

func TestBuild_Cancelled(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writePhoto(t, dir, "a.jpg", 300, 200)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Build(ctx, paths, testOptions()); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	n, err := Write(dir, imaging.New(1024, 256, fill), 75)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	path := filepath.Join(dir, config.SheetName)
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if int64(n) != fi.Size() {
		t.Errorf("reported %d bytes, file has %d", n, fi.Size())
	}
	img, err := codec.Decode(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 1024 || b.Dy() != 256 {
		t.Errorf("written sheet = %v", b)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Caption = true
	o := OptionsFromConfig(&cfg)
	if o.TileSize != 256 || o.Columns != 4 || !o.Caption || o.Quality != 75 || o.MaxPixels != cfg.MaxPixels {
		t.Errorf("options = %+v", o)
	}
}
