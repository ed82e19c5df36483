package sheet

import (
	"context"
	"errors"
	"image"
	"image/color"
	"path/filepath"

	"github.com/disintegration/imaging"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/backmassage/photoprep/internal/codec"
	"github.com/backmassage/photoprep/internal/config"
	"github.com/backmassage/photoprep/internal/fsx"
)

// ErrEmpty is returned by Build for an empty photo set. Callers treat it
// as "nothing to do".
var ErrEmpty = errors.New("no photos to put on a sheet")

// Options controls one sheet build.
type Options struct {
	TileSize   int
	Columns    int // DefaultColumns when zero
	Caption    bool
	SkipBroken bool
	MaxPixels  int64
	Workers    int
	Quality    int

	// Progress, when set, is called once per photo in completion order from
	// the goroutine that called Build. err is non-nil only for photos left
	// out under SkipBroken.
	Progress func(done, total int, path string, err error)
}

// OptionsFromConfig maps the validated run config onto sheet options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		TileSize:   cfg.TileSize,
		Columns:    cfg.Columns,
		Caption:    cfg.Caption,
		SkipBroken: cfg.SkipBroken,
		MaxPixels:  cfg.MaxPixels,
		Workers:    cfg.Workers,
		Quality:    cfg.SheetQuality,
	}
}

type tileResult struct {
	index int
	path  string
	tile  *image.NRGBA
	err   error
}

// Build renders every photo in paths into one contact sheet. Thumbnails are
// produced by up to opts.Workers goroutines; pasting happens only on the
// calling goroutine. The first unreadable photo aborts the build unless
// opts.SkipBroken is set, in which case its cell stays black.
func Build(ctx context.Context, paths []string, opts Options) (*image.NRGBA, error) {
	if len(paths) == 0 {
		return nil, ErrEmpty
	}
	cols := opts.Columns
	if cols <= 0 {
		cols = DefaultColumns
	}
	size := CanvasSize(len(paths), cols, opts.TileSize)
	canvas := imaging.New(size.X, size.Y, color.Black)

	results := make(chan tileResult)
	errc := make(chan error, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.Workers))
	go func() {
		for i, p := range paths {
			i, p := i, p // per-iteration copies (go1.21 loop semantics)
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				tile, err := Tile(p, opts)
				if err != nil && !(opts.SkipBroken && codec.IsDecode(err)) {
					return err
				}
				select {
				case results <- tileResult{index: i, path: p, tile: tile, err: err}:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		}
		errc <- g.Wait()
		close(results)
	}()

	done := 0
	for r := range results {
		if r.tile != nil {
			at := Position(r.index, cols, opts.TileSize)
			b := r.tile.Bounds()
			xdraw.Draw(canvas, image.Rectangle{Min: at, Max: at.Add(b.Size())}, r.tile, b.Min, xdraw.Src)
		}
		done++
		if opts.Progress != nil {
			opts.Progress(done, len(paths), r.path, r.err)
		}
	}
	if err := <-errc; err != nil {
		return nil, err
	}
	return canvas, nil
}

// Write encodes img as JPEG and atomically replaces <dir>/contactsheet.jpg.
// It returns the number of bytes written.
func Write(dir string, img image.Image, quality int) (int, error) {
	path := filepath.Join(dir, config.SheetName)
	data, err := codec.EncodeBytes(img, codec.JPEG, quality)
	if err != nil {
		return 0, &codec.EncodeError{Path: path, Err: err}
	}
	if err := fsx.WriteFileAtomic(dir, config.SheetName, data); err != nil {
		return 0, &codec.EncodeError{Path: path, Err: err}
	}
	return len(data), nil
}
