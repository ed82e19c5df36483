package retina

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/backmassage/photoprep/internal/codec"
	"github.com/backmassage/photoprep/internal/config"
	"github.com/backmassage/photoprep/internal/fsx"
	"github.com/backmassage/photoprep/internal/naming"
	"github.com/backmassage/photoprep/internal/planner"
	"github.com/backmassage/photoprep/internal/probe"
	"github.com/backmassage/photoprep/internal/scan"
)

// Result is the outcome of one photo.
type Result struct {
	Path string
	Task *planner.Task // nil when the header could not be read

	Skipped bool
	Reason  string
	DryRun  bool

	Output      string
	BytesBefore int64
	BytesAfter  int64

	Err error
}

// DirResult aggregates one directory. Results are in scan order.
type DirResult struct {
	Dir     string
	Results []Result

	Processed int
	Skipped   int
	Failed    int

	BytesBefore int64
	BytesAfter  int64

	// Err is a directory-level failure: the listing, the backup directory,
	// or cancellation before every file ran.
	Err error
}

// Clean reports whether every file was processed or skipped by policy, the
// condition for renaming a marked directory.
func (d *DirResult) Clean() bool {
	return d.Err == nil && d.Failed == 0
}

// Observer receives each Result as it completes. Calls are serialized.
type Observer func(done, total int, r Result)

// ProcessFile gates and processes a single photo.
func ProcessFile(ctx context.Context, path string, cfg *config.Config) Result {
	info, err := probe.Probe(path)
	if err != nil {
		return Result{Path: path, Err: err}
	}
	t := planner.BuildTask(cfg, info)
	if t.Action == planner.ActionProcess && t.BackupPath != "" && !cfg.DryRun {
		backupDir := filepath.Dir(t.BackupPath)
		if err := os.MkdirAll(backupDir, 0o755); err != nil {
			return Result{Path: path, Task: t, Err: &BackupWriteError{Path: path, Backup: backupDir, Err: err}}
		}
	}
	return apply(ctx, t, cfg)
}

// ProcessDir processes every eligible photo directly inside dir.
//
// Tasks are planned sequentially from header probes so WebP output names
// are claimed in scan order. The backup directory is created once before
// any worker starts. Up to cfg.Workers photos are then processed at once;
// a failed photo does not stop the others. ProcessDir never renames dir.
func ProcessDir(ctx context.Context, dir string, cfg *config.Config, observe Observer) DirResult {
	res := DirResult{Dir: dir}

	paths, err := scan.Photos(dir, scan.IgnoreRetina)
	if err != nil {
		res.Err = err
		return res
	}
	res.Results = make([]Result, len(paths))

	// --- Plan ---
	tasks := make([]*planner.Task, len(paths))
	resolver := naming.NewCollisionResolver()
	needBackup := false
	for i, p := range paths {
		info, err := probe.Probe(p)
		if err != nil {
			res.Results[i] = Result{Path: p, Err: err}
			continue
		}
		t := planner.BuildTask(cfg, info)
		if t.Action == planner.ActionProcess {
			if t.RemoveSource {
				t.OutputPath = resolver.Resolve(p, t.OutputPath)
			}
			needBackup = needBackup || t.BackupPath != ""
		}
		tasks[i] = t
	}

	// --- Backup barrier ---
	if needBackup && !cfg.DryRun {
		backupDir := filepath.Join(dir, config.BackupDirName)
		if err := os.MkdirAll(backupDir, 0o755); err != nil {
			res.Err = &BackupWriteError{Path: dir, Backup: backupDir, Err: err}
			return res
		}
	}

	// --- Workers ---
	var mu sync.Mutex
	done := 0
	report := func(r Result) {
		mu.Lock()
		defer mu.Unlock()
		done++
		if observe != nil {
			observe(done, len(paths), r)
		}
	}

	ran := make([]bool, len(paths))
	var g errgroup.Group
	g.SetLimit(max(1, cfg.Workers))
	for i, t := range tasks {
		if ctx.Err() != nil {
			break
		}
		ran[i] = true
		if t == nil {
			report(res.Results[i])
			continue
		}
		i, t := i, t // per-iteration copies (go1.21 loop semantics)
		g.Go(func() error {
			r := apply(ctx, t, cfg)
			res.Results[i] = r
			report(r)
			return nil
		})
	}
	_ = g.Wait()

	// --- Tally ---
	for i := range res.Results {
		r := &res.Results[i]
		if !ran[i] {
			r.Path = paths[i]
			r.Err = ctx.Err()
		}
		switch {
		case r.Err != nil:
			res.Failed++
		case r.Skipped:
			res.Skipped++
		default:
			res.Processed++
			res.BytesBefore += r.BytesBefore
			res.BytesAfter += r.BytesAfter
		}
	}
	if err := ctx.Err(); err != nil {
		res.Err = err
	}
	return res
}

// apply carries out one planned task: backup, decode, resize, encode and,
// for WebP migration, removal of the source.
func apply(ctx context.Context, t *planner.Task, cfg *config.Config) Result {
	path := t.Info.Path
	r := Result{Path: path, Task: t, BytesBefore: t.Info.Size}

	if t.Action == planner.ActionSkip {
		r.Skipped = true
		r.Reason = t.SkipReason
		return r
	}
	if err := ctx.Err(); err != nil {
		r.Err = err
		return r
	}
	r.Output = t.OutputPath
	if cfg.DryRun {
		r.DryRun = true
		return r
	}

	// --- Backup ---
	if t.BackupPath != "" {
		if err := fsx.CopyFile(path, t.BackupPath); err != nil {
			r.Err = &BackupWriteError{Path: path, Backup: t.BackupPath, Err: err}
			return r
		}
	}

	// --- Decode and resize ---
	img, err := codec.Decode(path, cfg.MaxPixels)
	if err != nil {
		r.Err = err
		return r
	}
	if t.Resize {
		img = codec.Fit(img, t.MaxDimension, t.MaxDimension, imaging.CatmullRom)
	}

	// --- Encode ---
	data, err := codec.EncodeBytes(img, t.Format, t.Quality)
	if err != nil {
		r.Err = &codec.EncodeError{Path: t.OutputPath, Err: err}
		return r
	}
	if err := fsx.WriteFileAtomic(filepath.Dir(t.OutputPath), filepath.Base(t.OutputPath), data); err != nil {
		r.Err = &codec.EncodeError{Path: t.OutputPath, Err: err}
		return r
	}
	r.BytesAfter = int64(len(data))

	if t.RemoveSource {
		if err := os.Remove(path); err != nil {
			r.Err = fmt.Errorf("remove source after migration: %w", err)
			return r
		}
	}
	return r
}
