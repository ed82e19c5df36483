package planner

import (
	"github.com/backmassage/photoprep/internal/codec"
	"github.com/backmassage/photoprep/internal/probe"
)

// Action describes the per-file processing decision.
type Action int

const (
	ActionProcess Action = iota
	ActionSkip
)

func (a Action) String() string {
	if a == ActionSkip {
		return "skip"
	}
	return "process"
}

// Task holds the complete set of decisions for one retina file. It is
// produced by BuildTask from the header probe and consumed by the retina
// processor; nothing in it is decoded pixel data.
type Task struct {
	Action     Action
	SkipReason string

	Info probe.Info

	// BackupPath is where the untouched original is copied; empty means no backup.
	BackupPath string

	// Resize is true only when resizing is enabled and the image exceeds the bound.
	Resize       bool
	MaxDimension int
	TargetWidth  int
	TargetHeight int

	// Encoding.
	Format     codec.Format
	Quality    int
	OutputPath string
	// RemoveSource is set when the output lands next to the source (WebP
	// migration) and the source must be deleted afterwards.
	RemoveSource bool
}
