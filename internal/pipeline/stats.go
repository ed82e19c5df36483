package pipeline

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	Dirs      int
	Files     int
	Processed int
	Skipped   int
	Failed    int

	Sheets       int
	Renamed      int
	RenameFailed int

	TotalInputBytes  int64
	TotalOutputBytes int64

	Interrupted bool
	// Err is set when the run aborted before any work, e.g. a missing root.
	Err error
}

// SpaceSaved returns the aggregate byte difference between inputs and outputs.
// Positive means outputs are smaller; negative means they grew.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}

// OK reports whether the run finished without failures. Rename collisions
// are not failures.
func (s *RunStats) OK() bool {
	return s.Err == nil && s.Failed == 0 && !s.Interrupted
}
