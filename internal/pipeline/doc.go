// Package pipeline drives whole runs: it resolves the directories a run
// covers, hands each one to the sheet builder or the retina processor,
// reports progress, and prints the batch summary.
//
// In files mode the root is a single photo set. In dirs mode every
// "00"-marked subdirectory of the root is an independent unit, announced
// as "k/total: name" before it starts.
package pipeline
