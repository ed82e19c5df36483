// Package naming derives every name the tools write: the finished name of
// a marked directory, the caption drawn under a contact-sheet tile, and
// collision-free output paths for format migration.
package naming
