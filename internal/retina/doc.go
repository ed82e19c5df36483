// Package retina normalizes photo sets to a fixed "retina" size.
//
// Each eligible photo is gated on its header dimensions, optionally backed
// up byte-for-byte into originals/, shrunk to fit 4320x4320 and re-encoded
// as JPEG in place or migrated to a sibling WebP file. Every write goes
// through a temp file and a rename, so a failure never leaves a truncated
// photo behind. A marked directory is renamed from "00Name" to "Name Mx"
// once all of its files are done.
package retina
