// Package placer moves or copies a file into its planned target directory.
//
// Placement never overwrites: when the target name is taken, the existing file
// is compared byte for byte with the source. Identical content ends the
// placement as a skipped duplicate and leaves the source where it is; different
// content moves on to the next alternate name produced by
// naming.IncrementSuffix. Copies go through a verified temporary file so a
// target path only ever holds complete content, and a move across filesystems
// removes its source only after the verified copy is in place.
//
// A dry-run Placer performs the same collision checks without writing, and
// remembers the names it handed out so two files planned in the same run do
// not claim the same target.
package placer
