// Package organizer runs the per-file sort pipeline: discover candidates,
// resolve each capture time, derive the target name and folder, and hand the
// file to the placer.
//
// Files are processed one at a time. A failure on one file (missing source,
// unusable name, filesystem error) is logged with its path and reason,
// journaled, counted, and the run moves on; problems with the run's own
// settings (no extensions, no naming part, no target root) are reported by New
// before any file is touched. Cancellation is honoured between files so a
// transfer in progress always finishes or fails as a unit.
//
// Inspect exposes the same planning steps for a single file without placing
// it, which is what `picsort inspect` prints.
package organizer
