// Package errs defines the error kinds shared by every picsort component.
//
// Failures are tagged with one of the exported sentinel markers so callers can
// classify them with errors.Is regardless of how many layers wrapped the
// original error. Wrap builds component/operation context into the message;
// PathError additionally records the source and target paths involved in a
// filesystem operation so per-file failures can be reported to the user.
//
// A missing piece of capture metadata is not an error kind: readers signal it
// with capture.ErrMetadataAbsent and the resolver falls back silently.
package errs
