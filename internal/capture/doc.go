// Package capture resolves the moment a photo was taken.
//
// A Resolver consults its MetadataReaders in order (EXIF by default, filename
// patterns when enabled) and falls back to filesystem times when none of them
// knows the answer. Readers report a missing or unparsable datetime with
// ErrMetadataAbsent; that is an expected condition, not a failure. The only
// failures are a missing source file (errs.ErrNotFound) and an unreadable one
// (errs.ErrFilesystem).
package capture
