// Package history journals placement outcomes in a local SQLite database.
//
// Every file a sort run touches (or plans, or fails on) becomes one row keyed
// by the run's id, so `picsort history` can answer where a photo went and
// which runs moved what. The database is a single file under the state
// directory, opened with WAL journaling and a busy timeout; its schema is
// embedded and versioned, and a version mismatch surfaces as
// ErrSchemaMismatch rather than a silent migration.
package history
