// Package preflight provides readiness checks for the directories and
// settings a sort run depends on.
//
// These checks run in two contexts:
//   - `picsort sort` calls RunAll before touching any file and aborts when a
//     required check fails.
//   - `picsort check` prints every result so a configuration can be verified
//     without running.
package preflight
