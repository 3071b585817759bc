// Package category models the user-defined date ranges that override the
// default year-month folder layout.
//
// A Category is a named set of inclusive TimeRanges whose members never
// overlap; Categories keeps them in configured order so the first category
// containing a capture time wins. Values are built once while the
// configuration loads and are read-only for the rest of a run.
package category
