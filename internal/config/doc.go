// Package config loads, normalizes, and validates picsort configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the PICSORT_TARGET_DIR environment
// fallback. Category date ranges are parsed here so a malformed or overlapping
// range is reported against its key before any file is touched.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
