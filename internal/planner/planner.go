// Package planner maps a capture time onto the destination folder below the
// target root.
package planner

import (
	"fmt"
	"path/filepath"
	"time"

	"picsort/internal/category"
)

// FolderName returns the first matching category name, or YYYY-MM.
func FolderName(t time.Time, categories category.Categories) string {
	if name, ok := categories.Match(t); ok {
		return name
	}
	return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
}

// Plan returns the destination directory for a file captured at t.
func Plan(t time.Time, categories category.Categories, targetRoot string) string {
	return filepath.Join(targetRoot, FolderName(t, categories))
}
