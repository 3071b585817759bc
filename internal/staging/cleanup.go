// Package staging sweeps the partial-copy files an interrupted run can leave
// in the target library.
package staging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"picsort/internal/fileutil"
	"picsort/internal/logging"
)

// CleanStaleResult contains the outcome of a sweep.
type CleanStaleResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStale removes partial copies older than maxAge from targetRoot and its
// immediate folders. Only names matching fileutil.IsPartialCopy are touched.
func CleanStale(ctx context.Context, targetRoot string, maxAge time.Duration, logger *slog.Logger) CleanStaleResult {
	result := CleanStaleResult{}

	targetRoot = strings.TrimSpace(targetRoot)
	if targetRoot == "" {
		return result
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	entries, err := os.ReadDir(targetRoot)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: targetRoot, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	dirs := []string{targetRoot}
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(targetRoot, entry.Name()))
		}
	}

	for _, dir := range dirs {
		if ctx.Err() != nil {
			return result
		}
		files, err := os.ReadDir(dir)
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
			continue
		}
		for _, file := range files {
			if !file.Type().IsRegular() || !fileutil.IsPartialCopy(file.Name()) {
				continue
			}
			path := filepath.Join(dir, file.Name())
			info, err := file.Info()
			if err != nil {
				result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
				continue
			}
			if !info.ModTime().Before(cutoff) {
				continue
			}
			if err := os.Remove(path); err != nil {
				result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
				logging.WarnWithContext(logger, "failed to remove partial copy", "partial_cleanup_failed",
					logging.String("path", path),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check target directory permissions"),
					logging.String(logging.FieldImpact, "disk space not reclaimed"),
				)
				continue
			}
			result.Removed = append(result.Removed, path)
			logger.Info("removed partial copy",
				logging.String("path", path),
				logging.Duration("age", time.Since(info.ModTime())),
				logging.String(logging.FieldEventType, "partial_cleanup"),
			)
		}
	}

	return result
}
