package preflight

import (
	"context"
	"fmt"
	"strings"

	"picsort/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Options adjusts which checks RunAll performs.
type Options struct {
	// SourceDirs overrides the configured source directories when non-empty.
	SourceDirs []string
	// DryRun skips the history check; a dry run never writes the journal.
	DryRun bool
}

// RunAll executes all preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}
	sourceDirs := opts.SourceDirs
	if len(sourceDirs) == 0 {
		sourceDirs = cfg.Paths.SourceDirs
	}

	var results []Result

	results = append(results, CheckTargetDirectory(cfg.Paths.TargetDir))

	if len(sourceDirs) == 0 {
		results = append(results, Result{Name: "Source directories", Detail: "none configured (set paths.source_dirs or pass directories)"})
	}
	for _, dir := range sourceDirs {
		results = append(results, CheckSourceDirectory(dir))
	}

	results = append(results, CheckExtensions(cfg.Discovery.Extensions))
	results = append(results, CheckNaming(cfg))
	results = append(results, CheckCategories(cfg))

	if cfg.History.Enabled && !opts.DryRun {
		results = append(results, CheckHistory(ctx, cfg.HistoryPath()))
	}

	return results
}

// Failures returns the results that did not pass.
func Failures(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Summarize joins failed results into one line for error messages.
func Summarize(failed []Result) string {
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return strings.Join(parts, "; ")
}
