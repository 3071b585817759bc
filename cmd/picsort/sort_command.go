package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"picsort/internal/config"
	"picsort/internal/history"
	"picsort/internal/logging"
	"picsort/internal/organizer"
	"picsort/internal/placer"
	"picsort/internal/preflight"
	"picsort/internal/runlock"
	"picsort/internal/staging"
)

// partialCopyMaxAge is how old a leftover temporary copy must be before a
// run removes it.
const partialCopyMaxAge = time.Hour

type sortFlags struct {
	copy       bool
	move       bool
	dryRun     bool
	noProgress bool
	target     string
	logLevel   string
}

func newSortCommand(ctx *commandContext) *cobra.Command {
	var flags sortFlags

	cmd := &cobra.Command{
		Use:   "sort [dir...]",
		Short: "Sort images from the source directories into the target library",
		Long: "Sort discovers images in the given directories (or paths.source_dirs),\n" +
			"resolves each capture time and places the file under <target>/<YYYY-MM>\n" +
			"or the matching category folder.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			run, err := applySortFlags(cmd, cfg, flags, args)
			if err != nil {
				return err
			}
			return runSort(cmd, run, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.copy, "copy", false, "Copy files and keep the originals")
	cmd.Flags().BoolVar(&flags.move, "move", false, "Move files (default unless transfer.copy is set)")
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "Plan placements without touching any file")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "Disable the progress bar")
	cmd.Flags().StringVarP(&flags.target, "target", "t", "", "Target library directory (overrides paths.target_dir)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level for this run (debug, info, warn, error)")
	cmd.MarkFlagsMutuallyExclusive("copy", "move")
	return cmd
}

// applySortFlags returns a copy of cfg with command-line overrides applied.
func applySortFlags(cmd *cobra.Command, cfg *config.Config, flags sortFlags, args []string) (*config.Config, error) {
	run := *cfg
	if target := strings.TrimSpace(flags.target); target != "" {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return nil, fmt.Errorf("resolve target: %w", err)
		}
		run.Paths.TargetDir = expanded
	}
	if len(args) > 0 {
		dirs := make([]string, 0, len(args))
		for _, arg := range args {
			expanded, err := config.ExpandPath(arg)
			if err != nil {
				return nil, fmt.Errorf("resolve source %q: %w", arg, err)
			}
			dirs = append(dirs, expanded)
		}
		run.Paths.SourceDirs = dirs
	}
	switch {
	case cmd.Flags().Changed("copy"):
		run.Transfer.Copy = flags.copy
	case cmd.Flags().Changed("move"):
		run.Transfer.Copy = !flags.move
	}
	if level := strings.ToLower(strings.TrimSpace(flags.logLevel)); level != "" {
		if !logging.ValidLevel(level) {
			return nil, fmt.Errorf("invalid --log-level %q (use debug, info, warn, or error)", flags.logLevel)
		}
		run.Logging.Level = level
	}
	return &run, nil
}

func runSort(cmd *cobra.Command, cfg *config.Config, flags sortFlags) error {
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	colorize := shouldColorize(out)

	results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{DryRun: flags.dryRun})
	if failed := preflight.Failures(results); len(failed) > 0 {
		for _, line := range preflightLines(results, shouldColorize(errOut)) {
			fmt.Fprintln(errOut, line)
		}
		return fmt.Errorf("preflight failed: %s", preflight.Summarize(failed))
	}

	settings, err := organizer.SettingsFromConfig(cfg)
	if err != nil {
		return err
	}
	settings.DryRun = flags.dryRun

	showProgress := !flags.noProgress && shouldColorize(errOut)
	consoleLevel := cfg.Logging.Level
	if showProgress {
		consoleLevel = "warn"
	}
	runID := uuid.NewString()
	runLog, err := logging.NewRun(logging.RunOptions{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		ConsoleLevel: consoleLevel,
		Console:      errOut,
		LogDir:       cfg.LogDir(),
		RunID:        runID,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer runLog.Close()
	logging.PruneRunLogs(runLog.Logger, cfg.LogDir(), cfg.Logging.RetentionDays, runLog.Path)

	if !settings.DryRun {
		lock, err := runlock.Acquire(settings.TargetRoot)
		if err != nil {
			if errors.Is(err, runlock.ErrLocked) {
				return fmt.Errorf("%w; wait for it to finish", err)
			}
			return err
		}
		defer lock.Release()
		staging.CleanStale(cmd.Context(), settings.TargetRoot, partialCopyMaxAge, runLog.Logger)
	}

	opts := []organizer.Option{organizer.WithRunID(runID)}
	if cfg.History.Enabled && !settings.DryRun {
		store, err := history.Open(cfg.HistoryPath())
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
		opts = append(opts, organizer.WithRecorder(store))
	}

	var bar *progressbar.ProgressBar
	opts = append(opts, organizer.WithProgress(func(done, total int, res organizer.FileResult) {
		if bar != nil {
			_ = bar.Clear()
		}
		fmt.Fprintln(out, fileLine(res, settings.TargetRoot, colorize))
		if bar != nil {
			_ = bar.Add(1)
		}
	}))

	org, err := organizer.New(settings, runLog.Logger, opts...)
	if err != nil {
		return err
	}
	paths, err := org.Discover()
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Fprintln(out, "No matching files found")
		return nil
	}
	if showProgress {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetWriter(errOut),
			progressbar.OptionSetDescription("Sorting"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	summary, runErr := org.Process(cmd.Context(), paths)
	if bar != nil {
		_ = bar.Finish()
	}
	renderSummary(out, summary, settings.DryRun, runLog.Path)
	if runErr != nil {
		return runErr
	}
	if n := summary.Failed(); n > 0 {
		return fmt.Errorf("%d of %d files failed; see %s", n, summary.Total, runLog.Path)
	}
	return nil
}

func fileLine(res organizer.FileResult, targetRoot string, colorize bool) string {
	label := outcomeLabel(res.Outcome, colorize)
	if res.Outcome == placer.OutcomeFailed {
		reason := "unknown error"
		if res.Err != nil {
			reason = res.Err.Error()
		}
		return fmt.Sprintf("%s %s: %s", label, res.Source, reason)
	}
	return fmt.Sprintf("%s %s -> %s", label, res.Source, displayTarget(res.Target, targetRoot))
}

// displayTarget shortens target to a path relative to the library root.
func displayTarget(target, root string) string {
	if rel, err := filepath.Rel(root, target); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return target
}

func renderSummary(w io.Writer, summary organizer.Summary, dryRun bool, logPath string) {
	rows := make([][]string, 0, len(placer.Outcomes))
	for _, outcome := range placer.Outcomes {
		count := summary.Counts[outcome]
		if count == 0 {
			continue
		}
		rows = append(rows, []string{string(outcome), fmt.Sprintf("%d", count)})
	}
	title := "Sort summary"
	if dryRun {
		title = "Sort summary (dry run)"
	}
	fmt.Fprintln(w, renderTable(tableData{
		Title:   title,
		Headers: []string{"Outcome", "Files"},
		Rows:    rows,
		Aligns:  []columnAlignment{alignLeft, alignRight},
		Footer:  []string{"total", fmt.Sprintf("%d", summary.Processed())},
	}))

	transferred := "Transferred"
	if dryRun {
		transferred = "Would transfer"
	}
	fmt.Fprintf(w, "%s %s in %s (run %s)\n",
		transferred,
		humanize.Bytes(uint64(max(summary.Bytes, 0))),
		summary.Duration().Round(time.Millisecond),
		summary.RunID,
	)
	if summary.Cancelled {
		fmt.Fprintf(w, "Interrupted after %d of %d files\n", summary.Processed(), summary.Total)
	}
	for _, f := range summary.Failures {
		fmt.Fprintf(w, "  failed (%s): %s\n", f.Reason, f.Source)
	}
	if logPath != "" {
		fmt.Fprintf(w, "Log: %s\n", logPath)
	}
}
