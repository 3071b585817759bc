package organizer

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"picsort/internal/capture"
	"picsort/internal/discovery"
	"picsort/internal/errs"
	"picsort/internal/history"
	"picsort/internal/logging"
	"picsort/internal/naming"
	"picsort/internal/placer"
	"picsort/internal/planner"
)

// Recorder journals placement outcomes.
type Recorder interface {
	Record(ctx context.Context, rec history.Record) (int64, error)
}

// ProgressFunc is called after every file with the running count.
type ProgressFunc func(done, total int, res FileResult)

// Option customizes an Organizer.
type Option func(*Organizer)

// WithRecorder journals every outcome to rec.
func WithRecorder(rec Recorder) Option {
	return func(o *Organizer) { o.recorder = rec }
}

// WithProgress installs a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(o *Organizer) { o.progress = fn }
}

// WithRunID sets the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(o *Organizer) {
		if id != "" {
			o.runID = id
		}
	}
}

// WithResolver replaces the default timestamp resolver.
func WithResolver(r *capture.Resolver) Option {
	return func(o *Organizer) { o.resolver = r }
}

// Organizer sorts files into the target root.
type Organizer struct {
	settings Settings
	resolver *capture.Resolver
	placer   *placer.Placer
	recorder Recorder
	progress ProgressFunc
	logger   *slog.Logger
	base     *slog.Logger
	runID    string
}

// New validates settings and returns an Organizer ready to run.
func New(settings Settings, logger *slog.Logger, opts ...Option) (*Organizer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	o := &Organizer{
		settings: settings,
		runID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.base = logger
	o.logger = logging.NewComponentLogger(logger, "organizer")
	if o.resolver == nil {
		o.resolver = capture.NewDefaultResolver(logger, settings.FilenamePatterns)
	}
	o.placer = placer.New(logger, settings.DryRun)
	return o, nil
}

// RunID identifies this organizer's run in logs and history.
func (o *Organizer) RunID() string { return o.runID }

// Discover lists the candidate files of the configured source directories.
// The target root is pruned so a library nested in a source is never re-sorted.
func (o *Organizer) Discover() ([]string, error) {
	return discovery.Walk(o.settings.SourceDirs, discovery.Options{
		Extensions:    o.settings.Extensions,
		Recursive:     o.settings.Recursive,
		IncludeHidden: o.settings.IncludeHidden,
		Exclude:       []string{o.settings.TargetRoot},
		Logger:        o.base,
	})
}

// Run discovers and processes every candidate file. The error is non-nil only
// when discovery fails or ctx is cancelled; per-file failures are in the
// summary.
func (o *Organizer) Run(ctx context.Context) (Summary, error) {
	paths, err := o.Discover()
	if err != nil {
		return newSummary(o.runID, 0), err
	}
	return o.Process(ctx, paths)
}

// Process places paths in order.
func (o *Organizer) Process(ctx context.Context, paths []string) (Summary, error) {
	ctx = logging.WithRunID(ctx, o.runID)
	summary := newSummary(o.runID, len(paths))
	o.logger.Info("sort run started",
		logging.Int("files", len(paths)),
		logging.String("target_root", o.settings.TargetRoot),
		logging.Bool("copy", o.settings.Copy),
		logging.Bool("dry_run", o.settings.DryRun),
	)

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			summary.Cancelled = true
			summary.FinishedAt = time.Now()
			o.logger.Warn("sort run cancelled", logging.Int("remaining", len(paths)-i))
			return summary, err
		}
		res := o.processFile(ctx, path)
		summary.add(res, errs.Reason(res.Err))
		if o.progress != nil {
			o.progress(i+1, len(paths), res)
		}
	}

	summary.FinishedAt = time.Now()
	o.logger.Info("sort run finished",
		logging.Int("files", summary.Total),
		logging.Int("moved", summary.Counts[placer.OutcomeMoved]),
		logging.Int("copied", summary.Counts[placer.OutcomeCopied]),
		logging.Int("duplicates", summary.Counts[placer.OutcomeSkippedDuplicate]),
		logging.Int("planned", summary.Counts[placer.OutcomePlanned]),
		logging.Int("failed", summary.Failed()),
		logging.Int64("bytes", summary.Bytes),
		logging.Duration("duration", summary.Duration()),
	)
	return summary, nil
}

func (o *Organizer) processFile(ctx context.Context, path string) FileResult {
	ctx = logging.WithSource(ctx, path)
	logger := logging.WithContext(ctx, o.logger)
	result := FileResult{Source: path, Outcome: placer.OutcomeFailed}

	plan, err := o.Inspect(path)
	if err == nil {
		result.CaptureTime = plan.CaptureTime
		result.CaptureSource = plan.CaptureSource
		var placed placer.Result
		placed, err = o.placer.Place(ctx, path, plan.TargetDir, plan.TargetName, o.settings.Copy)
		result.Outcome = placed.Outcome
		result.Target = placed.Target
		result.Bytes = placed.Bytes
	}
	if err != nil {
		result.Outcome = placer.OutcomeFailed
		result.Bytes = 0
		result.Err = err
		logging.WarnWithContext(logger, "file not placed", "file_failed",
			logging.String("reason", errs.Reason(err)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hintFor(err)),
			logging.String(logging.FieldImpact, "file left in its source directory"),
		)
	} else {
		logger.Info("file placed",
			logging.String("outcome", string(result.Outcome)),
			logging.String(logging.FieldTarget, result.Target),
			logging.String("capture_source", string(result.CaptureSource)),
		)
	}

	o.record(ctx, logger, result)
	return result
}

func (o *Organizer) record(ctx context.Context, logger *slog.Logger, res FileResult) {
	if o.recorder == nil {
		return
	}
	rec := history.Record{
		RunID:         o.runID,
		Source:        res.Source,
		Target:        res.Target,
		Outcome:       string(res.Outcome),
		CaptureTime:   res.CaptureTime,
		CaptureSource: string(res.CaptureSource),
		Bytes:         res.Bytes,
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}
	if _, err := o.recorder.Record(context.WithoutCancel(ctx), rec); err != nil {
		logging.WarnWithContext(logger, "history record failed", "history_record_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run 'picsort check' to verify the history database"),
			logging.String(logging.FieldImpact, "placement is not listed in picsort history"),
		)
	}
}

// Plan is where a file would go.
type Plan struct {
	Source        string
	CaptureTime   time.Time
	CaptureSource capture.Source
	Category      string
	TargetDir     string
	TargetName    string
}

// Inspect resolves, names and plans path without placing it. Collisions are
// not considered; Place may still pick an alternate name.
func (o *Organizer) Inspect(path string) (Plan, error) {
	src := capture.NewSourceFile(path)
	res, err := o.resolver.Resolve(src.FullPath())
	if err != nil {
		return Plan{Source: path}, err
	}
	src = src.WithResolution(res)

	name, err := naming.Build(src.Name(), res.Time, o.settings.Scheme)
	if err != nil {
		return Plan{Source: path}, err
	}
	category, _ := o.settings.Categories.Match(res.Time)
	return Plan{
		Source:        src.FullPath(),
		CaptureTime:   res.Time,
		CaptureSource: res.Source,
		Category:      category,
		TargetDir:     planner.Plan(res.Time, o.settings.Categories, o.settings.TargetRoot),
		TargetName:    name,
	}, nil
}

func hintFor(err error) string {
	switch errs.Reason(err) {
	case "not_found":
		return "the file disappeared or its directory is unreadable"
	case "configuration":
		return "check the [naming] section of the config"
	default:
		return "check permissions and free space on the target filesystem"
	}
}
