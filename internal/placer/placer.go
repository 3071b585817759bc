package placer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"picsort/internal/errs"
	"picsort/internal/fileutil"
	"picsort/internal/logging"
	"picsort/internal/naming"
)

// Outcome is the result of placing one file.
type Outcome string

const (
	OutcomeMoved            Outcome = "moved"
	OutcomeCopied           Outcome = "copied"
	OutcomeSkippedDuplicate Outcome = "skipped-duplicate"
	OutcomePlanned          Outcome = "planned"
	OutcomeFailed           Outcome = "failed"
)

// Outcomes lists every outcome in display order.
var Outcomes = []Outcome{OutcomeMoved, OutcomeCopied, OutcomeSkippedDuplicate, OutcomePlanned, OutcomeFailed}

const maxAttempts = 10000

// Result describes a finished placement. For a skipped duplicate Target is
// the existing file that matched.
type Result struct {
	Outcome    Outcome
	Source     string
	Target     string
	Bytes      int64
	Collisions int
}

// Placer performs collision-safe placement.
type Placer struct {
	dryRun  bool
	logger  *slog.Logger
	claimed map[string]string

	rename func(oldpath, newpath string) error
	remove func(path string) error
}

// New returns a Placer. With dryRun set nothing on disk is changed.
func New(logger *slog.Logger, dryRun bool) *Placer {
	return &Placer{
		dryRun:  dryRun,
		logger:  logging.NewComponentLogger(logger, "placer"),
		claimed: make(map[string]string),
		rename:  os.Rename,
		remove:  os.Remove,
	}
}

// DryRun reports whether the placer only plans.
func (p *Placer) DryRun() bool { return p.dryRun }

// Place puts source into targetDir under targetName, or under the next free
// alternate name when targetName is taken by different content. copyFile selects
// copy instead of move.
func (p *Placer) Place(ctx context.Context, source, targetDir, targetName string, copyFile bool) (Result, error) {
	result := Result{Outcome: OutcomeFailed, Source: source}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	info, err := os.Stat(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, errs.Path(errs.ErrNotFound, "stat source", source, "", err)
		}
		return result, errs.Path(errs.ErrFilesystem, "stat source", source, "", err)
	}
	if !info.Mode().IsRegular() {
		return result, errs.Path(errs.ErrNotFound, "stat source", source, "", errors.New("not a regular file"))
	}
	result.Bytes = info.Size()

	if !p.dryRun {
		if err := os.MkdirAll(targetDir, 0o755); err != nil {
			return result, errs.Path(errs.ErrFilesystem, "create directory", source, targetDir, err)
		}
	}

	target, duplicate, collisions, err := p.resolveTarget(source, targetDir, targetName)
	result.Target = target
	result.Collisions = collisions
	if err != nil {
		return result, err
	}
	logger := p.logger.With(logging.String(logging.FieldSource, source), logging.String(logging.FieldTarget, target))

	if duplicate {
		result.Outcome = OutcomeSkippedDuplicate
		result.Bytes = 0
		logger.Debug("identical file already present", logging.String(logging.FieldEventType, "duplicate_skipped"))
		return result, nil
	}

	if p.dryRun {
		p.claimed[target] = source
		result.Outcome = OutcomePlanned
		logger.Debug("placement planned", logging.Int("collisions", collisions))
		return result, nil
	}

	if copyFile {
		if _, err := fileutil.CopyFileVerified(source, target); err != nil {
			return result, errs.Path(errs.ErrFilesystem, "copy", source, target, err)
		}
		result.Outcome = OutcomeCopied
		return result, nil
	}

	outcome, err := p.move(logger, source, target)
	if err != nil {
		return result, err
	}
	result.Outcome = outcome
	return result, nil
}

// resolveTarget walks the alternate names until it finds a free one or one
// holding identical content.
func (p *Placer) resolveTarget(source, targetDir, targetName string) (string, bool, int, error) {
	stem, ext := naming.SplitName(targetName)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := filepath.Join(targetDir, stem+ext)
		occupant, taken, err := p.occupant(candidate)
		if err != nil {
			return candidate, false, attempt, errs.Path(errs.ErrFilesystem, "check target", source, candidate, err)
		}
		if !taken {
			return candidate, false, attempt, nil
		}
		same, err := fileutil.SameContent(source, occupant)
		if err != nil {
			return candidate, false, attempt, errs.Path(errs.ErrFilesystem, "compare content", source, candidate, err)
		}
		if same {
			return candidate, true, attempt, nil
		}
		stem = naming.IncrementSuffix(stem)
	}
	return filepath.Join(targetDir, targetName), false, maxAttempts,
		errs.Path(errs.ErrFilesystem, "allocate name", source, filepath.Join(targetDir, targetName),
			fmt.Errorf("no free alternate name after %d attempts", maxAttempts))
}

// occupant returns the file whose content decides a collision at candidate.
// In dry-run mode a name planned earlier in the run counts as taken by the
// source planned there.
func (p *Placer) occupant(candidate string) (string, bool, error) {
	_, err := os.Lstat(candidate)
	switch {
	case err == nil:
		return candidate, true, nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", false, err
	}
	if planned, ok := p.claimed[candidate]; ok {
		return planned, true, nil
	}
	return "", false, nil
}

func (p *Placer) move(logger *slog.Logger, source, target string) (Outcome, error) {
	err := p.rename(source, target)
	if err == nil {
		return OutcomeMoved, nil
	}
	if !fileutil.IsCrossDevice(err) {
		return OutcomeFailed, errs.Path(errs.ErrFilesystem, "move", source, target, err)
	}

	logger.Debug("target on another filesystem; copying before removing source")
	if _, err := fileutil.CopyFileVerified(source, target); err != nil {
		return OutcomeFailed, errs.Path(errs.ErrFilesystem, "copy across devices", source, target, err)
	}
	if err := p.remove(source); err != nil {
		logging.WarnWithContext(logger, "failed to remove source after copy", "source_remove_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check write permission on the source directory"),
			logging.String(logging.FieldImpact, "file was copied; the source copy remains"),
		)
		return OutcomeCopied, nil
	}
	return OutcomeMoved, nil
}
