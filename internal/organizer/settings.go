package organizer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"picsort/internal/category"
	"picsort/internal/config"
	"picsort/internal/errs"
	"picsort/internal/naming"
)

// Settings are the read-only inputs of a run.
type Settings struct {
	TargetRoot       string
	SourceDirs       []string
	Scheme           naming.Scheme
	Copy             bool
	DryRun           bool
	Extensions       []string
	Recursive        bool
	IncludeHidden    bool
	FilenamePatterns bool
	Categories       category.Categories
}

// SettingsFromConfig builds run settings from a loaded configuration.
func SettingsFromConfig(cfg *config.Config) (Settings, error) {
	cats, err := cfg.BuildCategories()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		TargetRoot:       cfg.Paths.TargetDir,
		SourceDirs:       append([]string(nil), cfg.Paths.SourceDirs...),
		Scheme:           cfg.Scheme(),
		Copy:             cfg.Transfer.Copy,
		Extensions:       append([]string(nil), cfg.Discovery.Extensions...),
		Recursive:        cfg.Discovery.Recursive,
		IncludeHidden:    cfg.Discovery.IncludeHidden,
		FilenamePatterns: cfg.Timestamps.FilenamePatterns,
		Categories:       cats,
	}, nil
}

// Validate reports settings problems that must stop a run before it starts.
func (s Settings) Validate() error {
	if len(s.Extensions) == 0 {
		return errs.Wrap(errs.ErrConfiguration, "organizer", "validate settings", "no file extensions configured", nil)
	}
	if !s.Scheme.Usable() {
		return errs.Wrap(errs.ErrConfiguration, "organizer", "validate settings",
			"enable naming.keep_original_name or naming.prepend_timestamp", nil)
	}
	if strings.TrimSpace(s.TargetRoot) == "" {
		return errs.Wrap(errs.ErrConfiguration, "organizer", "validate settings",
			fmt.Sprintf("no target directory (set paths.target_dir or %s)", config.TargetDirEnv), nil)
	}
	info, err := os.Stat(s.TargetRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errs.Path(errs.ErrNotFound, "open target root", s.TargetRoot, "", err)
		}
		return errs.Path(errs.ErrFilesystem, "open target root", s.TargetRoot, "", err)
	}
	if !info.IsDir() {
		return errs.Path(errs.ErrNotFound, "open target root", s.TargetRoot, "", errors.New("not a directory"))
	}
	return nil
}
