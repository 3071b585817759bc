// Package discovery finds candidate image files by extension.
//
// Extensions are compared case-sensitively against the suffix starting at a
// file name's last dot. Symbolic links are never followed or returned, and
// hidden entries are skipped unless asked for.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"picsort/internal/errs"
	"picsort/internal/logging"
	"picsort/internal/naming"
)

// Options controls Walk.
type Options struct {
	Extensions    []string
	Recursive     bool
	IncludeHidden bool
	// Exclude lists directories that are pruned from the walk, typically the
	// target root when it sits inside a source directory.
	Exclude []string
	// Logger receives warnings about subdirectories that cannot be read.
	Logger *slog.Logger
}

// ListDir returns the regular files directly inside dir whose extension is in
// extensions, sorted by name.
func ListDir(dir string, extensions []string) ([]string, error) {
	set, err := extensionSet(extensions)
	if err != nil {
		return nil, err
	}
	if err := checkDir(dir); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errs.Path(errs.ErrFilesystem, "read directory", dir, "", err)
	}
	var out []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && matches(entry.Name(), set) {
			out = append(out, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// Walk returns matching files under every dir in dirs. Within a directory
// files come in natural order (IMG_2 before IMG_10); a file reachable from two
// source directories is returned once.
func Walk(dirs []string, opts Options) ([]string, error) {
	set, err := extensionSet(opts.Extensions)
	if err != nil {
		return nil, err
	}
	if len(dirs) == 0 {
		return nil, errs.Wrap(errs.ErrConfiguration, "discovery", "walk", "no source directories configured", nil)
	}

	excluded := make(map[string]struct{}, len(opts.Exclude))
	for _, dir := range opts.Exclude {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		excluded[cleanAbs(dir)] = struct{}{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "discovery")

	seen := make(map[string]struct{})
	var out []string
	for _, root := range dirs {
		if err := checkDir(root); err != nil {
			return nil, err
		}
		w := walker{set: set, opts: opts, excluded: excluded, logger: logger}
		files, err := w.walkDir(cleanAbs(root), true)
		if err != nil {
			return nil, err
		}
		for _, path := range files {
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}
			out = append(out, path)
		}
	}
	return out, nil
}

type walker struct {
	set      map[string]struct{}
	opts     Options
	excluded map[string]struct{}
	logger   *slog.Logger
}

// walkDir lists one directory's files before descending into its
// subdirectories, both in natural order. Only an unreadable root is an error;
// an unreadable subdirectory is logged and skipped.
func (w walker) walkDir(dir string, root bool) ([]string, error) {
	set, opts, excluded := w.set, w.opts, w.excluded
	entries, err := os.ReadDir(dir)
	if err != nil {
		if root {
			return nil, errs.Path(errs.ErrFilesystem, "read directory", dir, "", err)
		}
		logging.WarnWithContext(w.logger, "skipping unreadable directory", "directory_unreadable",
			logging.String("path", dir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the directory"),
			logging.String(logging.FieldImpact, "files below this directory are not sorted"),
		)
		return nil, nil
	}

	var files, subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		if !opts.IncludeHidden && strings.HasPrefix(name, ".") {
			continue
		}
		switch {
		case entry.Type()&fs.ModeSymlink != 0:
			continue
		case entry.IsDir():
			path := filepath.Join(dir, name)
			if _, skip := excluded[path]; !skip && opts.Recursive {
				subdirs = append(subdirs, name)
			}
		case entry.Type().IsRegular() && matches(name, set):
			files = append(files, name)
		}
	}
	naturalSort(files)
	naturalSort(subdirs)

	out := make([]string, 0, len(files))
	for _, name := range files {
		out = append(out, filepath.Join(dir, name))
	}
	for _, name := range subdirs {
		nested, err := w.walkDir(filepath.Join(dir, name), false)
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
	}
	return out, nil
}

// Matches reports whether name carries one of extensions.
func Matches(name string, extensions []string) bool {
	_, ext := naming.SplitName(name)
	return ext != "" && slices.Contains(extensions, ext)
}

func matches(name string, set map[string]struct{}) bool {
	_, ext := naming.SplitName(name)
	if ext == "" {
		return false
	}
	_, ok := set[ext]
	return ok
}

func extensionSet(extensions []string) (map[string]struct{}, error) {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		if ext = strings.TrimSpace(ext); ext != "" {
			set[ext] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil, errs.Wrap(errs.ErrConfiguration, "discovery", "filter extensions", "no file extensions configured", nil)
	}
	return set, nil
}

func checkDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errs.Path(errs.ErrNotFound, "open source directory", dir, "", err)
		}
		return errs.Path(errs.ErrFilesystem, "open source directory", dir, "", err)
	}
	if !info.IsDir() {
		return errs.Path(errs.ErrNotFound, "open source directory", dir, "", fmt.Errorf("not a directory"))
	}
	return nil
}

func naturalSort(names []string) {
	sort.Slice(names, func(i, j int) bool {
		return natural.Less(names[i], names[j])
	})
}

func cleanAbs(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
