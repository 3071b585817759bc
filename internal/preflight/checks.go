package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"picsort/internal/config"
	"picsort/internal/history"
	"picsort/internal/naming"
)

// CheckTargetDirectory verifies the target root exists and is writable.
func CheckTargetDirectory(path string) Result {
	const name = "Target directory"
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: fmt.Sprintf("not configured (set paths.target_dir or %s)", config.TargetDirEnv)}
	}
	return CheckDirectoryAccess(name, path, unix.R_OK|unix.W_OK|unix.X_OK)
}

// CheckSourceDirectory verifies a source directory can be listed. Write access
// is only needed for moves, which report their own failures per file.
func CheckSourceDirectory(path string) Result {
	return CheckDirectoryAccess("Source directory", path, unix.R_OK|unix.X_OK)
}

// CheckDirectoryAccess verifies that the directory exists and grants mode.
func CheckDirectoryAccess(name, path string, mode uint32) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	access := "read ok"
	if mode&unix.W_OK != 0 {
		access = "read/write ok"
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, access)}
}

// CheckExtensions requires at least one extension.
func CheckExtensions(extensions []string) Result {
	const name = "Extensions"
	if len(extensions) == 0 {
		return Result{Name: name, Detail: "none configured (discovery.extensions)"}
	}
	return Result{Name: name, Passed: true, Detail: strings.Join(extensions, " ")}
}

// CheckNaming verifies the scheme can produce a filename and shows an example.
func CheckNaming(cfg *config.Config) Result {
	const name = "Naming scheme"
	example, err := naming.Build("IMG_0001.jpg", time.Date(2020, 9, 1, 21, 42, 3, 0, time.Local), cfg.Scheme())
	if err != nil {
		return Result{Name: name, Detail: "neither keep_original_name nor prepend_timestamp is enabled"}
	}
	return Result{Name: name, Passed: true, Detail: "IMG_0001.jpg -> " + example}
}

// CheckCategories parses the configured categories.
func CheckCategories(cfg *config.Config) Result {
	const name = "Categories"
	cats, err := cfg.BuildCategories()
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if len(cats) == 0 {
		return Result{Name: name, Passed: true, Detail: "none (YYYY-MM folders only)"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d configured", len(cats))}
}

// CheckHistory opens the journal to confirm it is usable.
func CheckHistory(_ context.Context, path string) Result {
	const name = "History database"
	store, err := history.Open(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	_ = store.Close()
	return Result{Name: name, Passed: true, Detail: path}
}
