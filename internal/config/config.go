package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"picsort/internal/category"
	"picsort/internal/errs"
	"picsort/internal/naming"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains source, target, and state directories.
type Paths struct {
	SourceDirs []string `toml:"source_dirs"`
	TargetDir  string   `toml:"target_dir"`
	StateDir   string   `toml:"state_dir"`
}

// Naming selects the parts that make up a target filename.
type Naming struct {
	KeepOriginalName bool `toml:"keep_original_name"`
	PrependTimestamp bool `toml:"prepend_timestamp"`
}

// Transfer selects copy or move placement.
type Transfer struct {
	Copy bool `toml:"copy"`
}

// Discovery controls which files are picked up from the source directories.
type Discovery struct {
	// Extensions are matched case-sensitively against the last dot suffix.
	Extensions    []string `toml:"extensions"`
	Recursive     bool     `toml:"recursive"`
	IncludeHidden bool     `toml:"include_hidden"`
}

// Timestamps configures the optional capture-time readers.
type Timestamps struct {
	FilenamePatterns bool `toml:"filename_patterns"`
}

// History toggles the placement journal.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Range is one inclusive date interval as written in the file.
type Range struct {
	Start string `toml:"start"`
	End   string `toml:"end"`
}

// Category maps a folder name to the ranges it covers.
type Category struct {
	Name   string  `toml:"name"`
	Ranges []Range `toml:"ranges"`
}

// Config encapsulates all configuration values for picsort.
type Config struct {
	Paths      Paths      `toml:"paths"`
	Naming     Naming     `toml:"naming"`
	Transfer   Transfer   `toml:"transfer"`
	Discovery  Discovery  `toml:"discovery"`
	Timestamps Timestamps `toml:"timestamps"`
	History    History    `toml:"history"`
	Logging    Logging    `toml:"logging"`
	Categories []Category `toml:"categories"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/picsort/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("%w: parse config: %w", errs.ErrConfiguration, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("picsort.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories. The target root is
// left alone; a missing target is reported by preflight instead.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.LogDir()} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LogDir is where per-run log files are written.
func (c *Config) LogDir() string {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.StateDir, "logs")
}

// HistoryPath is the location of the placement journal.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Paths.StateDir, "history.db")
}

// Scheme returns the naming scheme selected by [naming].
func (c *Config) Scheme() naming.Scheme {
	return naming.Scheme{
		KeepOriginalName: c.Naming.KeepOriginalName,
		PrependTimestamp: c.Naming.PrependTimestamp,
	}
}

// BuildCategories parses the configured categories. Errors name the offending
// key and wrap errs.ErrConfiguration.
func (c *Config) BuildCategories() (category.Categories, error) {
	out := make(category.Categories, 0, len(c.Categories))
	seen := make(map[string]int, len(c.Categories))
	for i, entry := range c.Categories {
		key := fmt.Sprintf("categories[%d]", i)
		if err := validateCategoryName(entry.Name); err != nil {
			return nil, fmt.Errorf("%w: %s.name: %w", errs.ErrConfiguration, key, err)
		}
		if prev, dup := seen[entry.Name]; dup {
			return nil, fmt.Errorf("%w: %s.name: duplicates categories[%d]", errs.ErrConfiguration, key, prev)
		}
		seen[entry.Name] = i
		if len(entry.Ranges) == 0 {
			return nil, fmt.Errorf("%w: %s.ranges: at least one range is required", errs.ErrConfiguration, key)
		}
		cat := category.New(entry.Name)
		for j, raw := range entry.Ranges {
			rangeKey := fmt.Sprintf("%s.ranges[%d]", key, j)
			r, err := parseRange(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %w", errs.ErrConfiguration, rangeKey, err)
			}
			if !cat.AddRange(r) {
				return nil, fmt.Errorf("%w: %s: overlaps an earlier range", errs.ErrConfiguration, rangeKey)
			}
		}
		out = append(out, cat)
	}
	return out, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the commented sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
