package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"picsort/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test:
// <base>/source (created), <base>/library (created) and <base>/state.
// It applies any provided options afterwards.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.SourceDirs = []string{filepath.Join(base, "source")}
	cfgVal.Paths.TargetDir = filepath.Join(base, "library")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	for _, dir := range []string{cfgVal.Paths.SourceDirs[0], cfgVal.Paths.TargetDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCopy switches the test config to copy mode.
func WithCopy() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transfer.Copy = true
	}
}

// WithScheme overrides the naming flags.
func WithScheme(keepOriginal, prependTimestamp bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Naming.KeepOriginalName = keepOriginal
		b.cfg.Naming.PrependTimestamp = prependTimestamp
	}
}

// WithCategory appends a category covering the given start/end bounds, which
// use the same formats as the config file.
func WithCategory(name string, bounds ...[2]string) ConfigOption {
	return func(b *configBuilder) {
		entry := config.Category{Name: name}
		for _, bound := range bounds {
			entry.Ranges = append(entry.Ranges, config.Range{Start: bound[0], End: bound[1]})
		}
		b.cfg.Categories = append(b.cfg.Categories, entry)
	}
}

// WithoutHistory disables the placement journal.
func WithoutHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = false
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}

// SourceDir returns the first configured source directory.
func SourceDir(cfg *config.Config) string {
	return cfg.Paths.SourceDirs[0]
}
