package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDiscovery()
	c.normalizeLogging()
	c.normalizeCategories()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	dirs := make([]string, 0, len(c.Paths.SourceDirs))
	for i, dir := range c.Paths.SourceDirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		expanded, err := expandPath(strings.TrimSpace(dir))
		if err != nil {
			return fmt.Errorf("paths.source_dirs[%d]: %w", i, err)
		}
		dirs = append(dirs, expanded)
	}
	c.Paths.SourceDirs = dirs

	c.Paths.TargetDir = strings.TrimSpace(c.Paths.TargetDir)
	if c.Paths.TargetDir == "" {
		if value, ok := os.LookupEnv(TargetDirEnv); ok {
			c.Paths.TargetDir = strings.TrimSpace(value)
		}
	}
	if c.Paths.TargetDir, err = expandPath(c.Paths.TargetDir); err != nil {
		return fmt.Errorf("paths.target_dir: %w", err)
	}

	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

// Extensions keep their case; only surrounding whitespace and duplicates go.
func (c *Config) normalizeDiscovery() {
	seen := make(map[string]struct{}, len(c.Discovery.Extensions))
	exts := make([]string, 0, len(c.Discovery.Extensions))
	for _, ext := range c.Discovery.Extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if _, dup := seen[ext]; dup {
			continue
		}
		seen[ext] = struct{}{}
		exts = append(exts, ext)
	}
	c.Discovery.Extensions = exts
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// Folder names are compared and created in NFC so a name typed on macOS
// matches the same name typed elsewhere.
func (c *Config) normalizeCategories() {
	for i := range c.Categories {
		c.Categories[i].Name = norm.NFC.String(strings.TrimSpace(c.Categories[i].Name))
		for j := range c.Categories[i].Ranges {
			c.Categories[i].Ranges[j].Start = strings.TrimSpace(c.Categories[i].Ranges[j].Start)
			c.Categories[i].Ranges[j].End = strings.TrimSpace(c.Categories[i].Ranges[j].End)
		}
	}
}
