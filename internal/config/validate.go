package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"picsort/internal/category"
	"picsort/internal/errs"
	"picsort/internal/logging"
)

// Range bounds accept these layouts, most specific first.
var rangeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

const dateOnlyLayout = "2006-01-02"

// Validate ensures the configuration is usable. Every error wraps
// errs.ErrConfiguration.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.validateNaming,
		c.validateDiscovery,
		c.validateLogging,
		c.validateCategories,
	} {
		if err := check(); err != nil {
			if errors.Is(err, errs.ErrConfiguration) {
				return err
			}
			return fmt.Errorf("%w: %w", errs.ErrConfiguration, err)
		}
	}
	return nil
}

func (c *Config) validateNaming() error {
	if !c.Scheme().Usable() {
		return errors.New("naming: at least one of keep_original_name or prepend_timestamp must be true")
	}
	return nil
}

func (c *Config) validateDiscovery() error {
	if len(c.Discovery.Extensions) == 0 {
		return errors.New("discovery.extensions must list at least one suffix")
	}
	for i, ext := range c.Discovery.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("discovery.extensions[%d] must start with a dot, got %q", i, ext)
		}
		if strings.ContainsAny(ext[1:], "./\\") {
			return fmt.Errorf("discovery.extensions[%d] must be a single suffix, got %q", i, ext)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must be >= 0")
	}
	return nil
}

func (c *Config) validateCategories() error {
	_, err := c.BuildCategories()
	return err
}

func validateCategoryName(name string) error {
	switch {
	case name == "":
		return errors.New("must not be empty")
	case name == "." || name == "..":
		return fmt.Errorf("%q is not a usable folder name", name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%q must not contain path separators", name)
	}
	return nil
}

func parseRange(raw Range) (category.TimeRange, error) {
	start, _, err := parseBound(raw.Start)
	if err != nil {
		return category.TimeRange{}, fmt.Errorf("start: %w", err)
	}
	end, dateOnly, err := parseBound(raw.End)
	if err != nil {
		return category.TimeRange{}, fmt.Errorf("end: %w", err)
	}
	if dateOnly {
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	r, err := category.NewTimeRange(start, end)
	if err != nil {
		return category.TimeRange{}, err
	}
	return r, nil
}

// parseBound interprets value in local time, the same zone EXIF timestamps use.
func parseBound(value string) (time.Time, bool, error) {
	if value == "" {
		return time.Time{}, false, errors.New("is required")
	}
	for _, layout := range rangeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, layout == dateOnlyLayout, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("%q does not match YYYY-MM-DD[ HH:MM:SS]", value)
}
