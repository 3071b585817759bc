package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"picsort/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintf(out, "Set paths.target_dir (or export %s) and paths.source_dirs before running picsort sort.\n", config.TargetDirEnv)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configFlagValue())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if _, err := cfg.BuildCategories(); err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration and categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(tableData{
				Title:   "Settings",
				Headers: []string{"Key", "Value"},
				Rows:    settingsRows(cfg),
			}))
			if len(cfg.Categories) == 0 {
				fmt.Fprintln(out, "No categories configured; files go to YYYY-MM folders")
				return nil
			}
			fmt.Fprintln(out, renderTable(tableData{
				Title:   "Categories",
				Headers: []string{"#", "Name", "Start", "End"},
				Rows:    categoryRows(cfg.Categories),
				Aligns:  []columnAlignment{alignRight},
			}))
			return nil
		},
	}
}

func settingsRows(cfg *config.Config) [][]string {
	mode := "move"
	if cfg.Transfer.Copy {
		mode = "copy"
	}
	sources := strings.Join(cfg.Paths.SourceDirs, "\n")
	if sources == "" {
		sources = "(none)"
	}
	return [][]string{
		{"paths.source_dirs", sources},
		{"paths.target_dir", cfg.Paths.TargetDir},
		{"paths.state_dir", cfg.Paths.StateDir},
		{"naming.keep_original_name", yesNo(cfg.Naming.KeepOriginalName)},
		{"naming.prepend_timestamp", yesNo(cfg.Naming.PrependTimestamp)},
		{"transfer", mode},
		{"discovery.extensions", strings.Join(cfg.Discovery.Extensions, " ")},
		{"discovery.recursive", yesNo(cfg.Discovery.Recursive)},
		{"discovery.include_hidden", yesNo(cfg.Discovery.IncludeHidden)},
		{"timestamps.filename_patterns", yesNo(cfg.Timestamps.FilenamePatterns)},
		{"history.enabled", yesNo(cfg.History.Enabled)},
		{"logging", fmt.Sprintf("%s, %s, %d days", cfg.Logging.Format, cfg.Logging.Level, cfg.Logging.RetentionDays)},
	}
}

func categoryRows(categories []config.Category) [][]string {
	var rows [][]string
	for i, c := range categories {
		for j, r := range c.Ranges {
			index, name := "", ""
			if j == 0 {
				index, name = fmt.Sprintf("%d", i+1), c.Name
			}
			rows = append(rows, []string{index, name, r.Start, r.End})
		}
	}
	return rows
}
