package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"picsort/internal/config"
	"picsort/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [dir...]",
		Short: "Run preflight checks against the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if ctx.configPath != "" {
				fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			}
			dirs := make([]string, 0, len(args))
			for _, arg := range args {
				dir, err := config.ExpandPath(arg)
				if err != nil {
					return fmt.Errorf("resolve %q: %w", arg, err)
				}
				dirs = append(dirs, dir)
			}
			results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{SourceDirs: dirs})
			for _, line := range preflightLines(results, shouldColorize(out)) {
				fmt.Fprintln(out, line)
			}
			if failed := preflight.Failures(results); len(failed) > 0 {
				return fmt.Errorf("preflight failed: %s", preflight.Summarize(failed))
			}
			return nil
		},
	}
}
