package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"picsort/internal/config"
	"picsort/internal/logging"
	"picsort/internal/organizer"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var target string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Show the capture time and planned placement of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			settings, err := organizer.SettingsFromConfig(cfg)
			if err != nil {
				return err
			}
			if target != "" {
				if settings.TargetRoot, err = config.ExpandPath(target); err != nil {
					return fmt.Errorf("resolve target: %w", err)
				}
			}
			settings.DryRun = true
			org, err := organizer.New(settings, logging.NewNop())
			if err != nil {
				return err
			}

			plans := make([]inspectRow, 0, len(args))
			failed := 0
			for _, arg := range args {
				path, err := config.ExpandPath(arg)
				if err != nil {
					return fmt.Errorf("resolve %q: %w", arg, err)
				}
				plan, err := org.Inspect(path)
				row := inspectRow{File: path}
				if err != nil {
					row.Error = err.Error()
					failed++
				} else {
					row.CaptureTime = plan.CaptureTime.Format(time.DateTime)
					row.Source = string(plan.CaptureSource)
					row.Category = plan.Category
					row.Folder = displayTarget(plan.TargetDir, settings.TargetRoot)
					row.Name = plan.TargetName
				}
				plans = append(plans, row)
			}

			if jsonOut {
				if err := writeJSONList(cmd, plans); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), renderInspect(plans))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files could not be inspected", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "Target library directory (overrides paths.target_dir)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	return cmd
}

type inspectRow struct {
	File        string `json:"file"`
	CaptureTime string `json:"capture_time,omitempty"`
	Source      string `json:"capture_source,omitempty"`
	Category    string `json:"category,omitempty"`
	Folder      string `json:"folder,omitempty"`
	Name        string `json:"name,omitempty"`
	Error       string `json:"error,omitempty"`
}

func renderInspect(rows []inspectRow) string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		if r.Error != "" {
			out = append(out, []string{filepath.Base(r.File), "", "", "", r.Error})
			continue
		}
		out = append(out, []string{filepath.Base(r.File), r.CaptureTime, r.Source, r.Folder, r.Name})
	}
	return renderTable(tableData{
		Headers: []string{"File", "Captured", "From", "Folder", "Name"},
		Rows:    out,
	})
}
