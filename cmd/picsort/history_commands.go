package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"picsort/internal/history"
	"picsort/internal/placer"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the placement journal",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryRunsCommand(ctx))
	historyCmd.AddCommand(newHistoryStatsCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))

	return historyCmd
}

func (c *commandContext) withHistory(fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var filter history.Filter
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent placements",
		RunE: func(cmd *cobra.Command, args []string) error {
			if filter.Outcome != "" && !knownOutcome(filter.Outcome) {
				return fmt.Errorf("unknown outcome %q (use %s)", filter.Outcome, outcomeNames())
			}
			return ctx.withHistory(func(store *history.Store) error {
				records, err := store.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSONList(cmd, records)
				}
				out := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(out, "No placements recorded")
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, r := range records {
					detail := r.Target
					if r.Error != "" {
						detail = r.Error
					}
					rows = append(rows, []string{
						fmt.Sprintf("%d", r.ID),
						r.CreatedAt.Local().Format(time.DateTime),
						r.Outcome,
						r.Source,
						detail,
					})
				}
				fmt.Fprintln(out, renderTable(tableData{
					Headers: []string{"ID", "When", "Outcome", "Source", "Target"},
					Rows:    rows,
					Aligns:  []columnAlignment{alignRight},
				}))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&filter.RunID, "run", "", "Only show placements from this run")
	cmd.Flags().StringVar(&filter.Outcome, "outcome", "", "Only show this outcome ("+outcomeNames()+")")
	cmd.Flags().IntVarP(&filter.Limit, "limit", "n", 50, "Maximum number of records")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")
	return cmd
}

func newHistoryRunsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Summarize recent sort runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				runs, err := store.Runs(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, r := range runs {
					rows = append(rows, []string{
						r.RunID,
						r.StartedAt.Local().Format(time.DateTime),
						fmt.Sprintf("%d", r.Total),
						fmt.Sprintf("%d", r.Outcomes[string(placer.OutcomeMoved)]+r.Outcomes[string(placer.OutcomeCopied)]),
						fmt.Sprintf("%d", r.Outcomes[string(placer.OutcomeSkippedDuplicate)]),
						fmt.Sprintf("%d", r.Outcomes[string(placer.OutcomeFailed)]),
						humanize.Bytes(uint64(max(r.Bytes, 0))),
					})
				}
				fmt.Fprintln(out, renderTable(tableData{
					Headers: []string{"Run", "Started", "Files", "Placed", "Duplicates", "Failed", "Size"},
					Rows:    rows,
					Aligns:  []columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
				}))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs")
	return cmd
}

func newHistoryStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Count placements per outcome",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				total := 0
				rows := make([][]string, 0, len(placer.Outcomes))
				for _, outcome := range placer.Outcomes {
					count := stats[string(outcome)]
					total += count
					rows = append(rows, []string{string(outcome), fmt.Sprintf("%d", count)})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(tableData{
					Headers: []string{"Outcome", "Files"},
					Rows:    rows,
					Aligns:  []columnAlignment{alignLeft, alignRight},
					Footer:  []string{"total", fmt.Sprintf("%d", total)},
				}))
				return nil
			})
		},
	}
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every journal entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d history entries\n", removed)
				return nil
			})
		},
	}
}

func knownOutcome(value string) bool {
	for _, outcome := range placer.Outcomes {
		if string(outcome) == value {
			return true
		}
	}
	return false
}

func outcomeNames() string {
	names := make([]string, 0, len(placer.Outcomes))
	for _, outcome := range placer.Outcomes {
		names = append(names, string(outcome))
	}
	return strings.Join(names, ", ")
}
