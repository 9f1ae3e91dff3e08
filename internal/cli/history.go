package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/autorelease/internal/history"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	var clear bool
	cmd := &cobra.Command{
		Use:     "history",
		Short:   "View past release runs",
		Long:    `View the run log with timestamp, command, outcome, version, tag state, exit code and duration. Newest runs are listed first.`,
		Args:    cobra.NoArgs,
		GroupID: GroupConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("limit must be positive, got %d", limit)
			}
			cfg, err := a.config()
			if err != nil {
				return err
			}

			if clear {
				if err := history.ClearHistory(cfg.StateDir); err != nil {
					return fmt.Errorf("clearing history: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
				return nil
			}

			histFile, err := history.LoadHistory(cfg.StateDir)
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}
			entries := histFile.Latest(limit)
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No history available.")
				return nil
			}
			displayEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Limit to last N entries (most recent)")
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear all history")
	return cmd
}

func displayEntries(out io.Writer, entries []history.HistoryEntry) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	for _, entry := range entries {
		timestamp := entry.Timestamp.Format("2006-01-02 15:04:05")

		outcome := fmt.Sprintf("%-18s", entry.Outcome)
		switch entry.Outcome {
		case history.OutcomeReleased:
			outcome = green(outcome)
		case history.OutcomePartial:
			outcome = yellow(outcome)
		case history.OutcomeFailed:
			outcome = red(outcome)
		}

		ver := entry.Version
		if ver == "" {
			ver = "-"
		}
		tag := "-"
		switch {
		case entry.TagPushed:
			tag = entry.Tag + " (pushed)"
		case entry.TagCreated:
			tag = entry.Tag
		}

		fmt.Fprintf(out, "%s  %-8s  %s  %-8s  %-18s  exit=%d  %s\n",
			cyan(timestamp),
			entry.Command,
			outcome,
			ver,
			tag,
			entry.ExitCode,
			entry.Duration,
		)
		if entry.Error != "" {
			fmt.Fprintf(out, "    %s\n", red(entry.Error))
		}
	}
}
