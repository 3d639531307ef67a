package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kjourdan1/hbstree/internal/audit"
	"github.com/kjourdan1/hbstree/internal/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show CLI audit history",
	Long: `Displays audit events written by hbstree in JSONL format.

By default, reads ~/.hbstree/audit.log and prints the latest events.
Use --operation to filter on a command name (build, watch, ...).`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var (
	historyOperation string
	historyLimit     int
)

func init() {
	historyCmd.Flags().StringVar(&historyOperation, "operation", "", "filter by command name")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "max number of events to display")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	output.Init(verbosity > 0, jsonOutput)

	events, err := audit.ReadUserAudit()
	if err != nil {
		return fmt.Errorf("history failed: %w", err)
	}

	filtered := make([]audit.Event, 0, len(events))
	for _, event := range events {
		if historyOperation != "" && event.Operation != historyOperation {
			continue
		}
		filtered = append(filtered, event)
	}

	start := 0
	if historyLimit > 0 && len(filtered) > historyLimit {
		start = len(filtered) - historyLimit
	}
	filtered = filtered[start:]

	if jsonOutput {
		output.JSON(filtered)
		return nil
	}

	out := cmd.OutOrStdout()
	if len(events) == 0 {
		fmt.Fprintln(out, "No audit events found.")
		return nil
	}
	if len(filtered) == 0 {
		fmt.Fprintln(out, "No matching audit events.")
		return nil
	}

	bold := color.New(color.Bold)
	bold.Fprintln(out, "📜 hbstree history")
	for _, event := range filtered {
		status := color.New(color.FgGreen)
		if event.Result != "success" {
			status = color.New(color.FgRed)
		}
		status.Fprintf(out, "  %s", event.Result)
		fmt.Fprintf(out, "  %s  op=%s", event.Timestamp, event.Operation)
		if root := event.MetadataValue("root"); root != "" && root != "." {
			fmt.Fprintf(out, "  root=%s", root)
		}
		fmt.Fprintf(out, "  exit=%d  duration=%dms\n", event.ExitCode, event.DurationMs)
	}

	return nil
}
