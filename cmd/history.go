package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/fast-cli/internal/domain"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded fasts",
	Long:  `List recorded fasts, most recent first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		records, err := app.history.ListHistory(ctx, historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}

		if jsonOutput {
			list := make([]map[string]interface{}, 0, len(records))
			for _, r := range records {
				list = append(list, recordJSON(r))
			}
			return printJSON(out, list, "history")
		}

		if len(records) == 0 {
			fmt.Fprintln(out, "No fasts recorded yet. Start one with \"fast start\".")
			return nil
		}

		for _, r := range records {
			icon := "⏹️ "
			if r.Completed {
				icon = "✅"
			}
			fmt.Fprintf(out, "%s %s  %-6s %8s  %-10s %s\n", icon, r.Date, r.ProtocolName,
				domain.FormatHoursMinutes(r.DurationSeconds), r.StatusLabel(), domain.ShortID(r.ID))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of fasts to list (0 for all)")
}
