package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// stopCmd represents the stop command
var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the current fast",
	Long: `End the current fast and record it in history. A fast that reached
its target is recorded as completed, otherwise as incomplete.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		record, err := app.fasting.StopFast(ctx)
		if err != nil {
			return fmt.Errorf("failed to stop fast: %w", friendlyError(err))
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), recordJSON(record), "record")
		}
		printRecord(cmd.OutOrStdout(), record)
		return nil
	},
}
