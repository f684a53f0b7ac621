package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// pauseCmd represents the pause command
var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the current fast",
	Long:  `Pause the running fast. Paused time does not count toward the target.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		f, err := app.fasting.PauseFast(ctx)
		if err != nil {
			return fmt.Errorf("failed to pause fast: %w", friendlyError(err))
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), snapshotJSON(f.Snapshot), "fast")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "⏸️  Fast paused.")
		printSnapshot(cmd.OutOrStdout(), f.Snapshot)
		return nil
	},
}
