package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// resumeCmd represents the resume command
var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused fast",
	Long:  `Resume the paused fast with its original protocol and start time.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		f, err := app.fasting.ResumeFast(ctx)
		if err != nil {
			return fmt.Errorf("failed to resume fast: %w", friendlyError(err))
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), snapshotJSON(f.Snapshot), "fast")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "▶️  Fast resumed.")
		printSnapshot(cmd.OutOrStdout(), f.Snapshot)
		return nil
	},
}
