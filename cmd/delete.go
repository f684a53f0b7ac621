package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/fast-cli/internal/domain"
)

var deleteYes bool

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete [record-id]",
	Short: "Delete a recorded fast",
	Long: `Delete a recorded fast by its ID or a unique prefix of it, as shown
by "fast history". This cannot be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()
		id := args[0]

		record, err := app.history.GetRecord(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return fmt.Errorf("record not found: %s", id)
			}
			return fmt.Errorf("failed to get record: %w", err)
		}

		if !jsonOutput && !deleteYes {
			fmt.Fprintf(out, "Are you sure you want to delete the %s fast from %s (%s)? [y/N]: ",
				record.ProtocolName, record.Date, domain.ShortID(record.ID))
			confirm, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			confirm = strings.TrimSpace(confirm)
			if confirm != "y" && confirm != "Y" {
				fmt.Fprintln(out, "Deletion cancelled.")
				return nil
			}
		}

		deleted, err := app.history.DeleteRecord(ctx, record.ID)
		if err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}

		if jsonOutput {
			return printJSON(out, map[string]interface{}{"deleted": true, "record_id": deleted.ID}, "delete result")
		}
		fmt.Fprintf(out, "🗑️  Deleted the %s fast from %s.\n", deleted.ProtocolName, deleted.Date)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}
