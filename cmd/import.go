package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/fast-cli/internal/adapters/history"
)

var importCmd = &cobra.Command{
	Use:   "import <file.toml>",
	Short: "Import fasting history from a TOML file",
	Long: `Add the fasts listed in a TOML history file, such as one written by
"fast export --format toml". Every record gets a new ID, so importing the
same file twice records the fasts twice.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		records, err := history.ReadFile(args[0])
		if err != nil {
			return err
		}

		n, err := app.history.Import(ctx, records)
		if err != nil {
			return fmt.Errorf("failed to import history: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{"imported": n}, "import result")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "📥 Imported %d fast(s) from %s\n", n, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
