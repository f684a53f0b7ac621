package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/fast-cli/internal/adapters/history"
)

var (
	exportFormat string
	exportPeriod string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export fasting history",
	Long: `Export your fasting history as markdown, CSV, JSON, YAML or TOML.
TOML exports can be read back with "fast import".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "md", "Output format: md, csv, json, yaml or toml")
	exportCmd.Flags().StringVar(&exportPeriod, "period", "all", "Time period: week, month, or all")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
}

func runExport(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	format, err := history.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	records, err := app.history.RecordsForPeriod(ctx, exportPeriod)
	if err != nil {
		return err
	}

	now := time.Now()
	if exportOutput == "" {
		return history.Write(out, format, records, now)
	}

	if err := history.WriteFile(exportOutput, format, records, now); err != nil {
		return err
	}
	fmt.Fprintf(out, "📤 Exported %d fast(s) to %s\n", len(records), exportOutput)
	return nil
}
