package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/fast-cli/internal/adapters/mcp"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol (MCP) server for integration with AI assistants.
The server provides tools for reading and driving the current fast and
for querying fasting history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.config.MCP.Enabled {
			return fmt.Errorf("the MCP server is disabled (fast config set mcp.enabled true)")
		}

		// stdout carries the protocol.
		fmt.Fprintln(os.Stderr, "🚀 Starting MCP server...")
		fmt.Fprintln(os.Stderr, "   The server will communicate via stdio")
		fmt.Fprintln(os.Stderr, "   Press Ctrl+C to stop")

		ctx, cancel := setupSignalHandler()
		defer cancel()

		server := mcp.NewServer(app.state, Version)
		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}
