package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// protocolsCmd represents the protocols command
var protocolsCmd = &cobra.Command{
	Use:     "protocols",
	Aliases: []string{"ls-protocols"},
	Short:   "List fasting protocols",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		catalog := app.fasting.Catalog()
		def, _ := app.fasting.ResolveProtocol("")

		if jsonOutput {
			list := make([]map[string]interface{}, 0, len(catalog.All()))
			for _, p := range catalog.All() {
				list = append(list, map[string]interface{}{
					"name":           p.Name,
					"fast_hours":     p.FastHours,
					"eat_hours":      p.EatHours,
					"target_seconds": p.TargetSeconds(),
					"default":        p.Name == def.Name,
				})
			}
			return printJSON(out, list, "protocols")
		}

		for _, p := range catalog.All() {
			marker := " "
			if p.Name == def.Name {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-6s %s\n", marker, p.Name, p.Label())
		}
		return nil
	},
}
