package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/fast-cli/internal/adapters/tui"
	"github.com/xvierd/fast-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit fasting settings",
	Long: `Interactively configure the default protocol, auto-finalize,
notifications and goals. Use "config set" to change a single setting
from scripts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader := bufio.NewReader(cmd.InOrStdin())
		out := cmd.OutOrStdout()
		cfg := app.config

		printConfig(out, cfg)
		fmt.Fprintln(out, "  What would you like to change?")
		fmt.Fprintln(out, "    [p] Default protocol")
		fmt.Fprintln(out, "    [a] Toggle auto-finalize")
		fmt.Fprintln(out, "    [n] Notifications")
		fmt.Fprintln(out, "    [g] Goals")
		fmt.Fprintln(out, "    [q] Quit without saving")
		fmt.Fprint(out, "  Choose: ")

		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(strings.ToLower(choice))

		switch choice {
		case "p":
			return editDefaultProtocol(out, cfg)
		case "a":
			cfg.AutoFinalize = !cfg.AutoFinalize
			return saveConfig(out, cfg)
		case "n":
			return editNotifications(reader, out, cfg)
		case "g":
			return editGoals(reader, out, cfg)
		case "q", "":
			fmt.Fprintln(out, "  No changes made.")
			return nil
		default:
			return fmt.Errorf("invalid choice %q", choice)
		}
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"default_protocol":      app.config.DefaultProtocol,
				"auto_finalize":         app.config.AutoFinalize,
				"notifications.enabled": app.config.Notifications.Enabled,
				"notifications.sound":   app.config.Notifications.Sound,
				"goals.weekly_days":     app.config.Goals.WeeklyDays,
				"goals.streak_days":     app.config.Goals.StreakDays,
				"mcp.enabled":           app.config.MCP.Enabled,
				"storage.data_dir":      app.config.Storage.DataDir,
			}, "config")
		}
		printConfig(cmd.OutOrStdout(), app.config)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a single setting",
	Long:  "Change a single setting. Keys: " + strings.Join(config.Keys(), ", ") + ".",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.config.Set(args[0], args[1]); err != nil {
			return err
		}
		return saveConfig(cmd.OutOrStdout(), app.config)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func printConfig(out io.Writer, cfg *config.Config) {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}

	notifStatus := onOff(cfg.Notifications.Enabled)
	if cfg.Notifications.Enabled && cfg.Notifications.Sound {
		notifStatus = "on (with sound)"
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "  Current configuration:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "    Default protocol:  %s\n", cfg.DefaultProtocol)
	fmt.Fprintf(out, "    Auto-finalize:     %s\n", onOff(cfg.AutoFinalize))
	fmt.Fprintf(out, "    Notifications:     %s\n", notifStatus)
	fmt.Fprintf(out, "    Weekly goal:       %d days\n", cfg.Goals.WeeklyDays)
	fmt.Fprintf(out, "    Streak goal:       %d days\n", cfg.Goals.StreakDays)
	fmt.Fprintf(out, "    Data directory:    %s\n", cfg.Storage.DataDir)
	fmt.Fprintln(out)
}

func saveConfig(out io.Writer, cfg *config.Config) error {
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintln(out, "  ✅ Configuration saved.")
	return nil
}

func editDefaultProtocol(out io.Writer, cfg *config.Config) error {
	catalog, err := cfg.Catalog()
	if err != nil {
		return err
	}

	items, cursor := tui.ProtocolItems(catalog, cfg.DefaultProtocol)
	result := tui.RunPicker("Default protocol:", items, cursor, "", &cfg.Theme)
	if result.Aborted {
		fmt.Fprintln(out, "  No changes made.")
		return nil
	}

	cfg.DefaultProtocol = items[result.Index].Label
	return saveConfig(out, cfg)
}

func editNotifications(reader *bufio.Reader, out io.Writer, cfg *config.Config) error {
	fmt.Fprintln(out, "    [1] Off")
	fmt.Fprintln(out, "    [2] On")
	fmt.Fprintln(out, "    [3] On with sound")
	fmt.Fprint(out, "  Choose: ")

	choice, _ := reader.ReadString('\n')
	switch strings.TrimSpace(choice) {
	case "1":
		cfg.Notifications.Enabled = false
		cfg.Notifications.Sound = false
	case "2":
		cfg.Notifications.Enabled = true
		cfg.Notifications.Sound = false
	case "3":
		cfg.Notifications.Enabled = true
		cfg.Notifications.Sound = true
	default:
		fmt.Fprintln(out, "  No changes made.")
		return nil
	}
	return saveConfig(out, cfg)
}

func editGoals(reader *bufio.Reader, out io.Writer, cfg *config.Config) error {
	prompt := func(label, key string, current int) error {
		fmt.Fprintf(out, "  %s [%d]: ", label, current)
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			return nil
		}
		return cfg.Set(key, line)
	}

	if err := prompt("Days per week", "goals.weekly_days", cfg.Goals.WeeklyDays); err != nil {
		return err
	}
	if err := prompt("Streak days", "goals.streak_days", cfg.Goals.StreakDays); err != nil {
		return err
	}
	fmt.Fprintf(out, "  Goals: %d days a week, %d day streak\n", cfg.Goals.WeeklyDays, cfg.Goals.StreakDays)
	return saveConfig(out, cfg)
}
