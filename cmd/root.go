// Package cmd provides the CLI commands for the fast application.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xvierd/fast-cli/internal/adapters/ticker"
	"github.com/xvierd/fast-cli/internal/adapters/tui"
	"github.com/xvierd/fast-cli/internal/domain"
	"github.com/xvierd/fast-cli/internal/logging"
	"github.com/xvierd/fast-cli/internal/ports"
	"github.com/xvierd/fast-cli/internal/services"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath     string
	jsonOutput bool
	debugMode  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fast",
	Short: "Fast - an intermittent fasting timer with history and streaks",
	Long: `Fast is a command-line intermittent fasting timer. It tracks a fast
against a protocol such as 16:8, keeps going between invocations, and
records finished fasts so you can follow your streak and weekly goal.

Run "fast" with no arguments to pick a protocol and watch the live timer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: runWizard,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the database file (default: ~/.fast/fast.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Write debug logs to ~/.fast/logs")

	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("Fast CLI\nVersion: {{.Version}}\n")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(protocolsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
}

// runWizard implements the interactive flow for the bare "fast" command:
// resume a running fast or pick a protocol, then show the live timer.
func runWizard(cmd *cobra.Command, args []string) error {
	ctx, cancel := setupSignalHandler()
	defer cancel()

	for {
		state, err := app.state.GetCurrentState(ctx)
		if err != nil {
			return fmt.Errorf("failed to get current state: %w", err)
		}

		if state.Timer.State == domain.StateIdle {
			fmt.Println()
			items, cursor := tui.ProtocolItems(app.fasting.Catalog(), app.config.DefaultProtocol)
			footer := `Add protocols in ~/.fast/config.toml · "fast config" to change the default`
			if state.LastFinal != nil {
				footer = fmt.Sprintf("Recorded %s fast: %s (%s)", state.LastFinal.ProtocolName,
					domain.FormatHoursMinutes(state.LastFinal.DurationSeconds), state.LastFinal.StatusLabel())
			}
			result := tui.RunPicker("Protocol:", items, cursor, footer, &app.config.Theme)
			if result.Aborted {
				return nil
			}
			if _, err := app.fasting.StartFast(ctx, items[result.Index].Label); err != nil {
				return fmt.Errorf("failed to start fast: %w", err)
			}
		}

		again, err := launchTUI(ctx)
		if err != nil {
			return err
		}
		if !again || ctx.Err() != nil {
			return nil
		}
	}
}

// launchTUI runs the live timer for the current fast until the user quits.
// It reports whether the user asked to start another fast.
func launchTUI(ctx context.Context) (bool, error) {
	runner := services.NewRunner(app.fasting, ticker.New(0))
	timer := tui.NewTimer(&app.config.Theme)

	f, err := runner.Open(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load fast: %w", err)
	}
	state, err := app.state.StateFor(ctx, f)
	if err != nil {
		return false, fmt.Errorf("failed to get current state: %w", err)
	}

	refresh := func(final *domain.SessionRecord) {
		next, err := app.state.StateWith(ctx, runner.Snapshot(), final)
		if err != nil {
			logging.Logger.Error("failed to refresh state", "error", err)
			return
		}
		timer.UpdateState(next)
	}

	runner.OnUpdate(timer.UpdateSnapshot)
	runner.OnFinalize(refresh)

	timer.SetCommandCallback(func(cmd ports.TimerCommand) error {
		switch cmd {
		case ports.CmdPause:
			if _, err := runner.Pause(); err != nil {
				return friendlyError(err)
			}
			refresh(nil)
		case ports.CmdResume:
			if _, err := runner.Resume(); err != nil {
				return friendlyError(err)
			}
			refresh(nil)
		case ports.CmdStop:
			record, err := runner.Stop()
			if err != nil {
				return friendlyError(err)
			}
			refresh(record)
		default:
			return fmt.Errorf("unknown command: %v", cmd)
		}
		return nil
	})

	runErr := timer.Run(ctx, state)
	if err := runner.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save fast: %v\n", err)
	}
	if runErr != nil {
		return false, fmt.Errorf("timer error: %w", runErr)
	}
	return timer.WantsNewFast(), nil
}

// friendlyError turns domain sentinels into short user-facing messages.
func friendlyError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNoActiveSession):
		return fmt.Errorf("%w. Start one with \"fast start\"", err)
	case errors.Is(err, domain.ErrInvalidTransition):
		return fmt.Errorf("cannot do that right now: %w", err)
	default:
		return err
	}
}
