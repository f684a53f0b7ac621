package cmd

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/fast-cli/internal/domain"
)

var (
	startWatch bool
	startForce bool
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start [protocol]",
	Short: "Start a fast",
	Long: `Start a new fast with the given protocol, such as 16:8 or 18:6.
Partial names work ("fast start 20" picks 20:4). Without a protocol
the configured default is used.

The fast keeps going after this command exits. Use --watch to follow
it in the live timer.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		out := cmd.OutOrStdout()

		var query string
		if len(args) > 0 {
			query = args[0]
		}
		protocol, err := app.fasting.ResolveProtocol(query)
		if err != nil {
			return fmt.Errorf("%w (see \"fast protocols\")", err)
		}

		current, err := app.fasting.Load(ctx)
		if err != nil {
			return fmt.Errorf("failed to get current fast: %w", err)
		}
		if current.Finalized != nil && !jsonOutput {
			printRecord(out, current.Finalized)
		}

		if current.Session.State() != domain.StateIdle {
			snap := current.Snapshot
			if !startForce {
				if jsonOutput {
					return fmt.Errorf("%w: a %s fast is already %s (use --force to replace it)",
						domain.ErrInvalidTransition, snap.ProtocolName, snap.State)
				}

				fmt.Fprintf(out, "⚠️  A %s fast is already %s: %s\n", snap.ProtocolName,
					strings.ToLower(domain.GetStateLabel(snap.State)), domain.RemainingText(snap))
				fmt.Fprint(out, "Do you want to stop it and start a new one? [y/N] ")

				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer = strings.TrimSpace(strings.ToLower(answer))
				if answer != "y" && answer != "yes" {
					fmt.Fprintln(out, "Keeping current fast.")
					return nil
				}
			}

			record, err := app.fasting.StopFast(ctx)
			if err != nil {
				return fmt.Errorf("failed to stop current fast: %w", err)
			}
			if !jsonOutput {
				printRecord(out, record)
			}
		}

		f, err := app.fasting.StartFast(ctx, protocol.Name)
		if err != nil {
			return fmt.Errorf("failed to start fast: %w", err)
		}

		if jsonOutput {
			return printJSON(out, snapshotJSON(f.Snapshot), "fast")
		}

		fmt.Fprintf(out, "⏱  Fast started! %s\n", protocol.Label())
		if f.Snapshot.State == domain.StateActive {
			ends := time.Now().Add(time.Duration(f.Snapshot.RemainingSeconds) * time.Second)
			fmt.Fprintf(out, "   Target: %s, ends around %s\n",
				domain.FormatHoursMinutes(f.Snapshot.TargetSeconds), ends.Format("Mon 15:04"))
		} else {
			fmt.Fprintf(out, "   %s\n", domain.RemainingText(f.Snapshot))
		}

		if startWatch {
			_, err := launchTUI(ctx)
			return err
		}
		return nil
	},
}

func init() {
	startCmd.Flags().BoolVarP(&startWatch, "watch", "w", false, "Follow the fast in the live timer")
	startCmd.Flags().BoolVarP(&startForce, "force", "f", false, "Stop a fast in progress without asking")
}
