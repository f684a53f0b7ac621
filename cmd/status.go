package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/fast-cli/internal/domain"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current status",
	Long:  `Display the current fast and a summary of your fasting history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		state, err := app.state.GetCurrentState(ctx)
		if err != nil {
			return fmt.Errorf("failed to get current state: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), statusJSON(state), "status")
		}
		printStatusText(cmd.OutOrStdout(), state)
		return nil
	},
}

func statusJSON(state *domain.CurrentState) map[string]interface{} {
	result := map[string]interface{}{
		"timer": snapshotJSON(state.Timer),
		"stats": map[string]interface{}{
			"completed_count":   state.Stats.CompletedCount,
			"current_streak":    state.Stats.CurrentStreak,
			"favorite_protocol": state.Stats.FavoriteProtocolName,
		},
		"goals": map[string]interface{}{
			"weekly_days": state.Goals.WeeklyDays,
			"weekly_goal": state.Goals.WeeklyGoal,
			"streak_days": state.Goals.StreakDays,
			"streak_goal": state.Goals.StreakGoal,
		},
		"finalized": nil,
	}
	if state.LastFinal != nil {
		result["finalized"] = recordJSON(state.LastFinal)
	}
	return result
}

func printStatusText(w io.Writer, state *domain.CurrentState) {
	if state.LastFinal != nil {
		printRecord(w, state.LastFinal)
		fmt.Fprintln(w)
	}

	snap := state.Timer
	switch snap.State {
	case domain.StateIdle:
		fmt.Fprintln(w, "No fast in progress.")
	default:
		fmt.Fprintf(w, "⏱  %s\n", domain.GetStateLabel(snap.State))
		printSnapshot(w, snap)
	}

	fmt.Fprintf(w, "\n📊 History:\n")
	fmt.Fprintf(w, "   Completed: %d\n", state.Stats.CompletedCount)
	fmt.Fprintf(w, "   Streak: %d day(s)\n", state.Stats.CurrentStreak)
	if state.Stats.FavoriteProtocolName != nil {
		fmt.Fprintf(w, "   Favorite: %s\n", *state.Stats.FavoriteProtocolName)
	}
	fmt.Fprintf(w, "   Weekly goal: %d/%d days\n", state.Goals.WeeklyDays, state.Goals.WeeklyGoal)
	fmt.Fprintf(w, "   Streak goal: %d/%d days\n", state.Goals.StreakDays, state.Goals.StreakGoal)
}
