package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/fast-cli/internal/domain"
)

var statsPeriod string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a dashboard of fasting statistics",
	Long: `Display a terminal dashboard with completed fasts, the current streak,
your favorite protocol, goal progress and time fasted per protocol.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		stats, goals, err := app.history.Summary(ctx)
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		records, err := app.history.RecordsForPeriod(ctx, statsPeriod)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"completed_count":   stats.CompletedCount,
				"current_streak":    stats.CurrentStreak,
				"favorite_protocol": stats.FavoriteProtocolName,
				"weekly_days":       goals.WeeklyDays,
				"weekly_goal":       goals.WeeklyGoal,
				"streak_days":       goals.StreakDays,
				"streak_goal":       goals.StreakGoal,
				"period":            statsPeriod,
				"period_fasts":      len(records),
			}, "stats")
		}

		fmt.Fprintln(cmd.OutOrStdout())
		renderDashboard(cmd.OutOrStdout(), stats, goals, records)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsPeriod, "period", "p", "week", "Time period for the breakdown: week, month or all")
	rootCmd.AddCommand(statsCmd)
}

// protocolTotal is the time fasted on one protocol within the period.
type protocolTotal struct {
	Name    string
	Count   int
	Seconds int
}

func totalsByProtocol(records []*domain.SessionRecord) []protocolTotal {
	var totals []protocolTotal
	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.ProtocolName]
		if !ok {
			i = len(totals)
			index[r.ProtocolName] = i
			totals = append(totals, protocolTotal{Name: r.ProtocolName})
		}
		totals[i].Count++
		totals[i].Seconds += r.DurationSeconds
	}
	return totals
}

func renderDashboard(w io.Writer, stats domain.HistoryStats, goals domain.GoalProgress, records []*domain.SessionRecord) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C6FE0"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA"))
	barColor := lipgloss.NewStyle().Foreground(lipgloss.Color("#7C6FE0"))
	metColor := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))

	fmt.Fprintf(w, "  %s\n", titleStyle.Render("Fasting Stats"))
	fmt.Fprintf(w, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))

	favorite := "none yet"
	if stats.FavoriteProtocolName != nil {
		favorite = *stats.FavoriteProtocolName
	}
	fmt.Fprintf(w, "  Completed: %s   Streak: %s   Favorite: %s\n\n",
		valueStyle.Render(fmt.Sprintf("%d", stats.CompletedCount)),
		valueStyle.Render(fmt.Sprintf("%d days", stats.CurrentStreak)),
		valueStyle.Render(favorite),
	)

	const goalBarWidth = 20
	renderGoal := func(label string, have, want int, met bool) {
		style := barColor
		if met {
			style = metColor
		}
		width := 0
		if want > 0 {
			width = int(math.Round(math.Min(float64(have)/float64(want), 1) * goalBarWidth))
		}
		fmt.Fprintf(w, "  %s %s%s %d/%d\n",
			dimStyle.Render(fmt.Sprintf("%-12s", label)),
			style.Render(buildBar(width)),
			dimStyle.Render(strings.Repeat("░", goalBarWidth-width)),
			have, want,
		)
	}
	renderGoal("Weekly goal", goals.WeeklyDays, goals.WeeklyGoal, goals.WeeklyMet())
	renderGoal("Streak goal", goals.StreakDays, goals.StreakGoal, goals.StreakMet())
	fmt.Fprintln(w)

	totals := totalsByProtocol(records)
	if len(totals) == 0 {
		fmt.Fprintf(w, "  %s\n\n", dimStyle.Render("No fasts recorded in this period."))
		return
	}

	fmt.Fprintf(w, "  %s\n", dimStyle.Render("Time fasted by protocol"))
	maxSeconds := 0
	for _, t := range totals {
		if t.Seconds > maxSeconds {
			maxSeconds = t.Seconds
		}
	}

	maxBarWidth := 30
	for _, t := range totals {
		barWidth := 0
		if maxSeconds > 0 {
			barWidth = int(math.Round(float64(t.Seconds) / float64(maxSeconds) * float64(maxBarWidth)))
		}
		if barWidth < 1 && t.Count > 0 {
			barWidth = 1
		}
		fmt.Fprintf(w, "  %s %s %d (%s)\n",
			dimStyle.Render(fmt.Sprintf("%-6s", t.Name)),
			barColor.Render(buildBar(barWidth)),
			t.Count,
			formatHours(float64(t.Seconds)/3600),
		)
	}
	fmt.Fprintln(w)
}

// buildBar creates a horizontal bar using block characters.
func buildBar(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("█", width)
}

// formatHours formats a float hours value as "Xh Ym".
func formatHours(h float64) string {
	if h < 0.01 {
		return "0m"
	}
	hours := int(h)
	minutes := int(math.Round((h - float64(hours)) * 60))
	if minutes == 60 {
		hours++
		minutes = 0
	}
	if hours > 0 && minutes > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}
