package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/xvierd/fast-cli/internal/domain"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}, what string) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", what, err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

func snapshotJSON(snap domain.TimerSnapshot) map[string]interface{} {
	data := map[string]interface{}{
		"state":             string(snap.State),
		"protocol":          snap.ProtocolName,
		"elapsed_seconds":   snap.ElapsedSeconds,
		"remaining_seconds": snap.RemainingSeconds,
		"target_seconds":    snap.TargetSeconds,
		"progress":          snap.Progress,
		"remaining":         domain.RemainingText(snap),
		"started_at":        nil,
	}
	if snap.StartedAt != nil {
		data["started_at"] = snap.StartedAt.Format(time.RFC3339)
	}
	return data
}

func recordJSON(r *domain.SessionRecord) map[string]interface{} {
	return map[string]interface{}{
		"id":               r.ID,
		"date":             r.Date,
		"protocol":         r.ProtocolName,
		"duration_seconds": r.DurationSeconds,
		"duration":         domain.FormatHoursMinutes(r.DurationSeconds),
		"completed":        r.Completed,
	}
}

// printSnapshot prints the timer lines shared by start, pause, resume and status.
func printSnapshot(w io.Writer, snap domain.TimerSnapshot) {
	fmt.Fprintf(w, "   Protocol: %s\n", snap.ProtocolName)
	fmt.Fprintf(w, "   Elapsed: %s of %s\n", domain.FormatClock(snap.ElapsedSeconds), domain.FormatHoursMinutes(snap.TargetSeconds))
	fmt.Fprintf(w, "   %s\n", domain.RemainingText(snap))
	fmt.Fprintf(w, "   Progress: %.0f%%\n", snap.Progress*100)
}

// printRecord prints a finished fast.
func printRecord(w io.Writer, r *domain.SessionRecord) {
	icon := "⏹️ "
	if r.Completed {
		icon = "✅"
	}
	fmt.Fprintf(w, "%s Fast recorded: %s for %s (%s)\n", icon, r.ProtocolName,
		domain.FormatHoursMinutes(r.DurationSeconds), r.StatusLabel())
	fmt.Fprintf(w, "   Record ID: %s\n", domain.ShortID(r.ID))
}
