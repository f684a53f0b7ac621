package domain

import "fmt"

// FormatClock renders seconds as zero-padded HH:MM:SS. Hours do not wrap
// at 24. Negative input renders as 00:00:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatHoursMinutes renders seconds as a short duration like "16h 2m".
func FormatHoursMinutes(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dh %dm", seconds/3600, (seconds%3600)/60)
}
