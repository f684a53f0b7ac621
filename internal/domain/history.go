package domain

import (
	"sort"
	"time"
)

// HistoryStats aggregates a collection of session records.
type HistoryStats struct {
	CompletedCount       int
	CurrentStreak        int
	FavoriteProtocolName *string
}

// Goals are the user's weekly and streak targets.
type Goals struct {
	WeeklyDays int
	StreakDays int
}

// DefaultGoals returns five fasting days a week and a thirty day streak.
func DefaultGoals() Goals {
	return Goals{WeeklyDays: 5, StreakDays: 30}
}

// GoalProgress compares history against the user's goals.
type GoalProgress struct {
	WeeklyDays int
	WeeklyGoal int
	StreakDays int
	StreakGoal int
}

// WeeklyMet returns true once this week's goal is reached.
func (g GoalProgress) WeeklyMet() bool {
	return g.WeeklyGoal > 0 && g.WeeklyDays >= g.WeeklyGoal
}

// StreakMet returns true once the streak goal is reached.
func (g GoalProgress) StreakMet() bool {
	return g.StreakGoal > 0 && g.StreakDays >= g.StreakGoal
}

// CompletedCount counts the completed records.
func CompletedCount(records []*SessionRecord) int {
	count := 0
	for _, r := range records {
		if r != nil && r.Completed {
			count++
		}
	}
	return count
}

// CurrentStreak returns the number of consecutive calendar days, walking
// back from the most recent record, that each hold at least one completed
// record. The most recent record must fall on today or yesterday, otherwise
// the streak is 0. Records dated after today and records without a valid
// date are ignored.
func CurrentStreak(records []*SessionRecord, today time.Time) int {
	day := calendarDay(today)

	var days []time.Time
	completed := make(map[time.Time]bool)
	for _, r := range records {
		d, ok := r.Day()
		if !ok || d.After(day) {
			continue
		}
		if _, seen := completed[d]; !seen {
			days = append(days, d)
		}
		completed[d] = completed[d] || r.Completed
	}
	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	cursor := days[0]
	if day.Sub(cursor) > 24*time.Hour {
		return 0
	}

	streak := 0
	for completed[cursor] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// FavoriteProtocol returns the most used protocol name, or nil when there
// are no records. Ties go to the protocol used most recently; records on
// the same day rank by input position, earliest first.
func FavoriteProtocol(records []*SessionRecord) *string {
	type usage struct {
		count    int
		lastDate string
		lastPos  int
	}

	usages := make(map[string]*usage)
	for i, r := range records {
		if r == nil || r.ProtocolName == "" {
			continue
		}
		u, ok := usages[r.ProtocolName]
		if !ok {
			u = &usage{lastDate: r.Date, lastPos: i}
			usages[r.ProtocolName] = u
		}
		u.count++
		if r.Date > u.lastDate {
			u.lastDate = r.Date
			u.lastPos = i
		}
	}

	var best string
	var bestUsage *usage
	for name, u := range usages {
		if bestUsage == nil || moreFavored(u.count, u.lastDate, u.lastPos, bestUsage.count, bestUsage.lastDate, bestUsage.lastPos) {
			best = name
			bestUsage = u
		}
	}

	if bestUsage == nil {
		return nil
	}
	return &best
}

func moreFavored(count int, date string, pos int, otherCount int, otherDate string, otherPos int) bool {
	if count != otherCount {
		return count > otherCount
	}
	if date != otherDate {
		return date > otherDate
	}
	return pos < otherPos
}

// ComputeStats derives all history aggregates, evaluating the streak on today.
func ComputeStats(records []*SessionRecord, today time.Time) HistoryStats {
	return HistoryStats{
		CompletedCount:       CompletedCount(records),
		CurrentStreak:        CurrentStreak(records, today),
		FavoriteProtocolName: FavoriteProtocol(records),
	}
}

// ComputeGoalProgress measures this week's fasting days (Monday start) and
// the current streak against goals.
func ComputeGoalProgress(records []*SessionRecord, today time.Time, goals Goals) GoalProgress {
	day := calendarDay(today)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	monday := day.AddDate(0, 0, -(weekday - 1))

	fasted := make(map[time.Time]bool)
	for _, r := range records {
		if r == nil || !r.Completed {
			continue
		}
		d, ok := r.Day()
		if !ok || d.Before(monday) || d.After(day) {
			continue
		}
		fasted[d] = true
	}

	return GoalProgress{
		WeeklyDays: len(fasted),
		WeeklyGoal: goals.WeeklyDays,
		StreakDays: CurrentStreak(records, today),
		StreakGoal: goals.StreakDays,
	}
}

// calendarDay maps t to midnight UTC of its local calendar date, the same
// representation Day produces for record dates.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
