package domain

import (
	"testing"
	"time"
)

func rec(date, protocol string, completed bool) *SessionRecord {
	return &SessionRecord{ID: date + protocol, Date: date, ProtocolName: protocol, Completed: completed}
}

// sampleHistory mirrors the demo data shown on the history screen.
func sampleHistory() []*SessionRecord {
	return []*SessionRecord{
		{ID: "1", Date: "2024-01-15", ProtocolName: "16:8", DurationSeconds: 57720, Completed: true},
		{ID: "2", Date: "2024-01-14", ProtocolName: "16:8", DurationSeconds: 45000, Completed: false},
		{ID: "3", Date: "2024-01-13", ProtocolName: "18:6", DurationSeconds: 64800, Completed: true},
		{ID: "4", Date: "2024-01-12", ProtocolName: "16:8", DurationSeconds: 57600, Completed: true},
		{ID: "5", Date: "2024-01-11", ProtocolName: "16:8", DurationSeconds: 58000, Completed: true},
	}
}

func day(s string) time.Time {
	d, _ := time.Parse(DateLayout, s)
	return d.Add(15 * time.Hour)
}

func TestCompletedCount(t *testing.T) {
	if got := CompletedCount(sampleHistory()); got != 4 {
		t.Errorf("CompletedCount() = %v, want 4", got)
	}
	if got := CompletedCount(nil); got != 0 {
		t.Errorf("CompletedCount(nil) = %v, want 0", got)
	}
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name    string
		records []*SessionRecord
		today   time.Time
		want    int
	}{
		{
			name: "four consecutive completed days",
			records: []*SessionRecord{
				rec("2024-01-15", "16:8", true),
				rec("2024-01-14", "16:8", true),
				rec("2024-01-13", "16:8", true),
				rec("2024-01-12", "16:8", true),
			},
			today: day("2024-01-15"),
			want:  4,
		},
		{
			name: "incomplete day breaks the run",
			records: []*SessionRecord{
				rec("2024-01-15", "16:8", true),
				rec("2024-01-14", "16:8", false),
				rec("2024-01-13", "16:8", true),
				rec("2024-01-12", "16:8", true),
			},
			today: day("2024-01-15"),
			want:  1,
		},
		{
			name: "missing day breaks the run",
			records: []*SessionRecord{
				rec("2024-01-15", "16:8", true),
				rec("2024-01-13", "16:8", true),
			},
			today: day("2024-01-15"),
			want:  1,
		},
		{
			name: "unsorted input",
			records: []*SessionRecord{
				rec("2024-01-12", "16:8", true),
				rec("2024-01-15", "16:8", true),
				rec("2024-01-13", "16:8", true),
				rec("2024-01-14", "16:8", true),
			},
			today: day("2024-01-15"),
			want:  4,
		},
		{
			name: "most recent is yesterday",
			records: []*SessionRecord{
				rec("2024-01-14", "16:8", true),
				rec("2024-01-13", "16:8", true),
			},
			today: day("2024-01-15"),
			want:  2,
		},
		{
			name: "gap of two days",
			records: []*SessionRecord{
				rec("2024-01-13", "16:8", true),
				rec("2024-01-12", "16:8", true),
			},
			today: day("2024-01-15"),
			want:  0,
		},
		{
			name: "incomplete today",
			records: []*SessionRecord{
				rec("2024-01-15", "16:8", false),
				rec("2024-01-14", "16:8", true),
			},
			today: day("2024-01-15"),
			want:  0,
		},
		{
			name: "mixed day counts",
			records: []*SessionRecord{
				rec("2024-01-15", "16:8", false),
				rec("2024-01-15", "18:6", true),
				rec("2024-01-14", "16:8", true),
			},
			today: day("2024-01-15"),
			want:  2,
		},
		{
			name: "malformed and future dates ignored",
			records: []*SessionRecord{
				rec("", "16:8", true),
				rec("not-a-date", "16:8", true),
				rec("2024-01-20", "16:8", true),
				rec("2024-01-15", "16:8", true),
			},
			today: day("2024-01-15"),
			want:  1,
		},
		{
			name:    "empty",
			records: nil,
			today:   day("2024-01-15"),
			want:    0,
		},
		{
			name:    "sample history",
			records: sampleHistory(),
			today:   day("2024-01-15"),
			want:    1,
		},
		{
			name: "across month boundary",
			records: []*SessionRecord{
				rec("2024-03-01", "16:8", true),
				rec("2024-02-29", "16:8", true),
				rec("2024-02-28", "16:8", true),
			},
			today: day("2024-03-01"),
			want:  3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(tt.records, tt.today); got != tt.want {
				t.Errorf("CurrentStreak() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFavoriteProtocol(t *testing.T) {
	t.Run("most frequent", func(t *testing.T) {
		got := FavoriteProtocol(sampleHistory())
		if got == nil || *got != "16:8" {
			t.Errorf("FavoriteProtocol() = %v, want 16:8", got)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := FavoriteProtocol(nil); got != nil {
			t.Errorf("FavoriteProtocol(nil) = %v, want nil", *got)
		}
	})

	t.Run("tie goes to most recent", func(t *testing.T) {
		records := []*SessionRecord{
			rec("2024-01-10", "16:8", true),
			rec("2024-01-12", "18:6", true),
			rec("2024-01-11", "16:8", true),
			rec("2024-01-09", "18:6", true),
		}
		got := FavoriteProtocol(records)
		if got == nil || *got != "18:6" {
			t.Errorf("FavoriteProtocol() = %v, want 18:6", got)
		}
	})

	t.Run("same day tie goes to earlier position", func(t *testing.T) {
		records := []*SessionRecord{
			rec("2024-01-12", "20:4", true),
			rec("2024-01-12", "16:8", true),
		}
		got := FavoriteProtocol(records)
		if got == nil || *got != "20:4" {
			t.Errorf("FavoriteProtocol() = %v, want 20:4", got)
		}
	})
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats(sampleHistory(), day("2024-01-15"))

	if stats.CompletedCount != 4 {
		t.Errorf("CompletedCount = %v, want 4", stats.CompletedCount)
	}
	if stats.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %v, want 1", stats.CurrentStreak)
	}
	if stats.FavoriteProtocolName == nil || *stats.FavoriteProtocolName != "16:8" {
		t.Errorf("FavoriteProtocolName = %v, want 16:8", stats.FavoriteProtocolName)
	}
}

func TestComputeGoalProgress(t *testing.T) {
	// 2024-01-15 is a Monday, so only that day falls in the current week.
	progress := ComputeGoalProgress(sampleHistory(), day("2024-01-15"), DefaultGoals())
	if progress.WeeklyDays != 1 {
		t.Errorf("WeeklyDays = %v, want 1", progress.WeeklyDays)
	}
	if progress.WeeklyGoal != 5 || progress.StreakGoal != 30 {
		t.Errorf("goals = %d/%d, want 5/30", progress.WeeklyGoal, progress.StreakGoal)
	}

	// Sunday 2024-01-14 sees Mon 8th through Sun 14th.
	records := []*SessionRecord{
		rec("2024-01-14", "16:8", true),
		rec("2024-01-13", "16:8", true),
		rec("2024-01-13", "18:6", true),
		rec("2024-01-10", "16:8", true),
		rec("2024-01-09", "16:8", false),
		rec("2024-01-07", "16:8", true),
	}
	progress = ComputeGoalProgress(records, day("2024-01-14"), Goals{WeeklyDays: 3, StreakDays: 2})
	if progress.WeeklyDays != 3 {
		t.Errorf("WeeklyDays = %v, want 3", progress.WeeklyDays)
	}
	if !progress.WeeklyMet() {
		t.Error("WeeklyMet() = false, want true")
	}
	if progress.StreakDays != 2 || !progress.StreakMet() {
		t.Errorf("StreakDays = %v StreakMet = %v, want 2 true", progress.StreakDays, progress.StreakMet())
	}
}
