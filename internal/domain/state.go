package domain

import (
	"time"
)

// CurrentState represents the global application state.
type CurrentState struct {
	Timer     TimerSnapshot
	Stats     HistoryStats
	Goals     GoalProgress
	Today     time.Time
	LastFinal *SessionRecord // set when the last operation finalized a fast
}

// IsSessionActive returns true if a fast is running or paused.
func (cs *CurrentState) IsSessionActive() bool {
	return cs.Timer.State == StateActive || cs.Timer.State == StatePaused
}

// CanStartSession returns true if a new fast can be started.
func (cs *CurrentState) CanStartSession() bool {
	return cs.Timer.State == StateIdle
}

// GetStateLabel returns a human-readable label for the session state.
func GetStateLabel(s SessionState) string {
	switch s {
	case StateIdle:
		return "Ready"
	case StateActive:
		return "Fasting"
	case StatePaused:
		return "Paused"
	case StateCompleted:
		return "Complete"
	default:
		return "Unknown"
	}
}

// RemainingText describes the time left in a fast.
func RemainingText(snap TimerSnapshot) string {
	switch snap.State {
	case StateIdle:
		return "Ready to start"
	case StateCompleted:
		return "Fasting Complete!"
	default:
		if snap.RemainingSeconds == 0 {
			return "Fasting Complete!"
		}
		return FormatClock(snap.RemainingSeconds) + " remaining"
	}
}
