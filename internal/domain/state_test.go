package domain

import (
	"errors"
	"testing"
)

func TestCurrentState_IsSessionActive(t *testing.T) {
	tests := []struct {
		state      SessionState
		wantActive bool
		wantStart  bool
	}{
		{StateIdle, false, true},
		{StateActive, true, false},
		{StatePaused, true, false},
		{StateCompleted, false, false},
	}

	for _, tt := range tests {
		cs := &CurrentState{Timer: TimerSnapshot{State: tt.state}}
		if got := cs.IsSessionActive(); got != tt.wantActive {
			t.Errorf("IsSessionActive() for %v = %v, want %v", tt.state, got, tt.wantActive)
		}
		if got := cs.CanStartSession(); got != tt.wantStart {
			t.Errorf("CanStartSession() for %v = %v, want %v", tt.state, got, tt.wantStart)
		}
	}
}

func TestGetStateLabel(t *testing.T) {
	tests := []struct {
		state SessionState
		want  string
	}{
		{StateIdle, "Ready"},
		{StateActive, "Fasting"},
		{StatePaused, "Paused"},
		{StateCompleted, "Complete"},
		{SessionState("other"), "Unknown"},
	}

	for _, tt := range tests {
		if got := GetStateLabel(tt.state); got != tt.want {
			t.Errorf("GetStateLabel(%v) = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestRemainingText(t *testing.T) {
	tests := []struct {
		snap TimerSnapshot
		want string
	}{
		{TimerSnapshot{State: StateIdle}, "Ready to start"},
		{TimerSnapshot{State: StateCompleted}, "Fasting Complete!"},
		{TimerSnapshot{State: StateActive, RemainingSeconds: 3661}, "01:01:01 remaining"},
		{TimerSnapshot{State: StatePaused, RemainingSeconds: 60}, "00:01:00 remaining"},
	}

	for _, tt := range tests {
		if got := RemainingText(tt.snap); got != tt.want {
			t.Errorf("RemainingText(%+v) = %v, want %v", tt.snap, got, tt.want)
		}
	}
}

func TestNewSessionRecord(t *testing.T) {
	r, err := NewSessionRecord("2024-01-13", "18:6", 64800, true)
	if err != nil {
		t.Fatalf("NewSessionRecord() error = %v", err)
	}
	if r.ID == "" || r.Date != "2024-01-13" || r.ProtocolName != "18:6" {
		t.Errorf("NewSessionRecord() = %+v", r)
	}
	if r.StatusLabel() != "Completed" {
		t.Errorf("StatusLabel() = %v, want Completed", r.StatusLabel())
	}

	bad := []struct {
		date     string
		protocol string
		duration int
	}{
		{"13/01/2024", "18:6", 10},
		{"2024-01-13", " ", 10},
		{"2024-01-13", "18:6", -1},
	}
	for _, b := range bad {
		if _, err := NewSessionRecord(b.date, b.protocol, b.duration, false); !errors.Is(err, ErrInvalidRecord) {
			t.Errorf("NewSessionRecord(%q, %q, %d) error = %v, want ErrInvalidRecord", b.date, b.protocol, b.duration, err)
		}
	}
}
