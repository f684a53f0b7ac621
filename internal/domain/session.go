package domain

import (
	"fmt"
	"time"
)

// SessionState represents the current state of a fasting session.
type SessionState string

const (
	StateIdle      SessionState = "idle"
	StateActive    SessionState = "active"
	StatePaused    SessionState = "paused"
	StateCompleted SessionState = "completed"
)

// Valid reports whether s is one of the known states.
func (s SessionState) Valid() bool {
	switch s {
	case StateIdle, StateActive, StatePaused, StateCompleted:
		return true
	}
	return false
}

// TimerSnapshot is the read model of a session at one instant.
type TimerSnapshot struct {
	State            SessionState
	ProtocolName     string
	ElapsedSeconds   int
	RemainingSeconds int
	TargetSeconds    int
	Progress         float64
	StartedAt        *time.Time
}

// Session is the timer state machine for a single fast.
//
// Elapsed time is counted in whole seconds and only grows while the
// session is Active. The engine never reads the clock: hosts drive it
// with Tick or Advance and pass wall-clock instants where a timestamp
// is recorded. Calls must be serialized by the caller.
type Session struct {
	protocol  Protocol
	state     SessionState
	elapsed   int
	startedAt *time.Time
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{state: StateIdle}
}

// State returns the current state.
func (s *Session) State() SessionState {
	return s.state
}

// Protocol returns the selected protocol. It is the zero value while Idle.
func (s *Session) Protocol() Protocol {
	return s.protocol
}

// ElapsedSeconds returns the fasted seconds so far.
func (s *Session) ElapsedSeconds() int {
	return s.elapsed
}

// StartedAt returns when the session first became Active, or nil.
func (s *Session) StartedAt() *time.Time {
	if s.startedAt == nil {
		return nil
	}
	t := *s.startedAt
	return &t
}

// IsActive returns true while the timer is counting.
func (s *Session) IsActive() bool {
	return s.state == StateActive
}

// Start begins a fast with the given protocol. Only valid from Idle.
// A protocol with a zero target is complete as soon as it starts.
func (s *Session) Start(p Protocol, now time.Time) error {
	if s.state != StateIdle {
		return fmt.Errorf("%w: cannot start a %s session", ErrInvalidTransition, s.state)
	}
	if p.FastHours < 0 || p.EatHours < 0 {
		return fmt.Errorf("%w: %q has negative hours", ErrInvalidProtocol, p.Name)
	}

	s.protocol = p
	s.state = StateActive
	if s.startedAt == nil {
		t := now
		s.startedAt = &t
	}
	s.checkCompletion()
	return nil
}

// Pause freezes the timer. Only valid while Active.
func (s *Session) Pause() error {
	if s.state != StateActive {
		return fmt.Errorf("%w: cannot pause a %s session", ErrInvalidTransition, s.state)
	}
	s.state = StatePaused
	return nil
}

// Resume continues a paused fast with its original protocol and start time.
func (s *Session) Resume() error {
	if s.state != StatePaused {
		return fmt.Errorf("%w: cannot resume a %s session", ErrInvalidTransition, s.state)
	}
	s.state = StateActive
	s.checkCompletion()
	return nil
}

// Tick advances the timer by one second while Active.
func (s *Session) Tick() {
	s.Advance(1)
}

// Advance applies n ticks at once and returns how many seconds were
// counted. Counting stops at the target, where the session completes.
func (s *Session) Advance(n int) int {
	if s.state != StateActive || n <= 0 {
		return 0
	}

	target := s.protocol.TargetSeconds()
	applied := n
	if s.elapsed+n > target {
		applied = target - s.elapsed
		if applied < 0 {
			applied = 0
		}
	}
	s.elapsed += applied
	s.checkCompletion()
	return applied
}

func (s *Session) checkCompletion() {
	if s.state == StateActive && s.elapsed >= s.protocol.TargetSeconds() {
		s.state = StateCompleted
	}
}

// Stop finalizes the session into a record and resets it to Idle.
// Valid from any state except Idle.
func (s *Session) Stop(now time.Time) (*SessionRecord, error) {
	if s.state == StateIdle {
		return nil, fmt.Errorf("%w: no session to stop", ErrInvalidTransition)
	}

	started := now
	if s.startedAt != nil {
		started = *s.startedAt
	}

	record := &SessionRecord{
		ID:              generateID(),
		Date:            started.Format(DateLayout),
		ProtocolName:    s.protocol.Name,
		DurationSeconds: s.elapsed,
		Completed:       s.elapsed >= s.protocol.TargetSeconds(),
		StartedAt:       started,
		EndedAt:         now,
	}

	s.protocol = Protocol{}
	s.state = StateIdle
	s.elapsed = 0
	s.startedAt = nil

	return record, nil
}

// Snapshot returns the current read model.
func (s *Session) Snapshot() TimerSnapshot {
	target := s.protocol.TargetSeconds()

	remaining := target - s.elapsed
	if remaining < 0 {
		remaining = 0
	}

	var progress float64
	if target > 0 {
		progress = float64(s.elapsed) / float64(target)
		if progress > 1 {
			progress = 1
		}
	}

	return TimerSnapshot{
		State:            s.state,
		ProtocolName:     s.protocol.Name,
		ElapsedSeconds:   s.elapsed,
		RemainingSeconds: remaining,
		TargetSeconds:    target,
		Progress:         progress,
		StartedAt:        s.StartedAt(),
	}
}
