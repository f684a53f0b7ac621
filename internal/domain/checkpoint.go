package domain

import (
	"fmt"
	"time"
)

// Checkpoint is the persisted form of an unfinished session.
// CheckpointAt is the wall-clock instant ElapsedSeconds was last accurate.
// Revision is owned by storage: it is zero for a checkpoint that was never
// stored and grows by one on every write.
type Checkpoint struct {
	Protocol       Protocol
	State          SessionState
	ElapsedSeconds int
	StartedAt      *time.Time
	CheckpointAt   time.Time
	Revision       int64
}

// Checkpoint captures the session for persistence. Idle sessions have
// nothing to persist and return nil.
func (s *Session) Checkpoint(at time.Time) *Checkpoint {
	if s.state == StateIdle {
		return nil
	}
	return &Checkpoint{
		Protocol:       s.protocol,
		State:          s.state,
		ElapsedSeconds: s.elapsed,
		StartedAt:      s.StartedAt(),
		CheckpointAt:   at,
	}
}

// RestoreSession rebuilds a session from a checkpoint.
func RestoreSession(cp *Checkpoint) (*Session, error) {
	if cp == nil || cp.State == StateIdle {
		return NewSession(), nil
	}
	if !cp.State.Valid() {
		return nil, fmt.Errorf("%w: unknown state %q", ErrInvalidTransition, cp.State)
	}
	if cp.Protocol.FastHours < 0 || cp.Protocol.EatHours < 0 {
		return nil, fmt.Errorf("%w: %q has negative hours", ErrInvalidProtocol, cp.Protocol.Name)
	}
	if cp.ElapsedSeconds < 0 {
		return nil, fmt.Errorf("%w: negative elapsed time", ErrInvalidTransition)
	}

	s := &Session{
		protocol: cp.Protocol,
		state:    cp.State,
		elapsed:  cp.ElapsedSeconds,
	}
	if cp.StartedAt != nil {
		t := *cp.StartedAt
		s.startedAt = &t
	}
	s.checkCompletion()
	return s, nil
}

// CatchUp advances a restored Active session by the whole seconds between
// its checkpoint and now. It returns the new checkpoint instant, which moves
// forward by exactly the seconds that were consumed from the gap so the
// fractional remainder is carried to the next catch-up.
func (s *Session) CatchUp(checkpointAt, now time.Time) time.Time {
	if s.state != StateActive || !now.After(checkpointAt) {
		return checkpointAt
	}
	gap := int(now.Sub(checkpointAt) / time.Second)
	if gap == 0 {
		return checkpointAt
	}
	s.Advance(gap)
	return checkpointAt.Add(time.Duration(gap) * time.Second)
}
