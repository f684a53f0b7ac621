package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used for record dates.
const DateLayout = "2006-01-02"

// SessionRecord is the immutable outcome of a finished fast.
type SessionRecord struct {
	ID              string
	Date            string // calendar day the fast started
	ProtocolName    string
	DurationSeconds int
	Completed       bool
	StartedAt       time.Time
	EndedAt         time.Time
}

// NewSessionRecord builds a record for a fast logged outside the timer,
// such as an imported history entry.
func NewSessionRecord(date, protocolName string, durationSeconds int, completed bool) (*SessionRecord, error) {
	day, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return nil, fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidRecord, date)
	}
	protocolName = strings.TrimSpace(protocolName)
	if protocolName == "" {
		return nil, fmt.Errorf("%w: protocol is required", ErrInvalidRecord)
	}
	if durationSeconds < 0 {
		return nil, fmt.Errorf("%w: duration cannot be negative", ErrInvalidRecord)
	}

	return &SessionRecord{
		ID:              generateID(),
		Date:            day.Format(DateLayout),
		ProtocolName:    protocolName,
		DurationSeconds: durationSeconds,
		Completed:       completed,
		StartedAt:       day,
		EndedAt:         day.Add(time.Duration(durationSeconds) * time.Second),
	}, nil
}

// Day parses the record date. ok is false for missing or malformed dates.
func (r *SessionRecord) Day() (day time.Time, ok bool) {
	if r == nil || r.Date == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DateLayout, r.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// StatusLabel returns "Completed" or "Incomplete".
func (r *SessionRecord) StatusLabel() string {
	if r.Completed {
		return "Completed"
	}
	return "Incomplete"
}
