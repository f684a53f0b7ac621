package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xvierd/fast-cli/internal/domain"
	"github.com/xvierd/fast-cli/internal/logging"
	"github.com/xvierd/fast-cli/internal/ports"
)

// Export periods accepted by RecordsForPeriod.
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodAll   = "all"
)

// HistoryService handles finished session records and their aggregates.
type HistoryService struct {
	storage ports.Storage
	now     func() time.Time
	goals   domain.Goals
}

// NewHistoryService creates a new history service.
func NewHistoryService(storage ports.Storage) *HistoryService {
	return &HistoryService{
		storage: storage,
		now:     time.Now,
		goals:   domain.DefaultGoals(),
	}
}

// SetClock replaces the wall clock used as "today".
func (s *HistoryService) SetClock(now func() time.Time) {
	s.now = now
}

// SetGoals updates the weekly and streak goals.
func (s *HistoryService) SetGoals(goals domain.Goals) {
	s.goals = goals
}

// Today returns the current instant used for streak evaluation.
func (s *HistoryService) Today() time.Time {
	return s.now()
}

// ListHistory returns up to limit records, most recent first. A limit of
// zero or less returns everything.
func (s *HistoryService) ListHistory(ctx context.Context, limit int) ([]*domain.SessionRecord, error) {
	records, err := s.storage.Records().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}
	if limit > 0 && len(records) > limit {
		return records[:limit], nil
	}
	return records, nil
}

// RecordsForPeriod returns the records of the last week, the last month,
// or all of them.
func (s *HistoryService) RecordsForPeriod(ctx context.Context, period string) ([]*domain.SessionRecord, error) {
	now := s.now()
	var since time.Time
	switch period {
	case PeriodWeek:
		since = now.AddDate(0, 0, -7)
	case PeriodMonth:
		since = now.AddDate(0, -1, 0)
	case PeriodAll, "":
		return s.ListHistory(ctx, 0)
	default:
		return nil, fmt.Errorf("unknown period %q (use week, month, or all)", period)
	}

	records, err := s.storage.Records().FindSince(ctx, since.Format(domain.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}
	return records, nil
}

// Stats computes completed count, current streak, and favorite protocol.
func (s *HistoryService) Stats(ctx context.Context) (domain.HistoryStats, error) {
	records, err := s.ListHistory(ctx, 0)
	if err != nil {
		return domain.HistoryStats{}, err
	}
	return domain.ComputeStats(records, s.now()), nil
}

// GoalProgress measures history against the configured goals.
func (s *HistoryService) GoalProgress(ctx context.Context) (domain.GoalProgress, error) {
	records, err := s.ListHistory(ctx, 0)
	if err != nil {
		return domain.GoalProgress{}, err
	}
	return domain.ComputeGoalProgress(records, s.now(), s.goals), nil
}

// Summary computes stats and goal progress from a single read.
func (s *HistoryService) Summary(ctx context.Context) (domain.HistoryStats, domain.GoalProgress, error) {
	records, err := s.ListHistory(ctx, 0)
	if err != nil {
		return domain.HistoryStats{}, domain.GoalProgress{}, err
	}
	today := s.now()
	return domain.ComputeStats(records, today), domain.ComputeGoalProgress(records, today, s.goals), nil
}

// Import appends externally logged records and returns how many were stored.
func (s *HistoryService) Import(ctx context.Context, records []*domain.SessionRecord) (int, error) {
	for i, r := range records {
		if r == nil {
			continue
		}
		if _, ok := r.Day(); !ok {
			return 0, fmt.Errorf("record %d: %w: date %q is not YYYY-MM-DD", i+1, domain.ErrInvalidRecord, r.Date)
		}
	}

	imported := 0
	for _, r := range records {
		if r == nil {
			continue
		}
		if err := s.storage.Records().Append(ctx, r); err != nil {
			return imported, fmt.Errorf("failed to import record for %s: %w", r.Date, err)
		}
		imported++
	}
	logging.Logger.Debug("history imported", "records", imported)
	return imported, nil
}

// GetRecord finds a record by its full ID or a unique ID prefix.
func (s *HistoryService) GetRecord(ctx context.Context, id string) (*domain.SessionRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrRecordNotFound
	}

	record, err := s.storage.Records().FindByID(ctx, id)
	if err == nil {
		return record, nil
	}

	records, err := s.storage.Records().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}

	var match *domain.SessionRecord
	for _, r := range records {
		if !strings.HasPrefix(r.ID, id) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("ambiguous record id %q", id)
		}
		match = r
	}
	if match == nil {
		return nil, domain.ErrRecordNotFound
	}
	return match, nil
}

// DeleteRecord removes a record by its full ID or a unique ID prefix.
func (s *HistoryService) DeleteRecord(ctx context.Context, id string) (*domain.SessionRecord, error) {
	record, err := s.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Records().Delete(ctx, record.ID); err != nil {
		return nil, fmt.Errorf("failed to delete record: %w", err)
	}
	return record, nil
}
