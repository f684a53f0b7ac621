package services

import (
	"context"

	"github.com/xvierd/fast-cli/internal/domain"
	"github.com/xvierd/fast-cli/internal/ports"
)

// StateService implements the MCPStateProvider interface.
type StateService struct {
	storage    ports.Storage
	fastingSvc *FastingService
	historySvc *HistoryService
}

// NewStateService creates a new state service.
func NewStateService(storage ports.Storage) *StateService {
	return &StateService{storage: storage}
}

// SetFastingService sets the fasting service for timer operations.
func (s *StateService) SetFastingService(fastingSvc *FastingService) {
	s.fastingSvc = fastingSvc
}

// SetHistoryService sets the history service for aggregates.
func (s *StateService) SetHistoryService(historySvc *HistoryService) {
	s.historySvc = historySvc
}

func (s *StateService) fasting() *FastingService {
	if s.fastingSvc == nil {
		s.fastingSvc = NewFastingService(s.storage, nil)
	}
	return s.fastingSvc
}

func (s *StateService) history() *HistoryService {
	if s.historySvc == nil {
		s.historySvc = NewHistoryService(s.storage)
	}
	return s.historySvc
}

// GetCurrentState implements ports.MCPStateProvider.
func (s *StateService) GetCurrentState(ctx context.Context) (*domain.CurrentState, error) {
	f, err := s.fasting().Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.StateFor(ctx, f)
}

// StateFor combines a loaded fast with the current history aggregates.
func (s *StateService) StateFor(ctx context.Context, f *Fast) (*domain.CurrentState, error) {
	return s.StateWith(ctx, f.Snapshot, f.Finalized)
}

// StateWith combines a snapshot taken elsewhere, such as from a Runner,
// with the current history aggregates. final may be nil.
func (s *StateService) StateWith(ctx context.Context, snap domain.TimerSnapshot, final *domain.SessionRecord) (*domain.CurrentState, error) {
	stats, goals, err := s.history().Summary(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.CurrentState{
		Timer:     snap,
		Stats:     stats,
		Goals:     goals,
		Today:     s.history().Today(),
		LastFinal: final,
	}, nil
}

// ListProtocols implements ports.MCPStateProvider.
func (s *StateService) ListProtocols(ctx context.Context) ([]domain.Protocol, error) {
	return s.fasting().Catalog().All(), nil
}

// ListHistory implements ports.MCPStateProvider.
func (s *StateService) ListHistory(ctx context.Context, limit int) ([]*domain.SessionRecord, error) {
	return s.history().ListHistory(ctx, limit)
}

// StartFast implements ports.MCPStateProvider.
func (s *StateService) StartFast(ctx context.Context, protocolName string) (*domain.TimerSnapshot, error) {
	f, err := s.fasting().StartFast(ctx, protocolName)
	if err != nil {
		return nil, err
	}
	return &f.Snapshot, nil
}

// PauseFast implements ports.MCPStateProvider.
func (s *StateService) PauseFast(ctx context.Context) (*domain.TimerSnapshot, error) {
	f, err := s.fasting().PauseFast(ctx)
	if err != nil {
		return nil, err
	}
	return &f.Snapshot, nil
}

// ResumeFast implements ports.MCPStateProvider.
func (s *StateService) ResumeFast(ctx context.Context) (*domain.TimerSnapshot, error) {
	f, err := s.fasting().ResumeFast(ctx)
	if err != nil {
		return nil, err
	}
	return &f.Snapshot, nil
}

// StopFast implements ports.MCPStateProvider.
func (s *StateService) StopFast(ctx context.Context) (*domain.SessionRecord, error) {
	return s.fasting().StopFast(ctx)
}

// Ensure StateService implements MCPStateProvider.
var _ ports.MCPStateProvider = (*StateService)(nil)
