package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/fast-cli/internal/domain"
	"github.com/xvierd/fast-cli/internal/logging"
	"github.com/xvierd/fast-cli/internal/ports"
)

// Fast is the current fast as loaded from storage.
type Fast struct {
	Session *domain.Session

	// CheckpointAt is the instant the session's elapsed time was last accurate.
	CheckpointAt time.Time

	// Snapshot is captured before a completed fast is finalized, so callers
	// still see the Completed state once.
	Snapshot domain.TimerSnapshot

	// Finalized is the record produced when a completed fast was finalized
	// during this operation.
	Finalized *domain.SessionRecord

	revision int64
}

// maxStaleRetries bounds how often an operation is replayed after another
// process changed the stored fast underneath it.
const maxStaleRetries = 5

// FastingService handles fasting session use cases. The in-progress fast
// is checkpointed in storage between invocations.
type FastingService struct {
	mu              sync.Mutex
	storage         ports.Storage
	catalog         *domain.Catalog
	notifier        ports.Notifier
	now             func() time.Time
	defaultProtocol string
	autoFinalize    bool
}

// NewFastingService creates a new fasting service.
func NewFastingService(storage ports.Storage, catalog *domain.Catalog) *FastingService {
	if catalog == nil {
		catalog = domain.DefaultCatalog()
	}
	return &FastingService{
		storage:         storage,
		catalog:         catalog,
		now:             time.Now,
		defaultProtocol: domain.DefaultProtocols()[0].Name,
		autoFinalize:    true,
	}
}

// SetClock replaces the wall clock.
func (s *FastingService) SetClock(now func() time.Time) {
	s.now = now
}

// SetNotifier sets the notifier called when a fast reaches its target.
func (s *FastingService) SetNotifier(n ports.Notifier) {
	s.notifier = n
}

// SetAutoFinalize controls whether a completed fast is recorded
// automatically or waits for an explicit stop.
func (s *FastingService) SetAutoFinalize(enabled bool) {
	s.autoFinalize = enabled
}

// SetDefaultProtocol sets the protocol used when none is named.
func (s *FastingService) SetDefaultProtocol(name string) {
	s.defaultProtocol = name
}

// Catalog returns the protocol catalog.
func (s *FastingService) Catalog() *domain.Catalog {
	return s.catalog
}

// ResolveProtocol finds a protocol by exact name, falling back to the best
// fuzzy match so "18" selects "18:6". An empty query selects the default.
func (s *FastingService) ResolveProtocol(query string) (domain.Protocol, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		query = s.defaultProtocol
	}

	if p, err := s.catalog.Find(query); err == nil {
		return p, nil
	}

	names := s.catalog.Names()
	matches := fuzzy.Find(query, names)
	if len(matches) == 0 {
		return domain.Protocol{}, fmt.Errorf("%w: %q", domain.ErrProtocolNotFound, query)
	}
	return s.catalog.Find(names[matches[0].Index])
}

// Load returns the current fast. Time that passed while no process was
// attached is added to an active fast, and a fast that reached its target
// is finalized when auto-finalize is on.
func (s *FastingService) Load(ctx context.Context) (*Fast, error) {
	return s.run(ctx, func(ctx context.Context, f *Fast) error { return nil })
}

// StartFast begins a fast with the named protocol.
func (s *FastingService) StartFast(ctx context.Context, protocolName string) (*Fast, error) {
	return s.run(ctx, func(ctx context.Context, f *Fast) error {
		return s.start(ctx, f, protocolName)
	})
}

// PauseFast pauses the running fast.
func (s *FastingService) PauseFast(ctx context.Context) (*Fast, error) {
	return s.run(ctx, s.pause)
}

// ResumeFast resumes a paused fast.
func (s *FastingService) ResumeFast(ctx context.Context) (*Fast, error) {
	return s.run(ctx, s.resume)
}

// StopFast finalizes the current fast into a history record. If the fast
// had already completed and was finalized while loading, that record is
// returned.
func (s *FastingService) StopFast(ctx context.Context) (*domain.SessionRecord, error) {
	var record *domain.SessionRecord
	_, err := s.run(ctx, func(ctx context.Context, f *Fast) error {
		if f.Session.State() == domain.StateIdle && f.Finalized != nil {
			record = f.Finalized
			return nil
		}
		var err error
		record, err = s.stop(ctx, f)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// run loads the stored fast and applies op to it. When another process
// wrote the fast in between, the load and op are replayed on its state.
func (s *FastingService) run(ctx context.Context, op func(ctx context.Context, f *Fast) error) (*Fast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for attempt := 0; ; attempt++ {
		f, err := s.load(ctx)
		if err == nil {
			err = op(ctx, f)
		}
		if errors.Is(err, domain.ErrStaleCheckpoint) && attempt < maxStaleRetries {
			logging.Logger.Debug("active fast changed by another process, reloading", "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

func (s *FastingService) load(ctx context.Context) (*Fast, error) {
	cp, err := s.storage.Active().Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active session: %w", err)
	}

	sess, err := domain.RestoreSession(cp)
	if err != nil {
		return nil, fmt.Errorf("failed to restore active session: %w", err)
	}

	f := &Fast{Session: sess, CheckpointAt: s.now()}
	if cp != nil {
		f.revision = cp.Revision
	}
	if sess.State() == domain.StateIdle {
		f.Snapshot = sess.Snapshot()
		return f, nil
	}

	prev := cp.State
	f.CheckpointAt = cp.CheckpointAt
	if sess.IsActive() {
		before := sess.ElapsedSeconds()
		f.CheckpointAt = sess.CatchUp(cp.CheckpointAt, s.now())
		logging.Logger.Debug("caught up active fast",
			"protocol", sess.Protocol().Name,
			"seconds", sess.ElapsedSeconds()-before,
			"checkpoint_at", f.CheckpointAt)
	}

	if _, err := s.settle(ctx, f, prev); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *FastingService) start(ctx context.Context, f *Fast, protocolName string) error {
	p, err := s.ResolveProtocol(protocolName)
	if err != nil {
		return err
	}

	now := s.now()
	prev := f.Session.State()
	if err := f.Session.Start(p, now); err != nil {
		return err
	}
	f.CheckpointAt = now
	logging.Logger.Debug("fast started", "protocol", p.Name, "target_seconds", p.TargetSeconds())

	_, err = s.settle(ctx, f, prev)
	return err
}

func (s *FastingService) pause(ctx context.Context, f *Fast) error {
	if f.Session.State() == domain.StateIdle {
		return domain.ErrNoActiveSession
	}
	prev := f.Session.State()
	if err := f.Session.Pause(); err != nil {
		return err
	}
	logging.Logger.Debug("fast paused", "elapsed_seconds", f.Session.ElapsedSeconds())

	_, err := s.settle(ctx, f, prev)
	return err
}

func (s *FastingService) resume(ctx context.Context, f *Fast) error {
	if f.Session.State() == domain.StateIdle {
		return domain.ErrNoActiveSession
	}
	prev := f.Session.State()
	if err := f.Session.Resume(); err != nil {
		return err
	}
	f.CheckpointAt = s.now()
	logging.Logger.Debug("fast resumed", "elapsed_seconds", f.Session.ElapsedSeconds())

	_, err := s.settle(ctx, f, prev)
	return err
}

func (s *FastingService) stop(ctx context.Context, f *Fast) (*domain.SessionRecord, error) {
	if f.Session.State() == domain.StateIdle {
		return nil, domain.ErrNoActiveSession
	}
	record, err := s.finalize(ctx, f)
	if err != nil {
		return nil, err
	}
	f.Snapshot = f.Session.Snapshot()
	return record, nil
}

// settle persists f after a transition from prev. A completed fast is
// recorded when auto-finalize is on, and one that just reached its target
// triggers the notifier once it is persisted. The returned record is
// non-nil only when the fast was finalized.
func (s *FastingService) settle(ctx context.Context, f *Fast, prev domain.SessionState) (*domain.SessionRecord, error) {
	f.Snapshot = f.Session.Snapshot()
	completed := f.Session.State() == domain.StateCompleted

	var record *domain.SessionRecord
	if completed && s.autoFinalize {
		r, err := s.finalize(ctx, f)
		if err != nil {
			return nil, err
		}
		record = r
	} else {
		cp := f.Session.Checkpoint(f.CheckpointAt)
		cp.Revision = f.revision
		if err := s.storage.Active().Save(ctx, cp); err != nil {
			return nil, fmt.Errorf("failed to save active session: %w", err)
		}
		f.revision = cp.Revision
	}

	if completed && prev != domain.StateCompleted {
		s.notifyComplete(f.Snapshot)
	}
	return record, nil
}

func (s *FastingService) finalize(ctx context.Context, f *Fast) (*domain.SessionRecord, error) {
	record, err := f.Session.Stop(s.now())
	if err != nil {
		return nil, err
	}

	if err := s.storage.Finalize(ctx, record, f.revision); err != nil {
		return nil, fmt.Errorf("failed to finalize fast: %w", err)
	}
	f.revision = 0

	f.Finalized = record
	logging.Logger.Debug("fast finalized",
		"record_id", record.ID,
		"protocol", record.ProtocolName,
		"duration_seconds", record.DurationSeconds,
		"completed", record.Completed)
	return record, nil
}

func (s *FastingService) notifyComplete(snap domain.TimerSnapshot) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyFastComplete(snap.ProtocolName, snap.ElapsedSeconds); err != nil {
		logging.Logger.Warn("failed to send notification", "error", err)
	}
}
