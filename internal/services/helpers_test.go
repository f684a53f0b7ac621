package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xvierd/fast-cli/internal/adapters/storage"
	"github.com/xvierd/fast-cli/internal/domain"
	"github.com/xvierd/fast-cli/internal/ports"
)

func setupTestStorage(t *testing.T) ports.Storage {
	t.Helper()
	store, err := storage.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{now: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeTicks is a tick source fired by hand. When clock is set, each
// delivered tick first moves it forward one second.
type fakeTicks struct {
	mu       sync.Mutex
	fn       func()
	attaches int
	clock    *fakeClock
}

func (f *fakeTicks) Attach(ctx context.Context, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fn = fn
	f.attaches++
}

func (f *fakeTicks) Detach() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fn = nil
}

func (f *fakeTicks) attached() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fn != nil
}

func (f *fakeTicks) current() func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fn
}

// fire delivers n ticks, stopping early once detached.
func (f *fakeTicks) fire(n int) {
	for i := 0; i < n; i++ {
		fn := f.current()
		if fn == nil {
			return
		}
		if f.clock != nil {
			f.clock.Advance(time.Second)
		}
		fn()
	}
}

type notification struct {
	protocol string
	seconds  int
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notification
}

func (n *fakeNotifier) NotifyFastComplete(protocolName string, durationSeconds int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notification{protocol: protocolName, seconds: durationSeconds})
	return nil
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.calls)
}

// interferingStorage stands in for a second process sharing the database:
// each hook runs once, just before the first checkpoint write or finalize.
type interferingStorage struct {
	ports.Storage
	beforeSave     func()
	beforeFinalize func()
}

func (s *interferingStorage) Active() ports.ActiveSessionRepository {
	return interferingActive{ActiveSessionRepository: s.Storage.Active(), s: s}
}

func (s *interferingStorage) Finalize(ctx context.Context, record *domain.SessionRecord, revision int64) error {
	if hook := s.beforeFinalize; hook != nil {
		s.beforeFinalize = nil
		hook()
	}
	return s.Storage.Finalize(ctx, record, revision)
}

type interferingActive struct {
	ports.ActiveSessionRepository
	s *interferingStorage
}

func (a interferingActive) Save(ctx context.Context, cp *domain.Checkpoint) error {
	if hook := a.s.beforeSave; hook != nil {
		a.s.beforeSave = nil
		hook()
	}
	return a.ActiveSessionRepository.Save(ctx, cp)
}

var _ ports.TickSource = (*fakeTicks)(nil)
var _ ports.Notifier = (*fakeNotifier)(nil)
