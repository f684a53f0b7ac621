package services

import (
	"context"
	"sync"

	"github.com/xvierd/fast-cli/internal/domain"
	"github.com/xvierd/fast-cli/internal/logging"
	"github.com/xvierd/fast-cli/internal/ports"
)

// Runner keeps a fast live for a long-lived host such as the TUI. Ticks
// only wake it up: every tick and command reloads the fast from storage
// and counts the wall-clock time since its checkpoint, so changes made by
// other processes are adopted and suspended hosts do not lose time. The
// tick source is attached only while the fast is Active.
type Runner struct {
	svc   *FastingService
	ticks ports.TickSource

	mu   sync.Mutex
	ctx  context.Context
	fast *Fast
	gen  uint64

	onUpdate   func(domain.TimerSnapshot)
	onFinalize func(*domain.SessionRecord)
}

// NewRunner creates a runner woken by the given tick source.
func NewRunner(svc *FastingService, ticks ports.TickSource) *Runner {
	return &Runner{svc: svc, ticks: ticks}
}

// OnUpdate sets the callback that receives a snapshot after every tick.
func (r *Runner) OnUpdate(fn func(domain.TimerSnapshot)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onUpdate = fn
}

// OnFinalize sets the callback that receives records finalized while the
// fast ran in the background.
func (r *Runner) OnFinalize(fn func(*domain.SessionRecord)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onFinalize = fn
}

// Open loads the current fast and starts ticking if it is Active.
func (r *Runner) Open(ctx context.Context) (*Fast, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ctx = ctx
	f, err := r.svc.Load(ctx)
	if err != nil {
		return nil, err
	}
	r.adopt(f)
	return f, nil
}

// Snapshot returns the latest snapshot.
func (r *Runner) Snapshot() domain.TimerSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// Start begins a fast with the named protocol.
func (r *Runner) Start(protocolName string) (domain.TimerSnapshot, error) {
	return r.apply(func(ctx context.Context) (*Fast, error) {
		return r.svc.StartFast(ctx, protocolName)
	})
}

// Pause pauses the running fast.
func (r *Runner) Pause() (domain.TimerSnapshot, error) {
	return r.apply(r.svc.PauseFast)
}

// Resume resumes a paused fast.
func (r *Runner) Resume() (domain.TimerSnapshot, error) {
	return r.apply(r.svc.ResumeFast)
}

// Stop finalizes the fast and returns its record.
func (r *Runner) Stop() (*domain.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, err := r.svc.StopFast(r.context())
	r.refresh()
	return record, err
}

// Close detaches the tick source and checkpoints the fast.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen++
	r.ticks.Detach()
	if r.fast == nil {
		return nil
	}

	_, err := r.svc.Load(r.context())
	return err
}

// apply runs a service operation and adopts the fast it leaves behind. On
// failure the stored fast is reloaded, since the error may come from a
// change made by another process.
func (r *Runner) apply(op func(ctx context.Context) (*Fast, error)) (domain.TimerSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := op(r.context())
	if err != nil {
		r.refresh()
		return r.snapshot(), err
	}
	r.adopt(f)
	return f.Snapshot, nil
}

// tick reloads the fast. Ticks from a detached generation are dropped.
func (r *Runner) tick(gen uint64) {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return
	}

	f, err := r.svc.Load(r.context())
	if err != nil {
		r.mu.Unlock()
		logging.Logger.Error("failed to checkpoint fast", "error", err)
		return
	}
	r.adopt(f)

	snap := f.Snapshot
	onUpdate, onFinalize := r.onUpdate, r.onFinalize
	r.mu.Unlock()

	if onUpdate != nil {
		onUpdate(snap)
	}
	if f.Finalized != nil && onFinalize != nil {
		onFinalize(f.Finalized)
	}
}

// refresh reloads the stored fast after a failed operation. Must be called
// with r.mu held.
func (r *Runner) refresh() {
	f, err := r.svc.Load(r.context())
	if err != nil {
		logging.Logger.Warn("failed to reload fast", "error", err)
		return
	}
	r.adopt(f)
}

// adopt makes f the current fast and matches the tick source to its state.
// Must be called with r.mu held.
func (r *Runner) adopt(f *Fast) {
	wasActive := r.fast != nil && r.fast.Session.IsActive()
	r.fast = f
	if wasActive && f.Session.IsActive() {
		return
	}

	r.gen++
	if !f.Session.IsActive() {
		r.ticks.Detach()
		return
	}

	gen := r.gen
	r.ticks.Attach(r.context(), func() { r.tick(gen) })
}

func (r *Runner) snapshot() domain.TimerSnapshot {
	if r.fast == nil {
		return domain.NewSession().Snapshot()
	}
	return r.fast.Snapshot
}

func (r *Runner) context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}
