// Package ticker provides a wall-clock implementation of the tick source port.
package ticker

import (
	"context"
	"sync"
	"time"

	"github.com/xvierd/fast-cli/internal/ports"
)

// Ticker delivers a callback once per interval on its own goroutine.
type Ticker struct {
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

// Ensure Ticker implements ports.TickSource.
var _ ports.TickSource = (*Ticker)(nil)

// New creates a ticker. Non-positive intervals default to one second.
func New(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	return &Ticker{interval: interval}
}

// Attach starts calling fn every interval until Detach or ctx is done.
// A previous callback is detached first.
func (t *Ticker) Attach(ctx context.Context, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	go t.run(runCtx, fn)
}

// Detach stops delivery. A callback already running is allowed to finish.
func (t *Ticker) Detach() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}

// Attached reports whether a callback is registered.
func (t *Ticker) Attached() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

func (t *Ticker) run(ctx context.Context, fn func()) {
	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			if ctx.Err() != nil {
				return
			}
			fn()
		}
	}
}
