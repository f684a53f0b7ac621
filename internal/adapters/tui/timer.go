package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/fast-cli/internal/config"
	"github.com/xvierd/fast-cli/internal/domain"
	"github.com/xvierd/fast-cli/internal/ports"
)

// Timer implements the ports.Timer interface using Bubbletea.
type Timer struct {
	theme       *config.ThemeConfig
	mu          sync.RWMutex
	program     *tea.Program
	cmdCallback func(cmd ports.TimerCommand) error

	wantsNewFast bool
}

// NewTimer creates a new TUI timer adapter.
func NewTimer(theme *config.ThemeConfig) *Timer {
	return &Timer{theme: theme}
}

// Run starts the timer interface and blocks until the user quits or ctx
// is cancelled.
func (t *Timer) Run(ctx context.Context, initialState *domain.CurrentState) error {
	model := NewModel(initialState, t.theme)

	t.mu.Lock()
	model.SetCommandCallback(t.cmdCallback)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	t.program = program
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		t.program = nil
		t.mu.Unlock()
	}()

	final, err := program.Run()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	if m, ok := final.(Model); ok {
		t.mu.Lock()
		t.wantsNewFast = m.WantsNewFast
		t.mu.Unlock()
	}
	return nil
}

// Stop gracefully stops the timer interface.
func (t *Timer) Stop() {
	t.mu.RLock()
	program := t.program
	t.mu.RUnlock()

	if program != nil {
		program.Quit()
	}
}

// SetCommandCallback sets a function to call when commands are received.
// It takes effect on the next Run.
func (t *Timer) SetCommandCallback(callback func(cmd ports.TimerCommand) error) {
	t.mu.Lock()
	t.cmdCallback = callback
	t.mu.Unlock()
}

// UpdateState replaces the displayed state.
func (t *Timer) UpdateState(state *domain.CurrentState) {
	t.send(stateMsg{state: state})
}

// UpdateSnapshot replaces only the timer portion of the displayed state.
func (t *Timer) UpdateSnapshot(snap domain.TimerSnapshot) {
	t.send(snapshotMsg(snap))
}

// WantsNewFast reports whether the last Run ended with a request to start
// another fast.
func (t *Timer) WantsNewFast() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.wantsNewFast
}

func (t *Timer) send(msg tea.Msg) {
	t.mu.RLock()
	program := t.program
	t.mu.RUnlock()

	if program != nil {
		program.Send(msg)
	}
}

// Ensure Timer implements ports.Timer.
var _ ports.Timer = (*Timer)(nil)
