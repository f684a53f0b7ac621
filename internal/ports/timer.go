package ports

import (
	"context"

	"github.com/xvierd/fast-cli/internal/domain"
)

// TickSource is a periodic callback source the host attaches while a fast
// is running and detaches when it stops counting.
// This is a driven port (implemented by adapters).
type TickSource interface {
	// Attach starts invoking fn once per period until Detach is called or
	// ctx is cancelled. Attaching again replaces the previous callback.
	Attach(ctx context.Context, fn func())

	// Detach stops delivery. It does not wait for an in-flight callback.
	Detach()
}

// Notifier announces fasting milestones to the user.
// This is a driven port (implemented by adapters).
type Notifier interface {
	// NotifyFastComplete is called when a fast reaches its target.
	NotifyFastComplete(protocolName string, durationSeconds int) error
}

// TimerCommand represents a user action during timer operation.
type TimerCommand string

const (
	// CmdPause pauses the timer.
	CmdPause TimerCommand = "pause"

	// CmdResume resumes a paused timer.
	CmdResume TimerCommand = "resume"

	// CmdStop finalizes the current fast.
	CmdStop TimerCommand = "stop"
)

// Timer is the combined interface for TUI timer operations.
// This is a driving port (called by the application layer).
type Timer interface {
	// Run starts the timer interface and blocks until completion.
	Run(ctx context.Context, initialState *domain.CurrentState) error

	// Stop gracefully stops the timer interface.
	Stop()

	// SetCommandCallback sets a function to call when commands are received.
	SetCommandCallback(callback func(cmd TimerCommand) error)

	// UpdateState updates the displayed state.
	UpdateState(state *domain.CurrentState)
}
