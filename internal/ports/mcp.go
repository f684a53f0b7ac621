package ports

import (
	"context"

	"github.com/xvierd/fast-cli/internal/domain"
)

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider provides state information to the MCP server.
// This is a driven port (implemented by services layer).
type MCPStateProvider interface {
	// GetCurrentState returns the timer snapshot plus history aggregates.
	GetCurrentState(ctx context.Context) (*domain.CurrentState, error)

	// ListProtocols returns the configured protocol catalog.
	ListProtocols(ctx context.Context) ([]domain.Protocol, error)

	// ListHistory returns up to limit records, most recent first.
	ListHistory(ctx context.Context, limit int) ([]*domain.SessionRecord, error)

	// StartFast begins a fast with the named protocol.
	StartFast(ctx context.Context, protocolName string) (*domain.TimerSnapshot, error)

	// PauseFast pauses the running fast.
	PauseFast(ctx context.Context) (*domain.TimerSnapshot, error)

	// ResumeFast resumes a paused fast.
	ResumeFast(ctx context.Context) (*domain.TimerSnapshot, error)

	// StopFast finalizes the current fast into a history record.
	StopFast(ctx context.Context) (*domain.SessionRecord, error)
}
