// Package ports defines the interfaces (driven and driving ports)
// for the fast application following hexagonal architecture principles.
// These interfaces define the contracts between the domain layer and
// external infrastructure.
package ports

import (
	"context"

	"github.com/xvierd/fast-cli/internal/domain"
)

// RecordRepository defines the interface for session record persistence.
// Records are append-only; insertion order is preserved.
// This is a driven port (implemented by adapters).
type RecordRepository interface {
	// Append persists a finalized record.
	Append(ctx context.Context, record *domain.SessionRecord) error

	// FindByID retrieves a record by its unique identifier.
	FindByID(ctx context.Context, id string) (*domain.SessionRecord, error)

	// FindAll returns every record, most recent date first. Records on the
	// same date are returned newest insertion first.
	FindAll(ctx context.Context) ([]*domain.SessionRecord, error)

	// FindSince returns records dated on or after the given YYYY-MM-DD day.
	FindSince(ctx context.Context, date string) ([]*domain.SessionRecord, error)

	// Delete removes a record from storage.
	Delete(ctx context.Context, id string) error
}

// ActiveSessionRepository persists the single unfinished session.
// This is a driven port (implemented by adapters).
type ActiveSessionRepository interface {
	// Load returns the stored checkpoint, or nil when no fast is in progress.
	Load(ctx context.Context) (*domain.Checkpoint, error)

	// Save replaces the stored checkpoint if its revision still matches
	// checkpoint.Revision, then sets checkpoint.Revision to the new one.
	// A revision of zero only succeeds when nothing is stored. A mismatch
	// returns domain.ErrStaleCheckpoint and writes nothing.
	Save(ctx context.Context, checkpoint *domain.Checkpoint) error

	// Clear removes the stored checkpoint.
	Clear(ctx context.Context) error
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Records provides access to finished session records.
	Records() RecordRepository

	// Active provides access to the in-progress session checkpoint.
	Active() ActiveSessionRepository

	// Finalize appends the record and clears the checkpoint stored at the
	// given revision in a single transaction. A mismatch returns
	// domain.ErrStaleCheckpoint and leaves both untouched.
	Finalize(ctx context.Context, record *domain.SessionRecord, revision int64) error

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
