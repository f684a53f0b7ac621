// Package storage provides SQLite implementations of the storage ports.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xvierd/fast-cli/internal/domain"
	"github.com/xvierd/fast-cli/internal/logging"
	"github.com/xvierd/fast-cli/internal/ports"
	"modernc.org/sqlite"
)

const memoryDSN = ":memory:"

// sqliteStorage implements the ports.Storage interface using SQLite.
type sqliteStorage struct {
	db         *sql.DB
	recordRepo ports.RecordRepository
	activeRepo ports.ActiveSessionRepository
}

// Ensure sqliteStorage implements ports.Storage.
var _ ports.Storage = (*sqliteStorage)(nil)

// New creates a new SQLite storage instance.
func New(dbPath string) (ports.Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database
	if dbPath == memoryDSN {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	storage := &sqliteStorage{
		db:         db,
		recordRepo: newRecordRepository(db),
		activeRepo: newActiveSessionRepository(db),
	}

	if err := storage.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logging.Logger.Debug("storage opened", "path", dbPath)
	return storage, nil
}

// NewMemory creates a new in-memory SQLite storage instance for testing.
func NewMemory() (ports.Storage, error) {
	return New(memoryDSN)
}

// Records returns the record repository.
func (s *sqliteStorage) Records() ports.RecordRepository {
	return s.recordRepo
}

// Active returns the active session repository.
func (s *sqliteStorage) Active() ports.ActiveSessionRepository {
	return s.activeRepo
}

// Finalize appends the record and clears the checkpoint at revision in one
// transaction.
func (s *sqliteStorage) Finalize(ctx context.Context, record *domain.SessionRecord, revision int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := clearRevision(ctx, tx, revision); err != nil {
		return err
	}
	if err := insertRecord(ctx, tx, record); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit finalize: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

// Migrate creates the database schema.
func (s *sqliteStorage) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		protocol_name TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL,
		completed INTEGER NOT NULL,
		started_at DATETIME NOT NULL,
		ended_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_records_date ON records(date);
	CREATE INDEX IF NOT EXISTS idx_records_protocol ON records(protocol_name);

	CREATE TABLE IF NOT EXISTS active_session (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		protocol_name TEXT NOT NULL,
		fast_hours INTEGER NOT NULL,
		eat_hours INTEGER NOT NULL,
		state TEXT NOT NULL,
		elapsed_seconds INTEGER NOT NULL,
		started_at DATETIME,
		checkpoint_at DATETIME NOT NULL,
		revision INTEGER NOT NULL DEFAULT 1
	);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	// Databases created before revisions were tracked lack the column.
	var hasRevision int
	err = s.db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('active_session') WHERE name = 'revision'`).Scan(&hasRevision)
	if err != nil {
		return fmt.Errorf("failed to inspect active_session: %w", err)
	}
	if hasRevision == 0 {
		if _, err := s.db.Exec(`ALTER TABLE active_session ADD COLUMN revision INTEGER NOT NULL DEFAULT 1`); err != nil {
			return fmt.Errorf("failed to add revision column: %w", err)
		}
	}

	logging.Logger.Debug("storage schema migrated")
	return nil
}

// isUniqueConstraintError checks if an error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case 2067, 1555: // SQLITE_CONSTRAINT_UNIQUE, SQLITE_CONSTRAINT_PRIMARYKEY
		return true
	case 19: // SQLITE_CONSTRAINT without extended codes
		return true
	}
	return false
}
