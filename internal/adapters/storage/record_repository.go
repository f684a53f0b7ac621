package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xvierd/fast-cli/internal/domain"
	"github.com/xvierd/fast-cli/internal/ports"
)

const recordColumns = `id, date, protocol_name, duration_seconds, completed, started_at, ended_at`

// recordRepository implements ports.RecordRepository using SQLite.
type recordRepository struct {
	db *sql.DB
}

// newRecordRepository creates a new record repository.
func newRecordRepository(db *sql.DB) ports.RecordRepository {
	return &recordRepository{db: db}
}

// Append persists a finalized record.
func (r *recordRepository) Append(ctx context.Context, record *domain.SessionRecord) error {
	return insertRecord(ctx, r.db, record)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertRecord(ctx context.Context, db execer, record *domain.SessionRecord) error {
	query := `
		INSERT INTO records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query,
		record.ID,
		record.Date,
		record.ProtocolName,
		record.DurationSeconds,
		boolToInt(record.Completed),
		record.StartedAt,
		record.EndedAt,
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("%w: duplicate id %s", domain.ErrInvalidRecord, record.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}

	return nil
}

// FindByID retrieves a record by its unique identifier.
func (r *recordRepository) FindByID(ctx context.Context, id string) (*domain.SessionRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE id = ?`

	record, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find record: %w", err)
	}
	return record, nil
}

// FindAll returns every record, most recent first.
func (r *recordRepository) FindAll(ctx context.Context) ([]*domain.SessionRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM records ORDER BY date DESC, rowid DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

// FindSince returns records dated on or after date.
func (r *recordRepository) FindSince(ctx context.Context, date string) ([]*domain.SessionRecord, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM records
		WHERE date >= ?
		ORDER BY date DESC, rowid DESC
	`

	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanRecords(rows)
}

// Delete removes a record from storage.
func (r *recordRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.SessionRecord, error) {
	var record domain.SessionRecord
	var completed int

	err := row.Scan(
		&record.ID,
		&record.Date,
		&record.ProtocolName,
		&record.DurationSeconds,
		&completed,
		&record.StartedAt,
		&record.EndedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Completed = completed != 0
	return &record, nil
}

func scanRecords(rows *sql.Rows) ([]*domain.SessionRecord, error) {
	var records []*domain.SessionRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
