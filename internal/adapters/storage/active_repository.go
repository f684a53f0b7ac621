package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xvierd/fast-cli/internal/domain"
	"github.com/xvierd/fast-cli/internal/ports"
)

// activeSessionRepository implements ports.ActiveSessionRepository using a
// single-row SQLite table. Every write bumps the row's revision so two
// processes sharing the database cannot overwrite each other unseen.
type activeSessionRepository struct {
	db *sql.DB
}

// newActiveSessionRepository creates a new active session repository.
func newActiveSessionRepository(db *sql.DB) ports.ActiveSessionRepository {
	return &activeSessionRepository{db: db}
}

// Load returns the stored checkpoint, or nil if none exists.
func (r *activeSessionRepository) Load(ctx context.Context) (*domain.Checkpoint, error) {
	query := `
		SELECT protocol_name, fast_hours, eat_hours, state, elapsed_seconds, started_at, checkpoint_at, revision
		FROM active_session
		WHERE id = 1
	`

	var cp domain.Checkpoint
	var state string
	var startedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query).Scan(
		&cp.Protocol.Name,
		&cp.Protocol.FastHours,
		&cp.Protocol.EatHours,
		&state,
		&cp.ElapsedSeconds,
		&startedAt,
		&cp.CheckpointAt,
		&cp.Revision,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active session: %w", err)
	}

	cp.State = domain.SessionState(state)
	if startedAt.Valid {
		cp.StartedAt = &startedAt.Time
	}

	return &cp, nil
}

// Save replaces the stored checkpoint if it is still at cp.Revision.
func (r *activeSessionRepository) Save(ctx context.Context, cp *domain.Checkpoint) error {
	if cp == nil {
		return r.Clear(ctx)
	}

	var query string
	args := []any{
		cp.Protocol.Name,
		cp.Protocol.FastHours,
		cp.Protocol.EatHours,
		string(cp.State),
		cp.ElapsedSeconds,
		cp.StartedAt,
		cp.CheckpointAt,
	}

	if cp.Revision == 0 {
		query = `
			INSERT INTO active_session (
				id, protocol_name, fast_hours, eat_hours, state, elapsed_seconds, started_at, checkpoint_at, revision
			)
			VALUES (1, ?, ?, ?, ?, ?, ?, ?, 1)
			ON CONFLICT(id) DO NOTHING
		`
	} else {
		query = `
			UPDATE active_session SET
				protocol_name = ?,
				fast_hours = ?,
				eat_hours = ?,
				state = ?,
				elapsed_seconds = ?,
				started_at = ?,
				checkpoint_at = ?,
				revision = revision + 1
			WHERE id = 1 AND revision = ?
		`
		args = append(args, cp.Revision)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to save active session: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return err
	}

	cp.Revision++
	return nil
}

// Clear removes the stored checkpoint.
func (r *activeSessionRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM active_session WHERE id = 1`); err != nil {
		return fmt.Errorf("failed to clear active session: %w", err)
	}
	return nil
}

// clearRevision deletes the checkpoint only if it is still at revision.
// Revision zero asserts that nothing is stored.
func clearRevision(ctx context.Context, tx *sql.Tx, revision int64) error {
	if revision == 0 {
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM active_session`).Scan(&n); err != nil {
			return fmt.Errorf("failed to check active session: %w", err)
		}
		if n != 0 {
			return domain.ErrStaleCheckpoint
		}
		return nil
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM active_session WHERE id = 1 AND revision = ?`, revision)
	if err != nil {
		return fmt.Errorf("failed to clear active session: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n != 1 {
		return domain.ErrStaleCheckpoint
	}
	return nil
}
