package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"roster-bot/model"

	"github.com/jmoiron/sqlx"
)

type shiftRow struct {
	ID        int64         `db:"id"`
	UserID    string        `db:"user_id"`
	StartedAt int64         `db:"started_at"`
	EndedAt   sql.NullInt64 `db:"ended_at"`
}

func (r shiftRow) toModel() model.ShiftRecord {
	rec := model.ShiftRecord{
		ID:        r.ID,
		UserID:    r.UserID,
		StartedAt: fromMillis(r.StartedAt),
	}
	if r.EndedAt.Valid {
		ended := fromMillis(r.EndedAt.Int64)
		rec.EndedAt = &ended
	}
	return rec
}

func newShiftRow(s model.ShiftRecord) shiftRow {
	row := shiftRow{ID: s.ID, UserID: s.UserID, StartedAt: toMillis(s.StartedAt)}
	if s.EndedAt != nil {
		row.EndedAt = sql.NullInt64{Int64: toMillis(*s.EndedAt), Valid: true}
	}
	return row
}

func openShiftTx(ctx context.Context, tx *sqlx.Tx, userID string) (*shiftRow, error) {
	var row shiftRow
	err := tx.GetContext(ctx, &row, "SELECT * FROM shifts WHERE user_id = ? AND ended_at IS NULL", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open shift of %s: %w", userID, err)
	}
	return &row, nil
}

// OpenShift starts a shift for an agent. It fails with ErrShiftAlreadyOpen
// when one is already running and ErrAgentNotFound for unknown users.
func (r *Repository) OpenShift(ctx context.Context, userID string, at time.Time) (model.ShiftRecord, error) {
	var rec model.ShiftRecord
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		open, err := openShiftTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		if open != nil {
			return model.ErrShiftAlreadyOpen
		}

		res, err := tx.ExecContext(ctx, "INSERT INTO shifts (user_id, started_at) VALUES (?, ?)", userID, toMillis(at))
		if isForeignKeyViolation(err) {
			return model.ErrAgentNotFound
		}
		if uniqueViolation(err) != "" {
			return model.ErrShiftAlreadyOpen
		}
		if err != nil {
			return fmt.Errorf("failed to open shift for %s: %w", userID, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID: %w", err)
		}
		rec = model.ShiftRecord{ID: id, UserID: userID, StartedAt: fromMillis(toMillis(at))}
		return nil
	})
	return rec, err
}

// CloseShift ends the agent's open shift at the given time and returns it.
// An end time before the start is clamped to the start.
func (r *Repository) CloseShift(ctx context.Context, userID string, at time.Time) (model.ShiftRecord, error) {
	var rec model.ShiftRecord
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		open, err := openShiftTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		if open == nil {
			return model.ErrNoOpenShift
		}

		endMs := max(toMillis(at), open.StartedAt)
		if _, err := tx.ExecContext(ctx, "UPDATE shifts SET ended_at = ? WHERE id = ?", endMs, open.ID); err != nil {
			return fmt.Errorf("failed to close shift %d: %w", open.ID, err)
		}
		open.EndedAt = sql.NullInt64{Int64: endMs, Valid: true}
		rec = open.toModel()
		return nil
	})
	return rec, err
}

// GetOpenShift returns the agent's running shift or ErrNoOpenShift.
func (r *Repository) GetOpenShift(ctx context.Context, userID string) (model.ShiftRecord, error) {
	var row shiftRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM shifts WHERE user_id = ? AND ended_at IS NULL", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ShiftRecord{}, model.ErrNoOpenShift
	}
	if err != nil {
		return model.ShiftRecord{}, fmt.Errorf("failed to get open shift of %s: %w", userID, err)
	}
	return row.toModel(), nil
}

// ListOpenShifts returns every running shift, oldest first.
func (r *Repository) ListOpenShifts(ctx context.Context) ([]model.ShiftRecord, error) {
	return r.selectShifts(ctx, "SELECT * FROM shifts WHERE ended_at IS NULL ORDER BY started_at, id")
}

// ListShifts returns an agent's shift history, oldest first.
func (r *Repository) ListShifts(ctx context.Context, userID string) ([]model.ShiftRecord, error) {
	return r.selectShifts(ctx, "SELECT * FROM shifts WHERE user_id = ? ORDER BY started_at, id", userID)
}

func (r *Repository) selectShifts(ctx context.Context, query string, args ...any) ([]model.ShiftRecord, error) {
	var rows []shiftRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	shifts := make([]model.ShiftRecord, 0, len(rows))
	for _, row := range rows {
		shifts = append(shifts, row.toModel())
	}
	return shifts, nil
}

// DeleteShifts clears the shift history of one agent, or of everyone when
// userID is empty, and returns the number of removed records.
func (r *Repository) DeleteShifts(ctx context.Context, userID string) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if userID == "" {
		res, err = r.db.ExecContext(ctx, "DELETE FROM shifts")
	} else {
		res, err = r.db.ExecContext(ctx, "DELETE FROM shifts WHERE user_id = ?", userID)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to delete shifts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return n, nil
}
