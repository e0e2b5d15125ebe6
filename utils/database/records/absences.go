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

const dateLayout = "2006-01-02"

type absenceRow struct {
	ID          string        `db:"id"`
	RequesterID string        `db:"requester_id"`
	StartDate   string        `db:"start_date"`
	EndDate     string        `db:"end_date"`
	Reason      string        `db:"reason"`
	Status      string        `db:"status"`
	DecidedBy   string        `db:"decided_by"`
	CreatedAt   int64         `db:"created_at"`
	DecidedAt   sql.NullInt64 `db:"decided_at"`
}

func (r absenceRow) toModel() (model.AbsenceRequest, error) {
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return model.AbsenceRequest{}, fmt.Errorf("bad start date on absence %s: %w", r.ID, err)
	}
	end, err := time.Parse(dateLayout, r.EndDate)
	if err != nil {
		return model.AbsenceRequest{}, fmt.Errorf("bad end date on absence %s: %w", r.ID, err)
	}
	req := model.AbsenceRequest{
		ID:          r.ID,
		RequesterID: r.RequesterID,
		StartDate:   start,
		EndDate:     end,
		Reason:      r.Reason,
		Status:      model.AbsenceStatus(r.Status),
		DecidedBy:   r.DecidedBy,
		CreatedAt:   fromMillis(r.CreatedAt),
	}
	if r.DecidedAt.Valid {
		decided := fromMillis(r.DecidedAt.Int64)
		req.DecidedAt = &decided
	}
	return req, nil
}

func newAbsenceRow(a model.AbsenceRequest) absenceRow {
	row := absenceRow{
		ID:          a.ID,
		RequesterID: a.RequesterID,
		StartDate:   a.StartDate.Format(dateLayout),
		EndDate:     a.EndDate.Format(dateLayout),
		Reason:      a.Reason,
		Status:      string(a.Status),
		DecidedBy:   a.DecidedBy,
		CreatedAt:   toMillis(a.CreatedAt),
	}
	if a.DecidedAt != nil {
		row.DecidedAt = sql.NullInt64{Int64: toMillis(*a.DecidedAt), Valid: true}
	}
	return row
}

const insertAbsenceSQL = `INSERT INTO absences (id, requester_id, start_date, end_date, reason, status, decided_by, created_at, decided_at)
	VALUES (:id, :requester_id, :start_date, :end_date, :reason, :status, :decided_by, :created_at, :decided_at)`

func (r *Repository) CreateAbsence(ctx context.Context, a model.AbsenceRequest) error {
	if _, err := r.db.NamedExecContext(ctx, insertAbsenceSQL, newAbsenceRow(a)); err != nil {
		return fmt.Errorf("failed to insert absence %s: %w", a.ID, err)
	}
	return nil
}

func getAbsence(ctx context.Context, q sqlx.QueryerContext, id string) (model.AbsenceRequest, error) {
	var row absenceRow
	err := sqlx.GetContext(ctx, q, &row, "SELECT * FROM absences WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AbsenceRequest{}, model.ErrAbsenceNotFound
	}
	if err != nil {
		return model.AbsenceRequest{}, fmt.Errorf("failed to get absence %s: %w", id, err)
	}
	return row.toModel()
}

func (r *Repository) GetAbsence(ctx context.Context, id string) (model.AbsenceRequest, error) {
	return getAbsence(ctx, r.db, id)
}

// DecideAbsence approves or rejects a pending request. A request is decided
// only once; later attempts get ErrAbsenceDecided.
func (r *Repository) DecideAbsence(ctx context.Context, id string, status model.AbsenceStatus, decidedBy string, at time.Time) (model.AbsenceRequest, error) {
	var req model.AbsenceRequest
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		req, err = getAbsence(ctx, tx, id)
		if err != nil {
			return err
		}
		if req.Status != model.AbsencePending {
			return model.ErrAbsenceDecided
		}

		decidedAt := fromMillis(toMillis(at))
		_, err = tx.ExecContext(ctx, "UPDATE absences SET status = ?, decided_by = ?, decided_at = ? WHERE id = ?",
			string(status), decidedBy, toMillis(decidedAt), id)
		if err != nil {
			return fmt.Errorf("failed to update absence %s: %w", id, err)
		}
		req.Status = status
		req.DecidedBy = decidedBy
		req.DecidedAt = &decidedAt
		return nil
	})
	return req, err
}

// ListAbsences returns requests oldest first, filtered by status unless it is empty.
func (r *Repository) ListAbsences(ctx context.Context, status model.AbsenceStatus) ([]model.AbsenceRequest, error) {
	query := "SELECT * FROM absences"
	var args []any
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, string(status))
	}
	query += " ORDER BY created_at, id"

	var rows []absenceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list absences: %w", err)
	}
	absences := make([]model.AbsenceRequest, 0, len(rows))
	for _, row := range rows {
		req, err := row.toModel()
		if err != nil {
			return nil, err
		}
		absences = append(absences, req)
	}
	return absences, nil
}
