package records

import (
	"context"
	"fmt"

	"roster-bot/model"
)

type banRow struct {
	ID         int64  `db:"id"`
	GuildID    string `db:"guild_id"`
	UserID     string `db:"user_id"`
	Reason     string `db:"reason"`
	Violations int    `db:"violations"`
	Status     string `db:"status"`
	Error      string `db:"error"`
	AtMs       int64  `db:"at_ms"`
}

func (r banRow) toModel() model.BanRecord {
	return model.BanRecord{
		ID:         r.ID,
		GuildID:    r.GuildID,
		UserID:     r.UserID,
		Reason:     r.Reason,
		Violations: r.Violations,
		Status:     model.BanStatus(r.Status),
		Error:      r.Error,
		At:         fromMillis(r.AtMs),
	}
}

func newBanRow(b model.BanRecord) banRow {
	return banRow{
		ID:         b.ID,
		GuildID:    b.GuildID,
		UserID:     b.UserID,
		Reason:     b.Reason,
		Violations: b.Violations,
		Status:     string(b.Status),
		Error:      b.Error,
		AtMs:       toMillis(b.At),
	}
}

// AddBan logs an automatic ban attempt and returns its ID.
func (r *Repository) AddBan(ctx context.Context, b model.BanRecord) (int64, error) {
	query := `INSERT INTO bans (guild_id, user_id, reason, violations, status, error, at_ms)
		VALUES (:guild_id, :user_id, :reason, :violations, :status, :error, :at_ms)`
	res, err := r.db.NamedExecContext(ctx, query, newBanRow(b))
	if err != nil {
		return 0, fmt.Errorf("failed to insert ban record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

// ListBans returns the most recent ban attempts in a guild, newest first.
func (r *Repository) ListBans(ctx context.Context, guildID string, limit int) ([]model.BanRecord, error) {
	var rows []banRow
	err := r.db.SelectContext(ctx, &rows, "SELECT * FROM bans WHERE guild_id = ? ORDER BY at_ms DESC, id DESC LIMIT ?", guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bans for guild %s: %w", guildID, err)
	}
	bans := make([]model.BanRecord, 0, len(rows))
	for _, row := range rows {
		bans = append(bans, row.toModel())
	}
	return bans, nil
}
