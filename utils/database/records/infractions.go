package records

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

func pruneTx(ctx context.Context, tx *sqlx.Tx, guildID, userID string, cutoff time.Time) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM infractions WHERE guild_id = ? AND user_id = ? AND at_ms < ?",
		guildID, userID, toMillis(cutoff))
	if err != nil {
		return fmt.Errorf("failed to prune infractions of %s: %w", userID, err)
	}
	return nil
}

func timesTx(ctx context.Context, tx *sqlx.Tx, guildID, userID string) ([]time.Time, error) {
	var ms []int64
	err := tx.SelectContext(ctx, &ms, "SELECT at_ms FROM infractions WHERE guild_id = ? AND user_id = ? ORDER BY at_ms, id",
		guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list infractions of %s: %w", userID, err)
	}
	times := make([]time.Time, 0, len(ms))
	for _, m := range ms {
		times = append(times, fromMillis(m))
	}
	return times, nil
}

// RecordInfraction appends a violation at the given time, drops entries older
// than window and returns what remains, oldest first.
func (r *Repository) RecordInfraction(ctx context.Context, guildID, userID string, at time.Time, window time.Duration) ([]time.Time, error) {
	var times []time.Time
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, "INSERT INTO infractions (guild_id, user_id, at_ms) VALUES (?, ?, ?)",
			guildID, userID, toMillis(at))
		if err != nil {
			return fmt.Errorf("failed to record infraction of %s: %w", userID, err)
		}
		if err := pruneTx(ctx, tx, guildID, userID, at.Add(-window)); err != nil {
			return err
		}
		times, err = timesTx(ctx, tx, guildID, userID)
		return err
	})
	return times, err
}

// Infractions returns the violations of a user still inside the window.
func (r *Repository) Infractions(ctx context.Context, guildID, userID string, now time.Time, window time.Duration) ([]time.Time, error) {
	var times []time.Time
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := pruneTx(ctx, tx, guildID, userID, now.Add(-window)); err != nil {
			return err
		}
		var err error
		times, err = timesTx(ctx, tx, guildID, userID)
		return err
	})
	return times, err
}

// ClearInfractions forgets every violation of a user in a guild.
func (r *Repository) ClearInfractions(ctx context.Context, guildID, userID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM infractions WHERE guild_id = ? AND user_id = ?", guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to clear infractions of %s: %w", userID, err)
	}
	return nil
}

// SweepInfractions drops every violation recorded before cutoff, across all users.
func (r *Repository) SweepInfractions(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM infractions WHERE at_ms < ?", toMillis(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to sweep infractions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return n, nil
}
