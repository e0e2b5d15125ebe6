package records

import (
	"context"
	"fmt"

	"roster-bot/model"

	"github.com/jmoiron/sqlx"
)

type infractionRow struct {
	GuildID string `db:"guild_id"`
	UserID  string `db:"user_id"`
	AtMs    int64  `db:"at_ms"`
}

type settingRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

var snapshotTables = []string{
	"agent_entries", "shifts", "agents", "absences", "infractions",
	"whitelist_domains", "whitelist_channels", "bans", "settings",
}

// Load reads the whole store as one document, inside a single read transaction.
func (r *Repository) Load(ctx context.Context) (*model.Store, error) {
	store := model.NewStore()
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		var agents []agentRow
		if err := tx.SelectContext(ctx, &agents, "SELECT * FROM agents ORDER BY matricule"); err != nil {
			return fmt.Errorf("failed to load agents: %w", err)
		}
		for _, row := range agents {
			store.Agents[row.UserID] = row.toModel()
		}

		var entries []entryRow
		if err := tx.SelectContext(ctx, &entries, "SELECT * FROM agent_entries ORDER BY created_at, id"); err != nil {
			return fmt.Errorf("failed to load entries: %w", err)
		}
		for _, row := range entries {
			agent, ok := store.Agents[row.UserID]
			if !ok {
				continue
			}
			agent.Entries = append(agent.Entries, row.toModel())
			store.Agents[row.UserID] = agent
		}

		var shifts []shiftRow
		if err := tx.SelectContext(ctx, &shifts, "SELECT * FROM shifts ORDER BY started_at, id"); err != nil {
			return fmt.Errorf("failed to load shifts: %w", err)
		}
		for _, row := range shifts {
			store.Services[row.UserID] = append(store.Services[row.UserID], row.toModel())
		}

		var absences []absenceRow
		if err := tx.SelectContext(ctx, &absences, "SELECT * FROM absences ORDER BY created_at, id"); err != nil {
			return fmt.Errorf("failed to load absences: %w", err)
		}
		for _, row := range absences {
			req, err := row.toModel()
			if err != nil {
				return err
			}
			store.Absences = append(store.Absences, req)
		}

		var infractions []infractionRow
		if err := tx.SelectContext(ctx, &infractions, "SELECT guild_id, user_id, at_ms FROM infractions ORDER BY guild_id, user_id, at_ms, id"); err != nil {
			return fmt.Errorf("failed to load infractions: %w", err)
		}
		for _, row := range infractions {
			users, ok := store.Infractions[row.GuildID]
			if !ok {
				users = make(map[string][]int64)
				store.Infractions[row.GuildID] = users
			}
			users[row.UserID] = append(users[row.UserID], row.AtMs)
		}

		if err := tx.SelectContext(ctx, &store.Whitelist.Domains, "SELECT domain FROM whitelist_domains ORDER BY domain"); err != nil {
			return fmt.Errorf("failed to load whitelisted domains: %w", err)
		}
		if err := tx.SelectContext(ctx, &store.Whitelist.Channels, "SELECT channel_id FROM whitelist_channels ORDER BY channel_id"); err != nil {
			return fmt.Errorf("failed to load whitelisted channels: %w", err)
		}

		var bans []banRow
		if err := tx.SelectContext(ctx, &bans, "SELECT * FROM bans ORDER BY id"); err != nil {
			return fmt.Errorf("failed to load bans: %w", err)
		}
		for _, row := range bans {
			store.Bans = append(store.Bans, row.toModel())
		}

		var settings []settingRow
		if err := tx.SelectContext(ctx, &settings, "SELECT key, value FROM settings"); err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		for _, row := range settings {
			store.Settings[row.Key] = row.Value
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Save replaces the whole store with doc in one transaction. Either every
// table is rewritten or nothing changes.
func (r *Repository) Save(ctx context.Context, doc *model.Store) error {
	return r.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, table := range snapshotTables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		for userID, agent := range doc.Agents {
			agent.UserID = userID
			if _, err := tx.NamedExecContext(ctx, insertAgentSQL, newAgentRow(agent)); err != nil {
				return fmt.Errorf("failed to save agent %s: %w", userID, err)
			}
			for _, entry := range agent.Entries {
				entry.UserID = userID
				if _, err := tx.NamedExecContext(ctx, insertEntrySQL, newEntryRow(entry)); err != nil {
					return fmt.Errorf("failed to save entry %s: %w", entry.ID, err)
				}
			}
		}

		for userID, shifts := range doc.Services {
			for _, shift := range shifts {
				shift.UserID = userID
				query := "INSERT INTO shifts (id, user_id, started_at, ended_at) VALUES (:id, :user_id, :started_at, :ended_at)"
				if shift.ID == 0 {
					query = "INSERT INTO shifts (user_id, started_at, ended_at) VALUES (:user_id, :started_at, :ended_at)"
				}
				_, err := tx.NamedExecContext(ctx, query, newShiftRow(shift))
				if err != nil {
					return fmt.Errorf("failed to save shift %d of %s: %w", shift.ID, userID, err)
				}
			}
		}

		for _, req := range doc.Absences {
			if _, err := tx.NamedExecContext(ctx, insertAbsenceSQL, newAbsenceRow(req)); err != nil {
				return fmt.Errorf("failed to save absence %s: %w", req.ID, err)
			}
		}

		for guildID, users := range doc.Infractions {
			for userID, times := range users {
				for _, ms := range times {
					_, err := tx.ExecContext(ctx, "INSERT INTO infractions (guild_id, user_id, at_ms) VALUES (?, ?, ?)",
						guildID, userID, ms)
					if err != nil {
						return fmt.Errorf("failed to save infraction of %s: %w", userID, err)
					}
				}
			}
		}

		for _, domain := range doc.Whitelist.Domains {
			if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO whitelist_domains (domain) VALUES (?)", domain); err != nil {
				return fmt.Errorf("failed to save domain %s: %w", domain, err)
			}
		}
		for _, channelID := range doc.Whitelist.Channels {
			if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO whitelist_channels (channel_id) VALUES (?)", channelID); err != nil {
				return fmt.Errorf("failed to save channel %s: %w", channelID, err)
			}
		}

		for _, ban := range doc.Bans {
			query := `INSERT INTO bans (id, guild_id, user_id, reason, violations, status, error, at_ms)
				VALUES (:id, :guild_id, :user_id, :reason, :violations, :status, :error, :at_ms)`
			if ban.ID == 0 {
				query = `INSERT INTO bans (guild_id, user_id, reason, violations, status, error, at_ms)
				VALUES (:guild_id, :user_id, :reason, :violations, :status, :error, :at_ms)`
			}
			_, err := tx.NamedExecContext(ctx, query, newBanRow(ban))
			if err != nil {
				return fmt.Errorf("failed to save ban %d: %w", ban.ID, err)
			}
		}

		for key, value := range doc.Settings {
			if _, err := tx.ExecContext(ctx, "INSERT INTO settings (key, value) VALUES (?, ?)", key, value); err != nil {
				return fmt.Errorf("failed to save setting %s: %w", key, err)
			}
		}
		return nil
	})
}
