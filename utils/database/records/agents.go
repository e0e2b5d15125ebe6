package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"roster-bot/model"

	"github.com/jmoiron/sqlx"
)

type agentRow struct {
	UserID            string `db:"user_id"`
	Matricule         int    `db:"matricule"`
	GameID            string `db:"game_id"`
	CaseFileChannelID string `db:"case_file_channel_id"`
	Salary            int64  `db:"salary"`
	RegisteredAt      int64  `db:"registered_at"`
}

func (r agentRow) toModel() model.Agent {
	return model.Agent{
		UserID:            r.UserID,
		Matricule:         r.Matricule,
		GameID:            r.GameID,
		CaseFileChannelID: r.CaseFileChannelID,
		Salary:            r.Salary,
		RegisteredAt:      fromMillis(r.RegisteredAt),
		Entries:           []model.AgentEntry{},
	}
}

func newAgentRow(a model.Agent) agentRow {
	return agentRow{
		UserID:            a.UserID,
		Matricule:         a.Matricule,
		GameID:            a.GameID,
		CaseFileChannelID: a.CaseFileChannelID,
		Salary:            a.Salary,
		RegisteredAt:      toMillis(a.RegisteredAt),
	}
}

type entryRow struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	Kind      string `db:"kind"`
	Reason    string `db:"reason"`
	IssuedBy  string `db:"issued_by"`
	CreatedAt int64  `db:"created_at"`
}

func (r entryRow) toModel() model.AgentEntry {
	return model.AgentEntry{
		ID:        r.ID,
		UserID:    r.UserID,
		Kind:      model.EntryKind(r.Kind),
		Reason:    r.Reason,
		IssuedBy:  r.IssuedBy,
		CreatedAt: fromMillis(r.CreatedAt),
	}
}

func newEntryRow(e model.AgentEntry) entryRow {
	return entryRow{
		ID:        e.ID,
		UserID:    e.UserID,
		Kind:      string(e.Kind),
		Reason:    e.Reason,
		IssuedBy:  e.IssuedBy,
		CreatedAt: toMillis(e.CreatedAt),
	}
}

const insertAgentSQL = `INSERT INTO agents (user_id, matricule, game_id, case_file_channel_id, salary, registered_at)
	VALUES (:user_id, :matricule, :game_id, :case_file_channel_id, :salary, :registered_at)`

const insertEntrySQL = `INSERT INTO agent_entries (id, user_id, kind, reason, issued_by, created_at)
	VALUES (:id, :user_id, :kind, :reason, :issued_by, :created_at)`

// CreateAgent inserts a new agent. Collisions on user, matricule or game id
// come back as the matching model error.
func (r *Repository) CreateAgent(ctx context.Context, a model.Agent) error {
	_, err := r.db.NamedExecContext(ctx, insertAgentSQL, newAgentRow(a))
	if err == nil {
		return nil
	}
	switch uniqueViolation(err) {
	case "agents.user_id":
		return model.ErrAgentExists
	case "agents.matricule":
		return model.ErrDuplicateMatricule
	case "agents.game_id":
		return model.ErrDuplicateGameID
	}
	return fmt.Errorf("failed to insert agent %s: %w", a.UserID, err)
}

// GetAgent returns an agent with its rewards and sanctions.
func (r *Repository) GetAgent(ctx context.Context, userID string) (*model.Agent, error) {
	var row agentRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM agents WHERE user_id = ?", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrAgentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agent %s: %w", userID, err)
	}
	agent := row.toModel()
	entries, err := r.ListEntries(ctx, userID)
	if err != nil {
		return nil, err
	}
	agent.Entries = entries
	return &agent, nil
}

// IsAgent reports whether userID is on the roster.
func (r *Repository) IsAgent(ctx context.Context, userID string) (bool, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM agents WHERE user_id = ?", userID); err != nil {
		return false, fmt.Errorf("failed to look up agent %s: %w", userID, err)
	}
	return n > 0, nil
}

// ListAgents returns every agent ordered by matricule, without entries.
func (r *Repository) ListAgents(ctx context.Context) ([]model.Agent, error) {
	var rows []agentRow
	if err := r.db.SelectContext(ctx, &rows, "SELECT * FROM agents ORDER BY matricule"); err != nil {
		return nil, fmt.Errorf("failed to list agents: %w", err)
	}
	agents := make([]model.Agent, 0, len(rows))
	for _, row := range rows {
		agents = append(agents, row.toModel())
	}
	return agents, nil
}

// DeleteAgent removes an agent together with its shifts and entries and
// returns how many shift records went with it.
func (r *Repository) DeleteAgent(ctx context.Context, userID string) (int64, error) {
	var shiftsRemoved int64
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM shifts WHERE user_id = ?", userID)
		if err != nil {
			return fmt.Errorf("failed to delete shifts of %s: %w", userID, err)
		}
		shiftsRemoved, _ = res.RowsAffected()

		if _, err := tx.ExecContext(ctx, "DELETE FROM agent_entries WHERE user_id = ?", userID); err != nil {
			return fmt.Errorf("failed to delete entries of %s: %w", userID, err)
		}

		res, err = tx.ExecContext(ctx, "DELETE FROM agents WHERE user_id = ?", userID)
		if err != nil {
			return fmt.Errorf("failed to delete agent %s: %w", userID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return model.ErrAgentNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return shiftsRemoved, nil
}

// AddEntry records a reward or sanction for an existing agent.
func (r *Repository) AddEntry(ctx context.Context, e model.AgentEntry) error {
	_, err := r.db.NamedExecContext(ctx, insertEntrySQL, newEntryRow(e))
	if isForeignKeyViolation(err) {
		return model.ErrAgentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to insert entry for %s: %w", e.UserID, err)
	}
	return nil
}

// ListEntries returns an agent's entries, oldest first.
func (r *Repository) ListEntries(ctx context.Context, userID string) ([]model.AgentEntry, error) {
	var rows []entryRow
	err := r.db.SelectContext(ctx, &rows, "SELECT * FROM agent_entries WHERE user_id = ? ORDER BY created_at, id", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries of %s: %w", userID, err)
	}
	entries := make([]model.AgentEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toModel())
	}
	return entries, nil
}
