package model

import "time"

// EntryKind distinguishes rewards from sanctions in an agent's record.
type EntryKind string

const (
	EntryReward   EntryKind = "reward"
	EntrySanction EntryKind = "sanction"
)

// Valid reports whether k is a known entry kind.
func (k EntryKind) Valid() bool {
	return k == EntryReward || k == EntrySanction
}

// Agent is a staff member on the roster.
// Matricule is unique across all agents and lies in [MinMatricule, MaxMatricule].
type Agent struct {
	UserID            string       `json:"user_id"`
	Matricule         int          `json:"matricule"`
	GameID            string       `json:"game_id"`
	CaseFileChannelID string       `json:"case_file_channel_id"`
	Salary            int64        `json:"salary"`
	RegisteredAt      time.Time    `json:"registered_at"`
	Entries           []AgentEntry `json:"entries"`
}

const (
	MinMatricule = 1
	MaxMatricule = 99
)

// AgentEntry is a reward or sanction logged against an agent.
type AgentEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      EntryKind `json:"kind"`
	Reason    string    `json:"reason"`
	IssuedBy  string    `json:"issued_by"`
	CreatedAt time.Time `json:"created_at"`
}
