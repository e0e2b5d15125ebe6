package model

import "time"

// BanStatus records whether the platform accepted the ban.
type BanStatus string

const (
	BanIssued BanStatus = "issued"
	BanFailed BanStatus = "failed"
)

// BanRecord is an automatic ban attempt made by the link enforcer.
type BanRecord struct {
	ID         int64     `json:"id"`
	GuildID    string    `json:"guild_id"`
	UserID     string    `json:"user_id"`
	Reason     string    `json:"reason"`
	Violations int       `json:"violations"`
	Status     BanStatus `json:"status"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}
