package model

import "time"

// InfractionWindow holds the recent link violations of one user in one guild,
// oldest first. Entries older than the configured window are pruned on access.
type InfractionWindow struct {
	GuildID string      `json:"guild_id"`
	UserID  string      `json:"user_id"`
	Times   []time.Time `json:"times"`
}

// Prune drops every timestamp older than window relative to now.
// Times must be sorted oldest first.
func Prune(times []time.Time, now time.Time, window time.Duration) []time.Time {
	cutoff := now.Add(-window)
	i := 0
	for i < len(times) && times[i].Before(cutoff) {
		i++
	}
	return times[i:]
}
