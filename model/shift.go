package model

import "time"

// ShiftRecord is one continuous interval an agent spent in a service channel.
// A nil EndedAt means the shift is still open; an agent has at most one open shift.
type ShiftRecord struct {
	ID        int64      `json:"id"`
	UserID    string     `json:"user_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// Open reports whether the shift has not been closed yet.
func (s ShiftRecord) Open() bool {
	return s.EndedAt == nil
}

// Duration returns the elapsed time of a closed shift, or zero for an open one.
func (s ShiftRecord) Duration() time.Duration {
	if s.EndedAt == nil {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}
