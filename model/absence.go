package model

import "time"

type AbsenceStatus string

const (
	AbsencePending  AbsenceStatus = "pending"
	AbsenceApproved AbsenceStatus = "approved"
	AbsenceRejected AbsenceStatus = "rejected"
)

// AbsenceRequest is submitted by an agent and decided once by an approver.
// Requests never expire on their own.
type AbsenceRequest struct {
	ID          string        `json:"id"`
	RequesterID string        `json:"requester_id"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     time.Time     `json:"end_date"`
	Reason      string        `json:"reason"`
	Status      AbsenceStatus `json:"status"`
	DecidedBy   string        `json:"decided_by,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	DecidedAt   *time.Time    `json:"decided_at,omitempty"`
}
