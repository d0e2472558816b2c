package models

import "time"

// ApprovalStatus is the lifecycle of a signup. Stored as a small integer;
// keep the explicit enum so callers never pass bare numbers around.
type ApprovalStatus int

const (
	StatusPending ApprovalStatus = iota
	StatusApproved
	StatusRejected
)

func (s ApprovalStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	}
	return "unknown"
}

type User struct {
	ID           int64          `json:"id"`
	UserID       string         `json:"userid"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`
	IsAdmin      bool           `json:"is_admin"`
	Availability string         `json:"availability,omitempty"`
	Status       ApprovalStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
}
