package models

import "time"

// TaskClaim records a one-time task reward collected by a user.
type TaskClaim struct {
	UserID    int64     `json:"user_id"`
	Task      string    `json:"task"`
	Reward    int64     `json:"reward"`
	ClaimedAt time.Time `json:"claimed_at"`
}
