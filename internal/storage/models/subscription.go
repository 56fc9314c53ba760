package models

import "time"

// Subscription is a paid plan with an expiry. A user holds at most one
// subscription row; buying again replaces the plan and resets the clock.
type Subscription struct {
	UserID    int64     `json:"user_id"`
	Plan      string    `json:"plan"`
	StartedAt time.Time `json:"started_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Active reports whether the subscription has not expired at t.
func (s *Subscription) Active(t time.Time) bool {
	return t.Before(s.ExpiresAt)
}
