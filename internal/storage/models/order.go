package models

import "time"

// Presale order statuses.
const (
	OrderBooked   = "booked"
	OrderReleased = "released"
)

// PresaleOrder is a reservation of presale OWC. Orders are booked by
// the buyer and released (credited) by an admin after payment clears.
type PresaleOrder struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	Amount    int64     `json:"amount"` // OWC reserved
	USD       int64     `json:"usd"`    // price in whole USD
	Status    string    `json:"status"` // booked, released
	CreatedAt time.Time `json:"created_at"`
}

// StorageSpace tracks how many storage units a user has bought.
type StorageSpace struct {
	UserID    int64     `json:"user_id"`
	Units     int64     `json:"units"`
	UpdatedAt time.Time `json:"updated_at"`
}
