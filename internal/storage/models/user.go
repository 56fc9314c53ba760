// Package models contains data models for storage operations.
package models

import "time"

// TreasuryID is the reserved account that holds the uncirculated OWC
// supply. Every reward, bonus and purchase moves coins between the
// treasury and user accounts, so the total supply never changes.
const TreasuryID int64 = 0

// User is a Telegram account enrolled in the hub.
type User struct {
	ID         int64     `json:"id"` // Telegram user ID
	Username   string    `json:"username"`
	FirstName  string    `json:"first_name"`
	Lang       string    `json:"lang"`
	Balance    int64     `json:"balance"` // whole OWC
	Wallet     string    `json:"wallet,omitempty"` // BSC address, EIP-55 checksummed
	RefCode    string    `json:"ref_code,omitempty"` // 6-char invite code
	ReferredBy int64     `json:"referred_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsTreasury reports whether the account is the treasury.
func (u *User) IsTreasury() bool {
	return u.ID == TreasuryID
}
