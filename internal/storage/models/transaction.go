package models

import "time"

// Transaction kinds recorded in the ledger.
const (
	KindAirdrop      = "airdrop"
	KindReferral     = "referral"
	KindTask         = "task"
	KindQuiz         = "quiz"
	KindGame         = "game"
	KindShare        = "share"
	KindDeposit      = "deposit"
	KindPresale      = "presale"
	KindSubscription = "subscription"
	KindStorage      = "storage"
	KindTransfer     = "transfer"
	KindCredit       = "credit" // web app game credits
)

// Transaction statuses.
const (
	StatusPending = "pending"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Transaction is a single ledger entry moving OWC between two accounts.
// Deposits start as pending rows with a zero amount and are settled by
// the chain watcher once the on-chain transfer is confirmed.
type Transaction struct {
	ID        int64     `json:"id"`
	FromID    int64     `json:"from_id"`
	ToID      int64     `json:"to_id"`
	Amount    int64     `json:"amount"`
	Kind      string    `json:"kind"`
	Ref       string    `json:"ref,omitempty"` // tx hash, task name, order ID...
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
