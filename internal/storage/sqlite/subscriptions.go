package sqlite

import (
	"database/sql"
	"time"

	"github.com/oneworldlabs/oneworld/internal/storage/models"
)

// Subscribe charges the plan price to the treasury and opens (or
// replaces) the user's subscription for the given number of days.
func (s *Storage) Subscribe(userID int64, plan string, price int64, days int) (*models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStorageClosed
	}
	if plan == "" || price <= 0 || days <= 0 {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := transferTx(tx, userID, treasuryID, price, models.KindSubscription, plan); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sub := &models.Subscription{
		UserID:    userID,
		Plan:      plan,
		StartedAt: now,
		ExpiresAt: now.AddDate(0, 0, days),
	}

	if _, err := tx.Exec(`
		INSERT INTO subscriptions (user_id, plan, started_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			plan = excluded.plan,
			started_at = excluded.started_at,
			expires_at = excluded.expires_at
	`, sub.UserID, sub.Plan, sub.StartedAt, sub.ExpiresAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return sub, nil
}

// GetSubscription retrieves the user's subscription, expired or not.
func (s *Storage) GetSubscription(userID int64) (*models.Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	var sub models.Subscription
	err := s.db.QueryRow(`
		SELECT user_id, plan, started_at, expires_at
		FROM subscriptions WHERE user_id = ?
	`, userID).Scan(&sub.UserID, &sub.Plan, &sub.StartedAt, &sub.ExpiresAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &sub, nil
}
