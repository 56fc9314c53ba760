package sqlite

import (
	"time"

	"github.com/oneworldlabs/oneworld/internal/storage/models"
)

// GetStats aggregates a snapshot of the hub for the admin panel.
func (s *Storage) GetStats() (*models.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	var stats models.Stats

	err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE id != ?", treasuryID).Scan(&stats.Users)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&stats.Transactions)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRow("SELECT balance FROM users WHERE id = ?", treasuryID).Scan(&stats.Treasury)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRow(
		"SELECT COALESCE(SUM(balance), 0) FROM users WHERE id != ?", treasuryID,
	).Scan(&stats.Circulating)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRow("SELECT COALESCE(SUM(units), 0) FROM storage_space").Scan(&stats.StorageUnits)
	if err != nil {
		return nil, err
	}

	err = s.db.QueryRow(
		"SELECT COUNT(*) FROM subscriptions WHERE expires_at > ?", time.Now().UTC(),
	).Scan(&stats.ActiveSubs)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
