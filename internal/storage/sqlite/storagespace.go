package sqlite

import (
	"database/sql"
	"time"

	"github.com/oneworldlabs/oneworld/internal/storage/models"
)

// BuyStorage charges units * pricePerUnit to the treasury and adds the
// units to the user's storage space. Returns the updated total.
func (s *Storage) BuyStorage(userID, units, pricePerUnit int64) (*models.StorageSpace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStorageClosed
	}
	if units <= 0 || pricePerUnit <= 0 {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := transferTx(tx, userID, treasuryID, units*pricePerUnit, models.KindStorage, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(`
		INSERT INTO storage_space (user_id, units, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			units = units + excluded.units,
			updated_at = excluded.updated_at
	`, userID, units, now); err != nil {
		return nil, err
	}

	space := &models.StorageSpace{UserID: userID, UpdatedAt: now}
	err = tx.QueryRow("SELECT units FROM storage_space WHERE user_id = ?", userID).Scan(&space.Units)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return space, nil
}

// GetStorage retrieves the user's storage space. Users who never bought
// any get a zero-unit record rather than ErrNotFound.
func (s *Storage) GetStorage(userID int64) (*models.StorageSpace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	var space models.StorageSpace
	err := s.db.QueryRow(`
		SELECT user_id, units, updated_at
		FROM storage_space WHERE user_id = ?
	`, userID).Scan(&space.UserID, &space.Units, &space.UpdatedAt)

	if err == sql.ErrNoRows {
		return &models.StorageSpace{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}

	return &space, nil
}
