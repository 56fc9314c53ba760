package sqlite

import (
	"database/sql"
	"time"

	"github.com/oneworldlabs/oneworld/internal/storage/models"
)

// ClaimTask pays a one-time task reward from the treasury. A second
// claim for the same task returns ErrAlreadyClaimed and pays nothing.
func (s *Storage) ClaimTask(userID int64, task string, reward int64) (*models.TaskClaim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStorageClosed
	}
	if task == "" || reward <= 0 {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRow(
		"SELECT 1 FROM user_tasks WHERE user_id = ? AND task = ?",
		userID, task,
	).Scan(&one)
	if err == nil {
		return nil, ErrAlreadyClaimed
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	claim := &models.TaskClaim{
		UserID:    userID,
		Task:      task,
		Reward:    reward,
		ClaimedAt: time.Now().UTC(),
	}

	if _, err := tx.Exec(`
		INSERT INTO user_tasks (user_id, task, reward, claimed_at)
		VALUES (?, ?, ?, ?)
	`, claim.UserID, claim.Task, claim.Reward, claim.ClaimedAt); err != nil {
		return nil, err
	}

	if _, err := transferTx(tx, treasuryID, userID, reward, models.KindTask, task); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return claim, nil
}

// ClaimedTasks lists the tasks a user has already collected.
func (s *Storage) ClaimedTasks(userID int64) ([]*models.TaskClaim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	rows, err := s.db.Query(`
		SELECT user_id, task, reward, claimed_at
		FROM user_tasks WHERE user_id = ?
		ORDER BY claimed_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var claims []*models.TaskClaim
	for rows.Next() {
		var c models.TaskClaim
		err := rows.Scan(&c.UserID, &c.Task, &c.Reward, &c.ClaimedAt)
		if err != nil {
			return nil, err
		}
		claims = append(claims, &c)
	}

	return claims, rows.Err()
}
