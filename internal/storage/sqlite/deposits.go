package sqlite

import (
	"database/sql"
	"time"

	"github.com/oneworldlabs/oneworld/internal/storage/models"
)

// RecordDeposit files an on-chain deposit claim for later verification
// by the chain watcher. The amount stays zero until the transaction is
// confirmed and settled. Each tx hash can only be claimed once.
func (s *Storage) RecordDeposit(userID int64, txHash string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStorageClosed
	}
	if userID == treasuryID || txHash == "" {
		return nil, ErrInvalidInput
	}

	var one int
	err := s.db.QueryRow(
		"SELECT 1 FROM transactions WHERE kind = ? AND ref = ?",
		models.KindDeposit, txHash,
	).Scan(&one)
	if err == nil {
		return nil, ErrDuplicateKey
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	res, err := s.db.Exec(`
		INSERT INTO transactions (from_id, to_id, amount, kind, ref, status, created_at)
		VALUES (?, ?, 0, ?, ?, ?, ?)
	`, treasuryID, userID, models.KindDeposit, txHash, models.StatusPending, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return s.getTransaction(id)
}

// PendingDeposits lists unverified deposit claims, oldest first.
func (s *Storage) PendingDeposits(limit int) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, from_id, to_id, amount, kind, ref, status, created_at
		FROM transactions
		WHERE kind = ? AND status = ?
		ORDER BY id ASC
		LIMIT ?
	`, models.KindDeposit, models.StatusPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// SettleDeposit credits a confirmed deposit from the treasury and marks
// the claim done. The credit and the status flip are one transaction.
func (s *Storage) SettleDeposit(id, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}
	if amount <= 0 {
		return ErrInvalidInput
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var userID int64
	err = tx.QueryRow(
		"SELECT to_id FROM transactions WHERE id = ? AND kind = ? AND status = ?",
		id, models.KindDeposit, models.StatusPending,
	).Scan(&userID)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var balance int64
	err = tx.QueryRow("SELECT balance FROM users WHERE id = ?", treasuryID).Scan(&balance)
	if err != nil {
		return err
	}
	if balance < amount {
		return ErrInsufficientFunds
	}

	if _, err := tx.Exec("UPDATE users SET balance = balance - ? WHERE id = ?", amount, treasuryID); err != nil {
		return err
	}
	if _, err := tx.Exec("UPDATE users SET balance = balance + ? WHERE id = ?", amount, userID); err != nil {
		return err
	}
	if _, err := tx.Exec(
		"UPDATE transactions SET amount = ?, status = ? WHERE id = ?",
		amount, models.StatusDone, id,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// FailDeposit marks a pending deposit claim as failed verification.
func (s *Storage) FailDeposit(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	result, err := s.db.Exec(
		"UPDATE transactions SET status = ? WHERE id = ? AND kind = ? AND status = ?",
		models.StatusFailed, id, models.KindDeposit, models.StatusPending,
	)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
