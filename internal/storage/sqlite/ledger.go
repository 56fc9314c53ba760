package sqlite

import (
	"database/sql"
	"time"

	"github.com/oneworldlabs/oneworld/internal/storage/models"
)

// transferTx moves amount between two accounts inside an open database
// transaction and records the ledger row. Balances only ever change
// through this function, which keeps the total supply constant.
func transferTx(tx *sql.Tx, fromID, toID, amount int64, kind, ref string) (int64, error) {
	if amount <= 0 || fromID == toID {
		return 0, ErrInvalidInput
	}

	var balance int64
	err := tx.QueryRow("SELECT balance FROM users WHERE id = ?", fromID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if balance < amount {
		return 0, ErrInsufficientFunds
	}

	if _, err := tx.Exec("UPDATE users SET balance = balance - ? WHERE id = ?", amount, fromID); err != nil {
		return 0, err
	}

	res, err := tx.Exec("UPDATE users SET balance = balance + ? WHERE id = ?", amount, toID)
	if err != nil {
		return 0, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, ErrNotFound
	}

	out, err := tx.Exec(`
		INSERT INTO transactions (from_id, to_id, amount, kind, ref, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, fromID, toID, amount, kind, ref, models.StatusDone, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	return out.LastInsertId()
}

// Transfer moves OWC between two accounts and records it in the ledger.
func (s *Storage) Transfer(fromID, toID, amount int64, kind, ref string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	id, err := transferTx(tx, fromID, toID, amount, kind, ref)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.getTransaction(id)
}

// GetTransaction retrieves a single ledger entry by ID.
func (s *Storage) GetTransaction(id int64) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	return s.getTransaction(id)
}

// getTransaction reads one ledger row. Callers hold the mutex.
func (s *Storage) getTransaction(id int64) (*models.Transaction, error) {
	var t models.Transaction
	err := s.db.QueryRow(`
		SELECT id, from_id, to_id, amount, kind, ref, status, created_at
		FROM transactions WHERE id = ?
	`, id).Scan(&t.ID, &t.FromID, &t.ToID, &t.Amount, &t.Kind, &t.Ref, &t.Status, &t.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// History lists ledger entries touching the given account, newest first.
func (s *Storage) History(userID int64, limit int) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT id, from_id, to_id, amount, kind, ref, status, created_at
		FROM transactions
		WHERE from_id = ? OR to_id = ?
		ORDER BY id DESC
		LIMIT ?
	`, userID, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// scanTransactions collects ledger rows from an open result set.
func scanTransactions(rows *sql.Rows) ([]*models.Transaction, error) {
	var txs []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.FromID, &t.ToID, &t.Amount, &t.Kind, &t.Ref, &t.Status, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		txs = append(txs, &t)
	}
	return txs, rows.Err()
}
