package sqlite

import (
	"database/sql"
	"time"

	"github.com/oneworldlabs/oneworld/internal/storage/models"
)

// CreatePresaleOrder books a presale package for the user. The order
// stays booked until an admin releases it after payment.
func (s *Storage) CreatePresaleOrder(userID, amount, usd int64) (*models.PresaleOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStorageClosed
	}
	if userID == treasuryID || amount <= 0 || usd <= 0 {
		return nil, ErrInvalidInput
	}

	order := &models.PresaleOrder{
		ID:        generateID("ord"),
		UserID:    userID,
		Amount:    amount,
		USD:       usd,
		Status:    models.OrderBooked,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(`
		INSERT INTO presale_orders (id, user_id, amount, usd, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, order.ID, order.UserID, order.Amount, order.USD, order.Status, order.CreatedAt)
	if err != nil {
		return nil, err
	}

	return order, nil
}

// GetPresaleOrder retrieves a presale order by ID.
func (s *Storage) GetPresaleOrder(id string) (*models.PresaleOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	return s.getPresaleOrder(id)
}

// getPresaleOrder reads one order row. Callers hold the mutex.
func (s *Storage) getPresaleOrder(id string) (*models.PresaleOrder, error) {
	var o models.PresaleOrder
	err := s.db.QueryRow(`
		SELECT id, user_id, amount, usd, status, created_at
		FROM presale_orders WHERE id = ?
	`, id).Scan(&o.ID, &o.UserID, &o.Amount, &o.USD, &o.Status, &o.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &o, nil
}

// PresaleOrders lists a user's presale orders, newest first.
func (s *Storage) PresaleOrders(userID int64) ([]*models.PresaleOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	rows, err := s.db.Query(`
		SELECT id, user_id, amount, usd, status, created_at
		FROM presale_orders WHERE user_id = ?
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

// ListOrders lists the most recent orders across all users for the
// admin panel, newest first.
func (s *Storage) ListOrders(limit int) ([]*models.PresaleOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.Query(`
		SELECT id, user_id, amount, usd, status, created_at
		FROM presale_orders
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOrders(rows)
}

// ReleaseOrder settles a booked order: the reserved OWC moves from the
// treasury to the buyer and the order flips to released, atomically.
func (s *Storage) ReleaseOrder(id string) (*models.PresaleOrder, error) {
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

	var o models.PresaleOrder
	err = tx.QueryRow(`
		SELECT id, user_id, amount, usd, status, created_at
		FROM presale_orders WHERE id = ? AND status = ?
	`, id, models.OrderBooked).Scan(&o.ID, &o.UserID, &o.Amount, &o.USD, &o.Status, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if _, err := transferTx(tx, treasuryID, o.UserID, o.Amount, models.KindPresale, o.ID); err != nil {
		return nil, err
	}

	if _, err := tx.Exec("UPDATE presale_orders SET status = ? WHERE id = ?", models.OrderReleased, o.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	o.Status = models.OrderReleased
	return &o, nil
}

// scanOrders collects order rows from an open result set.
func scanOrders(rows *sql.Rows) ([]*models.PresaleOrder, error) {
	var orders []*models.PresaleOrder
	for rows.Next() {
		var o models.PresaleOrder
		err := rows.Scan(&o.ID, &o.UserID, &o.Amount, &o.USD, &o.Status, &o.CreatedAt)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}
