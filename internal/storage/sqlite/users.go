package sqlite

import (
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oneworldlabs/oneworld/internal/storage/models"
)

const refCodeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CreateUser enrolls a new user with a fresh referral code and pays the
// signup airdrop from the treasury. The airdrop is silently skipped when
// the treasury cannot cover it. Returns false when the user is already
// enrolled; nothing is paid twice.
func (s *Storage) CreateUser(user *models.User, airdrop int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrStorageClosed
	}
	if user.ID == treasuryID {
		return false, ErrInvalidInput
	}

	if user.Lang == "" {
		user.Lang = "en"
	}
	user.CreatedAt = time.Now().UTC()

	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRow("SELECT 1 FROM users WHERE id = ?", user.ID).Scan(&one)
	if err == nil {
		return false, nil // already enrolled
	}
	if err != sql.ErrNoRows {
		return false, err
	}

	user.RefCode, err = generateRefCode(tx)
	if err != nil {
		return false, err
	}

	if _, err := tx.Exec(`
		INSERT INTO users (id, username, first_name, lang, ref_code, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, user.ID, user.Username, user.FirstName, user.Lang, user.RefCode, user.CreatedAt); err != nil {
		return false, err
	}

	user.Balance = 0
	if airdrop > 0 {
		var treasury int64
		if err := tx.QueryRow("SELECT balance FROM users WHERE id = ?", treasuryID).Scan(&treasury); err != nil {
			return false, err
		}
		// Airdrop only while the treasury can cover it.
		if treasury >= airdrop {
			if _, err := transferTx(tx, treasuryID, user.ID, airdrop, models.KindAirdrop, ""); err != nil {
				return false, err
			}
			user.Balance = airdrop
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	return true, nil
}

// generateRefCode draws 6-character codes until one is unused.
func generateRefCode(tx *sql.Tx) (string, error) {
	buf := make([]byte, 6)
	for {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for i, b := range buf {
			buf[i] = refCodeAlphabet[int(b)%len(refCodeAlphabet)]
		}
		code := string(buf)

		var one int
		err := tx.QueryRow("SELECT 1 FROM users WHERE ref_code = ?", code).Scan(&one)
		if err == sql.ErrNoRows {
			return code, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// ApplyReferral attaches a referrer to the user by referral code and
// pays the bonus to both sides from the treasury. A user can only be
// referred once; referring yourself is refused.
func (s *Storage) ApplyReferral(userID int64, refCode string, bonus int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStorageClosed
	}
	if refCode == "" {
		return nil, ErrInvalidInput
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var referrer models.User
	err = tx.QueryRow(`
		SELECT id, username, first_name, lang, balance, ref_code
		FROM users WHERE ref_code = ?
	`, refCode).Scan(&referrer.ID, &referrer.Username, &referrer.FirstName, &referrer.Lang, &referrer.Balance, &referrer.RefCode)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if referrer.ID == userID {
		return nil, ErrInvalidInput
	}

	var referredBy int64
	err = tx.QueryRow("SELECT referred_by FROM users WHERE id = ?", userID).Scan(&referredBy)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if referredBy != 0 {
		return nil, ErrAlreadyClaimed
	}

	if _, err := tx.Exec("UPDATE users SET referred_by = ? WHERE id = ?", referrer.ID, userID); err != nil {
		return nil, err
	}

	if bonus > 0 {
		if _, err := transferTx(tx, treasuryID, userID, bonus, models.KindReferral, refCode); err != nil {
			return nil, err
		}
		if _, err := transferTx(tx, treasuryID, referrer.ID, bonus, models.KindReferral, refCode); err != nil {
			return nil, err
		}
		referrer.Balance += bonus
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &referrer, nil
}

// GetUser retrieves a user by Telegram ID.
func (s *Storage) GetUser(id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	var u models.User
	err := s.db.QueryRow(`
		SELECT id, username, first_name, lang, balance, wallet, ref_code, referred_by, created_at
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Username, &u.FirstName, &u.Lang, &u.Balance, &u.Wallet, &u.RefCode, &u.ReferredBy, &u.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// UpdateProfile refreshes the Telegram username and first name.
func (s *Storage) UpdateProfile(id int64, username, firstName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	result, err := s.db.Exec(
		"UPDATE users SET username = ?, first_name = ? WHERE id = ?",
		username, firstName, id,
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

// SetLang stores the user's preferred language code.
func (s *Storage) SetLang(id int64, lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	result, err := s.db.Exec("UPDATE users SET lang = ? WHERE id = ?", lang, id)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// SetWallet stores the user's BSC wallet address.
func (s *Storage) SetWallet(id int64, wallet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStorageClosed
	}

	result, err := s.db.Exec("UPDATE users SET wallet = ? WHERE id = ?", wallet, id)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// TopHolders lists users by balance, excluding the treasury.
func (s *Storage) TopHolders(limit int) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStorageClosed
	}

	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(`
		SELECT id, username, first_name, lang, balance, wallet, ref_code, referred_by, created_at
		FROM users WHERE id != ?
		ORDER BY balance DESC, id ASC
		LIMIT ?
	`, treasuryID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var u models.User
		err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.Lang, &u.Balance, &u.Wallet, &u.RefCode, &u.ReferredBy, &u.CreatedAt)
		if err != nil {
			return nil, err
		}
		users = append(users, &u)
	}

	return users, rows.Err()
}

// CountUsers returns the number of enrolled users, excluding the treasury.
func (s *Storage) CountUsers() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrStorageClosed
	}

	var n int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM users WHERE id != ?", treasuryID).Scan(&n)
	return n, err
}
