// Package sqlite provides SQLite-based storage implementation.
package sqlite

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Storage implements the storage.Storage interface using SQLite
type Storage struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// New opens (or creates) the database at dbPath and seeds the treasury
// account with totalSupply coins on first run.
func New(dbPath string, totalSupply int64) (*Storage, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set connection pool settings for better concurrency
	db.SetMaxOpenConns(1) // SQLite works best with single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	storage := &Storage{db: db}

	if err := storage.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if err := storage.seedTreasury(totalSupply); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed treasury: %w", err)
	}

	return storage, nil
}

// createSchema creates the database schema
func (s *Storage) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id          INTEGER PRIMARY KEY,
		username    TEXT NOT NULL DEFAULT '',
		first_name  TEXT NOT NULL DEFAULT '',
		lang        TEXT NOT NULL DEFAULT 'en',
		balance     INTEGER NOT NULL DEFAULT 0,
		wallet      TEXT NOT NULL DEFAULT '',
		ref_code    TEXT NOT NULL DEFAULT '',
		referred_by INTEGER NOT NULL DEFAULT 0,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		from_id    INTEGER NOT NULL,
		to_id      INTEGER NOT NULL,
		amount     INTEGER NOT NULL DEFAULT 0,
		kind       TEXT NOT NULL,
		ref        TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL DEFAULT 'done',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS user_tasks (
		user_id    INTEGER NOT NULL,
		task       TEXT NOT NULL,
		reward     INTEGER NOT NULL,
		claimed_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, task),
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS storage_space (
		user_id    INTEGER PRIMARY KEY,
		units      INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS subscriptions (
		user_id    INTEGER PRIMARY KEY,
		plan       TEXT NOT NULL,
		started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		expires_at DATETIME NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS presale_orders (
		id         TEXT PRIMARY KEY,
		user_id    INTEGER NOT NULL,
		amount     INTEGER NOT NULL,
		usd        INTEGER NOT NULL,
		status     TEXT NOT NULL DEFAULT 'booked',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_users_ref_code ON users(ref_code) WHERE ref_code != '';
	CREATE INDEX IF NOT EXISTS idx_tx_from ON transactions(from_id);
	CREATE INDEX IF NOT EXISTS idx_tx_to ON transactions(to_id);
	CREATE INDEX IF NOT EXISTS idx_tx_kind_status ON transactions(kind, status);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_tx_deposit_ref ON transactions(ref) WHERE kind = 'deposit';
	CREATE INDEX IF NOT EXISTS idx_orders_user ON presale_orders(user_id);
	CREATE INDEX IF NOT EXISTS idx_orders_status ON presale_orders(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// seedTreasury creates the treasury account holding the full supply.
// A no-op when the account already exists.
func (s *Storage) seedTreasury(totalSupply int64) error {
	_, err := s.db.Exec(`
		INSERT OR IGNORE INTO users (id, username, first_name, balance)
		VALUES (?, 'treasury', 'Treasury', ?)
	`, treasuryID, totalSupply)
	return err
}

// Close closes the database connection
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

// generateID creates a new unique ID with a prefix
func generateID(prefix string) string {
	return prefix + "_" + uuid.New().String()[:8]
}
