// Package storage provides the storage interface and implementations.
package storage

import (
	"github.com/oneworldlabs/oneworld/internal/storage/models"
	"github.com/oneworldlabs/oneworld/internal/storage/sqlite"
)

// Re-export types from models package for convenience
type (
	User         = models.User
	Transaction  = models.Transaction
	TaskClaim    = models.TaskClaim
	Subscription = models.Subscription
	PresaleOrder = models.PresaleOrder
	StorageSpace = models.StorageSpace
	Stats        = models.Stats
)

// TreasuryID is re-exported from models for convenience.
const TreasuryID = models.TreasuryID

// Presale order statuses, re-exported from models.
const (
	OrderBooked   = models.OrderBooked
	OrderReleased = models.OrderReleased
)

// Ledger transaction kinds, re-exported from models.
const (
	KindAirdrop      = models.KindAirdrop
	KindReferral     = models.KindReferral
	KindTask         = models.KindTask
	KindQuiz         = models.KindQuiz
	KindGame         = models.KindGame
	KindShare        = models.KindShare
	KindDeposit      = models.KindDeposit
	KindPresale      = models.KindPresale
	KindSubscription = models.KindSubscription
	KindStorage      = models.KindStorage
	KindTransfer     = models.KindTransfer
	KindCredit       = models.KindCredit
)

// Re-export errors from sqlite package
var (
	ErrNotFound          = sqlite.ErrNotFound
	ErrDuplicateKey      = sqlite.ErrDuplicateKey
	ErrInvalidInput      = sqlite.ErrInvalidInput
	ErrStorageClosed     = sqlite.ErrStorageClosed
	ErrInsufficientFunds = sqlite.ErrInsufficientFunds
	ErrAlreadyClaimed    = sqlite.ErrAlreadyClaimed
)

// Storage defines the interface for persistent data storage
type Storage interface {
	// User operations
	CreateUser(user *models.User, airdrop int64) (bool, error)
	GetUser(id int64) (*models.User, error)
	UpdateProfile(id int64, username, firstName string) error
	SetLang(id int64, lang string) error
	SetWallet(id int64, wallet string) error
	ApplyReferral(userID int64, refCode string, bonus int64) (*models.User, error)
	TopHolders(limit int) ([]*models.User, error)
	CountUsers() (int64, error)

	// Ledger operations
	Transfer(fromID, toID, amount int64, kind, ref string) (*models.Transaction, error)
	GetTransaction(id int64) (*models.Transaction, error)
	History(userID int64, limit int) ([]*models.Transaction, error)

	// Deposit verification operations
	RecordDeposit(userID int64, txHash string) (*models.Transaction, error)
	PendingDeposits(limit int) ([]*models.Transaction, error)
	SettleDeposit(id, amount int64) error
	FailDeposit(id int64) error

	// Task reward operations
	ClaimTask(userID int64, task string, reward int64) (*models.TaskClaim, error)
	ClaimedTasks(userID int64) ([]*models.TaskClaim, error)

	// Marketplace operations
	Subscribe(userID int64, plan string, price int64, days int) (*models.Subscription, error)
	GetSubscription(userID int64) (*models.Subscription, error)
	BuyStorage(userID, units, pricePerUnit int64) (*models.StorageSpace, error)
	GetStorage(userID int64) (*models.StorageSpace, error)
	CreatePresaleOrder(userID, amount, usd int64) (*models.PresaleOrder, error)
	GetPresaleOrder(id string) (*models.PresaleOrder, error)
	PresaleOrders(userID int64) ([]*models.PresaleOrder, error)
	ListOrders(limit int) ([]*models.PresaleOrder, error)
	ReleaseOrder(id string) (*models.PresaleOrder, error)

	// Reporting operations
	GetStats() (*models.Stats, error)

	// Maintenance operations
	Close() error
}

// NewSQLiteStorage creates a new SQLite storage instance
// This is the main factory function for creating storage
func NewSQLiteStorage(dbPath string, totalSupply int64) (Storage, error) {
	return sqlite.New(dbPath, totalSupply)
}
