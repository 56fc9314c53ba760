package sqlite

import (
	"errors"

	"github.com/oneworldlabs/oneworld/internal/storage/models"
)

// Common errors returned by storage operations
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrInvalidInput      = errors.New("invalid input")
	ErrStorageClosed     = errors.New("storage is closed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyClaimed    = errors.New("already claimed")
)

const treasuryID = models.TreasuryID
