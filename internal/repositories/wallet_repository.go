package repositories

import (
	"context"

	"vetopay/internal/models"

	"github.com/shopspring/decimal"
)

// WalletRepository defines the interface for wallet-related database operations
type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByID(ctx context.Context, id uint) (*models.Wallet, error)
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)

	// LockByIDs takes row locks on the given wallets in ascending id order
	// and returns them in that order. Only meaningful inside a unit of work.
	LockByIDs(ctx context.Context, ids ...uint) ([]*models.Wallet, error)

	// Credit adds amount to the balance.
	Credit(ctx context.Context, id uint, amount decimal.Decimal) error
	// Debit subtracts amount only if the current balance covers it, failing
	// with ErrInsufficientBalance otherwise.
	Debit(ctx context.Context, id uint, amount decimal.Decimal) error

	UpdateStatus(ctx context.Context, id uint, status models.WalletStatus, reason string) error
	List(ctx context.Context, filter WalletFilter, page Page) ([]models.Wallet, int64, error)
}
