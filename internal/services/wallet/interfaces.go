package wallet

import (
	"context"

	"vetopay/internal/models"
	"vetopay/internal/repositories"

	"github.com/shopspring/decimal"
)

// Service defines the main wallet service interface
type Service interface {
	// Lookups
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	GetByID(ctx context.Context, walletID uint) (*models.Wallet, error)

	// CheckSufficientBalance is an early exit only. The binding check is the
	// conditional Debit inside the unit of work.
	CheckSufficientBalance(ctx context.Context, walletID uint, amount decimal.Decimal) (bool, error)

	// Balance mutations, always through a unit of work Store
	Lock(ctx context.Context, uow repositories.Store, walletIDs ...uint) ([]*models.Wallet, error)
	Credit(ctx context.Context, uow repositories.Store, walletID uint, amount decimal.Decimal) error
	Debit(ctx context.Context, uow repositories.Store, walletID uint, amount decimal.Decimal) error

	// Wallet management
	CreateWallet(ctx context.Context, uow repositories.Store, userID uint, currency string) (*models.Wallet, error)
	SetStatus(ctx context.Context, walletID uint, status models.WalletStatus, reason string) (*models.Wallet, error)
	List(ctx context.Context, filter repositories.WalletFilter, page repositories.Page) ([]models.Wallet, int64, error)

	// InvalidateCache drops cached wallets of the given owners.
	InvalidateCache(ctx context.Context, userIDs ...uint)
}
