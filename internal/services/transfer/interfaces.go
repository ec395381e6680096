package transfer

import (
	"context"

	"vetopay/internal/models"
	"vetopay/internal/repositories"

	"github.com/shopspring/decimal"
)

// WalletService defines the wallet operations used by the transfer service.
type WalletService interface {
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)
	CheckSufficientBalance(ctx context.Context, walletID uint, amount decimal.Decimal) (bool, error)
	Lock(ctx context.Context, uow repositories.Store, walletIDs ...uint) ([]*models.Wallet, error)
	Debit(ctx context.Context, uow repositories.Store, walletID uint, amount decimal.Decimal) error
	Credit(ctx context.Context, uow repositories.Store, walletID uint, amount decimal.Decimal) error
	InvalidateCache(ctx context.Context, userIDs ...uint)
}

// Dispatcher fans out post-commit side effects. It must not block on them
// and never reports their failures back.
type Dispatcher interface {
	DispatchTransfer(ctx context.Context, tx *models.Transaction, meta models.RequestMeta)
}

// Service handles P2P money transfers between users.
type Service interface {
	Transfer(ctx context.Context, req Request) (*models.Transaction, error)
}
