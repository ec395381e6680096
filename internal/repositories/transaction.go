package repositories

import (
	"context"
	"time"

	"vetopay/internal/models"
)

// TransactionRepository persists transfer records.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error

	// UpdateStatus moves a PENDING transaction to status. Any other current
	// status fails with ErrTransactionNotPending.
	UpdateStatus(ctx context.Context, id uint, status models.TransactionStatus, completedAt *time.Time) error

	// GetByID loads the transaction with both wallets and their owners.
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	GetByReference(ctx context.Context, reference string) (*models.Transaction, error)

	// List returns matching transactions newest first, plus the total count.
	List(ctx context.Context, filter TransactionFilter, page Page) ([]models.Transaction, int64, error)

	// Totals sums COMPLETED transfers of walletID created at or after since.
	Totals(ctx context.Context, walletID uint, since time.Time) (TransferTotals, error)
}
