package transaction

import (
	"context"

	"vetopay/internal/models"
	"vetopay/internal/utils/pagination"
)

// Service is the read side of the transfer record.
type Service interface {
	// GetByID fails with AccessDenied unless userID owns one of the wallets.
	GetByID(ctx context.Context, id, userID uint) (*models.Transaction, error)
	// GetByReference looks a transfer up by its external reference, with the
	// same ownership rule as GetByID.
	GetByReference(ctx context.Context, reference string, userID uint) (*models.Transaction, error)
	// GetByIDUnrestricted is the admin path.
	GetByIDUnrestricted(ctx context.Context, id uint) (*models.Transaction, error)

	ListForUser(ctx context.Context, userID uint, filter UserFilter, params pagination.Params) (*Page, error)
	ListAll(ctx context.Context, filter AdminFilter, params pagination.Params) (*Page, error)

	// AggregateStats counts COMPLETED transfers only. An empty period means
	// month.
	AggregateStats(ctx context.Context, walletID uint, period string) (*Stats, error)
}
