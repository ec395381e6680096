package transaction

import (
	"time"

	"vetopay/internal/models"
	"vetopay/internal/repositories"
	"vetopay/internal/utils/pagination"

	"github.com/shopspring/decimal"
)

// UserFilter narrows a user's own history.
type UserFilter struct {
	Direction repositories.Direction
	Status    models.TransactionStatus
	From      *time.Time
	To        *time.Time
}

// AdminFilter adds an amount range and a wallet to UserFilter.
type AdminFilter struct {
	WalletID  uint
	Status    models.TransactionStatus
	From      *time.Time
	To        *time.Time
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// Page is one page of transactions.
type Page struct {
	Transactions []models.TransactionView `json:"transactions"`
	Pagination   pagination.Info          `json:"pagination"`
}

// Stats sums completed transfers of one wallet over a period.
type Stats struct {
	Period string `json:"period"`
	repositories.TransferTotals
}
