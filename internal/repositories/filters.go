package repositories

import (
	"time"

	"vetopay/internal/models"

	"github.com/shopspring/decimal"
)

// Direction selects transfers relative to one wallet.
type Direction string

const (
	DirectionAll      Direction = "all"
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

func (d Direction) Valid() bool {
	switch d {
	case "", DirectionAll, DirectionSent, DirectionReceived:
		return true
	}
	return false
}

// Page is an offset window over an ordered result set.
type Page struct {
	Offset int
	Limit  int
}

// TransactionFilter narrows transaction listings. A zero WalletID lists
// every wallet.
type TransactionFilter struct {
	WalletID  uint
	Direction Direction
	Status    models.TransactionStatus
	From      *time.Time
	To        *time.Time
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// Matches applies the filter to a single row. The memory store uses it; the
// SQL store translates the same rules into WHERE clauses.
func (f TransactionFilter) Matches(tx *models.Transaction) bool {
	if f.WalletID != 0 {
		sent := tx.SenderWalletID == f.WalletID
		received := tx.ReceiverWalletID == f.WalletID
		switch f.Direction {
		case DirectionSent:
			if !sent {
				return false
			}
		case DirectionReceived:
			if !received {
				return false
			}
		default:
			if !sent && !received {
				return false
			}
		}
	}
	if f.Status != "" && tx.Status != f.Status {
		return false
	}
	if f.From != nil && tx.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && tx.CreatedAt.After(*f.To) {
		return false
	}
	if f.MinAmount != nil && tx.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && tx.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	return true
}

type WalletFilter struct {
	Status   models.WalletStatus
	Currency string
}

type UserFilter struct {
	Role   string
	Status models.UserStatus
	Search string
}

type NotificationFilter struct {
	UserID uint
	Status models.NotificationStatus
	Type   models.NotificationType
}

// TransferTotals aggregates completed transfers for one wallet.
type TransferTotals struct {
	SentTotal     decimal.Decimal `json:"sentTotal"`
	SentCount     int64           `json:"sentCount"`
	ReceivedTotal decimal.Decimal `json:"receivedTotal"`
	ReceivedCount int64           `json:"receivedCount"`
}
