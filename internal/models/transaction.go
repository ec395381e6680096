package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
	// TransactionStatusCancelled is reserved; no flow transitions into it yet.
	TransactionStatusCancelled TransactionStatus = "CANCELLED"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed, TransactionStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s TransactionStatus) Terminal() bool {
	return s != TransactionStatusPending
}

// Transaction is the record of one transfer between two wallets.
type Transaction struct {
	ID               uint              `gorm:"primarykey" json:"id"`
	Reference        string            `gorm:"size:64;uniqueIndex;not null" json:"reference"`
	SenderWalletID   uint              `gorm:"not null;index" json:"senderWalletId"`
	SenderWallet     *Wallet           `gorm:"foreignKey:SenderWalletID" json:"-"`
	ReceiverWalletID uint              `gorm:"not null;index" json:"receiverWalletId"`
	ReceiverWallet   *Wallet           `gorm:"foreignKey:ReceiverWalletID" json:"-"`
	Amount           decimal.Decimal   `gorm:"type:numeric(20,4);not null" json:"amount"`
	Currency         string            `gorm:"size:3;not null" json:"currency"`
	Description      string            `gorm:"size:500" json:"description,omitempty"`
	Status           TransactionStatus `gorm:"size:16;not null;default:'PENDING';index" json:"status"`
	CreatedAt        time.Time         `gorm:"index" json:"createdAt"`
	CompletedAt      *time.Time        `json:"completedAt,omitempty"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// CanTransition reports whether moving from the current status to next is
// allowed. Only PENDING may move, and only forward.
func (t *Transaction) CanTransition(next TransactionStatus) bool {
	if t.Status != TransactionStatusPending {
		return false
	}
	return next != TransactionStatusPending && next.Valid()
}

// InvolvesUser reports whether userID owns either side of the transfer.
// Both wallets must be loaded.
func (t *Transaction) InvolvesUser(userID uint) bool {
	if t.SenderWallet != nil && t.SenderWallet.UserID == userID {
		return true
	}
	return t.ReceiverWallet != nil && t.ReceiverWallet.UserID == userID
}

// TransactionView is the response shape of a transaction, with party summaries.
type TransactionView struct {
	Transaction
	Sender   *WalletSummary `json:"sender,omitempty"`
	Receiver *WalletSummary `json:"receiver,omitempty"`
}

func (t *Transaction) View() TransactionView {
	return TransactionView{
		Transaction: *t,
		Sender:      t.SenderWallet.Summary(),
		Receiver:    t.ReceiverWallet.Summary(),
	}
}

// Views converts a slice of transactions to their response shape.
func Views(txs []Transaction) []TransactionView {
	out := make([]TransactionView, 0, len(txs))
	for i := range txs {
		out = append(out, txs[i].View())
	}
	return out
}
