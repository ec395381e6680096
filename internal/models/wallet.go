package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WalletStatus string

const (
	WalletStatusActive    WalletStatus = "ACTIVE"
	WalletStatusSuspended WalletStatus = "SUSPENDED"
	WalletStatusFrozen    WalletStatus = "FROZEN"
)

// Valid reports whether s is a known wallet status.
func (s WalletStatus) Valid() bool {
	switch s {
	case WalletStatusActive, WalletStatusSuspended, WalletStatusFrozen:
		return true
	}
	return false
}

// Wallet holds exactly one balance per user. Balance is never negative; the
// database enforces it with a check constraint as well.
type Wallet struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	UserID       uint            `gorm:"uniqueIndex;not null" json:"userId"`
	User         *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Balance      decimal.Decimal `gorm:"type:numeric(20,4);not null;default:0;check:chk_wallets_balance_non_negative,balance >= 0" json:"balance"`
	Currency     string          `gorm:"size:3;not null;default:'USD'" json:"currency"`
	Status       WalletStatus    `gorm:"size:16;not null;default:'ACTIVE';index" json:"status"`
	StatusReason string          `gorm:"default:''" json:"statusReason,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	w.SetCreateDefaults()
	return nil
}

// SetCreateDefaults zeroes the balance and fills status and currency.
// Wallets always start empty.
func (w *Wallet) SetCreateDefaults() {
	w.Balance = decimal.Zero
	if w.Status == "" {
		w.Status = WalletStatusActive
	}
	if w.Currency == "" {
		w.Currency = DefaultCurrency
	}
}

// IsActive reports whether the wallet may send or receive transfers.
func (w *Wallet) IsActive() bool {
	return w.Status == WalletStatusActive
}

// WalletSummary is the view of a wallet embedded in transaction responses.
type WalletSummary struct {
	ID     uint         `json:"id"`
	UserID uint         `json:"userId"`
	Status WalletStatus `json:"status"`
	User   *UserSummary `json:"user,omitempty"`
}

func (w *Wallet) Summary() *WalletSummary {
	if w == nil {
		return nil
	}
	s := &WalletSummary{ID: w.ID, UserID: w.UserID, Status: w.Status}
	if w.User != nil {
		s.User = w.User.Summary()
	}
	return s
}
