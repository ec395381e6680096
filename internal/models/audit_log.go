package models

import "time"

// Audit actions.
const (
	AuditTransactionCreated = "TRANSACTION_CREATED"
	AuditWalletSuspended    = "WALLET_SUSPENDED"
	AuditWalletActivated    = "WALLET_ACTIVATED"
	AuditWalletFrozen       = "WALLET_FROZEN"
	AuditUserSuspended      = "USER_SUSPENDED"
	AuditUserActivated      = "USER_ACTIVATED"
	AuditUserRegistered     = "USER_REGISTERED"
	AuditPasswordChanged    = "PASSWORD_CHANGED"
	AuditProfileUpdated     = "PROFILE_UPDATED"
	AuditSystemNotification = "SYSTEM_NOTIFICATION_SENT"
)

// AuditLog rows are append-only.
type AuditLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    *uint     `gorm:"index" json:"userId,omitempty"`
	Action    string    `gorm:"size:64;not null;index" json:"action"`
	Entity    string    `gorm:"size:64;not null" json:"entity"`
	EntityID  string    `gorm:"size:64" json:"entityId"`
	Metadata  JSON      `gorm:"type:jsonb" json:"metadata,omitempty"`
	IPAddress string    `gorm:"size:64" json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// RequestMeta identifies where an audited action came from.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}
