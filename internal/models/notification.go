package models

import "time"

type NotificationType string

const (
	NotificationTypeTransaction NotificationType = "TRANSACTION"
	NotificationTypeSystem      NotificationType = "SYSTEM"
	NotificationTypeSecurity    NotificationType = "SECURITY"
)

type NotificationStatus string

const (
	NotificationStatusUnread NotificationStatus = "UNREAD"
	NotificationStatusRead   NotificationStatus = "READ"
)

// Notification is an in-app message shown to a single user.
type Notification struct {
	ID        uint               `gorm:"primarykey" json:"id"`
	UserID    uint               `gorm:"not null;index" json:"userId"`
	Type      NotificationType   `gorm:"size:16;not null" json:"type"`
	Title     string             `gorm:"not null" json:"title"`
	Message   string             `gorm:"not null" json:"message"`
	Metadata  JSON               `gorm:"type:jsonb" json:"metadata,omitempty"`
	Status    NotificationStatus `gorm:"size:16;not null;default:'UNREAD';index" json:"status"`
	ReadAt    *time.Time         `json:"readAt,omitempty"`
	CreatedAt time.Time          `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
