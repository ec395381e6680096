package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Password     string     `gorm:"not null" json:"-"`
	FirstName    string     `gorm:"not null" json:"firstName"`
	LastName     string     `gorm:"not null" json:"lastName"`
	Phone        string     `json:"phone,omitempty"`
	Role         string     `gorm:"size:16;not null;default:'user'" json:"role"`
	Status       UserStatus `gorm:"size:16;not null;default:'ACTIVE'" json:"status"`
	TokenVersion int        `gorm:"not null;default:1" json:"-"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	Wallet       *Wallet    `gorm:"foreignKey:UserID" json:"wallet,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// UserSummary is the public subset of a user embedded in other responses.
type UserSummary struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
}
