package models

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims is the payload of both token kinds. TokenVersion must match the
// user's current version; logout and suspension bump it.
type UserClaims struct {
	jwt.RegisteredClaims
	UserID       uint     `json:"user_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions,omitempty"`
	TokenVersion int      `json:"token_version"`
	TokenType    string   `json:"token_type"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	return slices.Contains(c.Permissions, permission)
}
