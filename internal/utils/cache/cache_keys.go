// Package cache names the keys shared by every cache backend.
package cache

import (
	"fmt"
)

type EntityType string

const (
	EntityUser   EntityType = "user"
	EntityWallet EntityType = "wallet"
)

type KeyType string

const (
	KeyID   KeyType = "id"
	KeyUser KeyType = "user"
)

// GenerateKey creates a standardized cache key
func GenerateKey(entity EntityType, keyType KeyType, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entity, keyType, value)
}

// UserKey is where a user is cached by id.
func UserKey(userID uint) string { return GenerateKey(EntityUser, KeyID, userID) }

// WalletKey is where a wallet is cached, by owner id.
func WalletKey(userID uint) string { return GenerateKey(EntityWallet, KeyUser, userID) }
