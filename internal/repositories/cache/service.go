package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vetopay/internal/models"
	keys "vetopay/internal/utils/cache"

	"github.com/redis/go-redis/v9"
)

// Cache is the read-through cache used for wallets and users. Getters return
// (nil, nil) on a miss.
type Cache interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet, ttl time.Duration) error
	InvalidateWallet(ctx context.Context, userIDs ...uint) error

	GetUser(ctx context.Context, userID uint) (*models.User, error)
	CacheUser(ctx context.Context, user *models.User) error
	InvalidateUser(ctx context.Context, userID uint) error

	Ping(ctx context.Context) error
	Close() error
}

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	return s.client.Del(ctx, names...).Err()
}

// userEntry keeps fields that the public JSON shape of a user hides.
type userEntry struct {
	models.User
	TokenVersion int `json:"tokenVersion"`
}

// User caching
func (s *CacheService) CacheUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}
	return s.Set(ctx, keys.UserKey(user.ID), userEntry{User: *user, TokenVersion: user.TokenVersion})
}

func (s *CacheService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var entry userEntry
	found, err := s.Get(ctx, keys.UserKey(userID), &entry)
	if err != nil || !found {
		return nil, err
	}
	user := entry.User
	user.TokenVersion = entry.TokenVersion
	return &user, nil
}

func (s *CacheService) InvalidateUser(ctx context.Context, userID uint) error {
	return s.Delete(ctx, keys.UserKey(userID))
}

// Wallet caching. A non-positive ttl falls back to the default.
func (s *CacheService) CacheWallet(ctx context.Context, wallet *models.Wallet, ttl time.Duration) error {
	if wallet == nil {
		return errors.New("cannot cache nil wallet")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	return s.SetWithTTL(ctx, keys.WalletKey(wallet.UserID), wallet, ttl)
}

func (s *CacheService) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	found, err := s.Get(ctx, keys.WalletKey(userID), &wallet)
	if err != nil || !found {
		return nil, err
	}
	return &wallet, nil
}

func (s *CacheService) InvalidateWallet(ctx context.Context, userIDs ...uint) error {
	names := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		names = append(names, keys.WalletKey(id))
	}
	return s.Delete(ctx, names...)
}

func (s *CacheService) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// FlushAll flushes all keys from the cache
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
