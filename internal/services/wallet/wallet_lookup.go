package wallet

import (
	"context"
	"time"

	"vetopay/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GetByUserID reads through the cache. A wallet loaded before a concurrent
// InvalidateCache is returned but not cached. Callers that mutate balances
// still re-read under a row lock.
func (s *service) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(OpGetWallet, time.Since(start)) }()

	if wallet, err := s.cache.GetWallet(ctx, userID); err == nil && wallet != nil {
		s.metrics.RecordCacheHit(cacheEntityWallet)
		return wallet, nil
	} else if err != nil {
		s.log.Warn("wallet cache read failed", zap.Uint("user_id", userID), zap.Error(err))
	}
	s.metrics.RecordCacheMiss(cacheEntityWallet)

	fence := s.fence(userID)
	wallet, err := s.store.Wallets().GetByUserID(ctx, userID)
	if err != nil {
		err = translate(OpGetWallet, err)
		s.metrics.RecordError(OpGetWallet, errType(err))
		return nil, err
	}
	s.fill(ctx, wallet, fence)
	return wallet, nil
}

func (s *service) fence(userID uint) uint64 {
	s.fenceMu.Lock()
	defer s.fenceMu.Unlock()
	return s.fences[userID%fenceSlots]
}

// fill caches wallet unless its slot was invalidated after fence was taken.
// The write happens under fenceMu so an invalidation cannot slip between
// the check and the write.
func (s *service) fill(ctx context.Context, wallet *models.Wallet, fence uint64) {
	s.fenceMu.Lock()
	defer s.fenceMu.Unlock()
	if s.fences[wallet.UserID%fenceSlots] != fence {
		s.log.Debug("skipping wallet cache fill after invalidation", zap.Uint("user_id", wallet.UserID))
		return
	}
	if err := s.cache.CacheWallet(ctx, wallet, s.config.CacheTTL); err != nil {
		s.log.Warn("wallet cache write failed", zap.Uint("user_id", wallet.UserID), zap.Error(err))
	}
}

func (s *service) GetByID(ctx context.Context, walletID uint) (*models.Wallet, error) {
	wallet, err := s.store.Wallets().GetByID(ctx, walletID)
	if err != nil {
		return nil, translate(OpGetWallet, err)
	}
	return wallet, nil
}

// CheckSufficientBalance reads the current balance from the store, bypassing
// the cache.
func (s *service) CheckSufficientBalance(ctx context.Context, walletID uint, amount decimal.Decimal) (bool, error) {
	wallet, err := s.store.Wallets().GetByID(ctx, walletID)
	if err != nil {
		err = translate(OpCheckBalance, err)
		s.metrics.RecordError(OpCheckBalance, errType(err))
		return false, err
	}
	return wallet.Balance.GreaterThanOrEqual(amount), nil
}
