package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/models"
	"vetopay/internal/repositories"

	"go.uber.org/zap"
)

// Cache is the subset of the cache layer the wallet service needs.
type Cache interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet, ttl time.Duration) error
	InvalidateWallet(ctx context.Context, userIDs ...uint) error
}

type service struct {
	store   repositories.Store
	cache   Cache
	config  WalletConfig
	metrics MetricsCollector
	log     *zap.Logger

	// fences count invalidations per user slot. A read-through only fills
	// the cache if no invalidation hit its slot since the store read began.
	fenceMu sync.Mutex
	fences  [fenceSlots]uint64
}

// NewService creates a new wallet service
func NewService(
	store repositories.Store,
	cache Cache,
	config WalletConfig,
	metrics MetricsCollector,
	log *zap.Logger,
) Service {
	if store == nil {
		panic("store is required")
	}
	if cache == nil {
		panic("cache is required")
	}

	// Set default configuration values if not provided
	if config.DefaultCurrency == "" {
		config.DefaultCurrency = models.DefaultCurrency
	}

	// Metrics and logger are optional
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &service{
		store:   store,
		cache:   cache,
		config:  config,
		metrics: metrics,
		log:     log.Named("wallet"),
	}
}

func (s *service) CreateWallet(ctx context.Context, uow repositories.Store, userID uint, currency string) (*models.Wallet, error) {
	if uow == nil {
		uow = s.store
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = s.config.DefaultCurrency
	}
	if _, ok := models.Precision(currency); !ok {
		return nil, apperrors.ErrUnsupportedCurrency
	}

	wallet := &models.Wallet{
		UserID:   userID,
		Currency: currency,
		Status:   models.WalletStatusActive,
	}
	if err := uow.Wallets().Create(ctx, wallet); err != nil {
		s.metrics.RecordError(OpCreateWallet, "repository")
		if errors.Is(err, repositories.ErrDuplicateWallet) {
			return nil, apperrors.New(apperrors.KindConflict, "WALLET_EXISTS", "user already has a wallet")
		}
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return wallet, nil
}

func (s *service) SetStatus(ctx context.Context, walletID uint, status models.WalletStatus, reason string) (*models.Wallet, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(OpSetStatus, time.Since(start)) }()

	if !status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	if err := s.store.Wallets().UpdateStatus(ctx, walletID, status, reason); err != nil {
		err = translate(OpSetStatus, err)
		s.metrics.RecordError(OpSetStatus, errType(err))
		return nil, err
	}

	wallet, err := s.store.Wallets().GetByID(ctx, walletID)
	if err != nil {
		return nil, translate(OpSetStatus, err)
	}
	s.InvalidateCache(ctx, wallet.UserID)

	s.log.Info("wallet status changed",
		zap.Uint("wallet_id", walletID),
		zap.String("status", string(status)),
		zap.String("reason", reason))
	return wallet, nil
}

func (s *service) List(ctx context.Context, filter repositories.WalletFilter, page repositories.Page) ([]models.Wallet, int64, error) {
	wallets, total, err := s.store.Wallets().List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list wallets: %w", err)
	}
	return wallets, total, nil
}

func (s *service) InvalidateCache(ctx context.Context, userIDs ...uint) {
	if len(userIDs) == 0 {
		return
	}
	s.fenceMu.Lock()
	for _, id := range userIDs {
		s.fences[id%fenceSlots]++
	}
	s.fenceMu.Unlock()

	if err := s.cache.InvalidateWallet(ctx, userIDs...); err != nil {
		s.log.Warn("failed to invalidate wallet cache", zap.Uints("user_ids", userIDs), zap.Error(err))
	}
}
