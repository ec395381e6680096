package cache

import (
	"context"
	"time"

	"vetopay/internal/models"
)

// Noop is used when no Redis host is configured. Every read misses.
type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) GetWallet(context.Context, uint) (*models.Wallet, error)          { return nil, nil }
func (Noop) CacheWallet(context.Context, *models.Wallet, time.Duration) error { return nil }
func (Noop) InvalidateWallet(context.Context, ...uint) error                  { return nil }
func (Noop) GetUser(context.Context, uint) (*models.User, error)              { return nil, nil }
func (Noop) CacheUser(context.Context, *models.User) error                    { return nil }
func (Noop) InvalidateUser(context.Context, uint) error                       { return nil }
func (Noop) Ping(context.Context) error                                       { return nil }
func (Noop) Close() error                                                     { return nil }
