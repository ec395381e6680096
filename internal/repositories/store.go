package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Store groups the repositories behind one persistence handle. A Store
// returned inside ExecuteInTransaction is bound to that unit of work.
type Store interface {
	Wallets() WalletRepository
	Transactions() TransactionRepository
	Users() UserRepository
	Notifications() NotificationRepository
	Audit() AuditRepository

	// ExecuteInTransaction runs fn in a single atomic unit of work. Any error
	// returned by fn rolls back every write made through the tx Store.
	// Calling it on a tx Store joins the surrounding unit of work.
	ExecuteInTransaction(ctx context.Context, fn func(tx Store) error) error

	Ping(ctx context.Context) error
}

type StoreOptions struct {
	// LockTimeout bounds how long a unit of work waits on a row lock.
	LockTimeout time.Duration
}

type gormStore struct {
	db   *gorm.DB
	opts StoreOptions
	inTx bool
}

func NewStore(db *gorm.DB, opts StoreOptions) Store {
	return &gormStore{db: db, opts: opts}
}

func (s *gormStore) Wallets() WalletRepository             { return NewWalletRepository(s.db) }
func (s *gormStore) Transactions() TransactionRepository   { return NewTransactionRepository(s.db) }
func (s *gormStore) Users() UserRepository                 { return NewUserRepository(s.db) }
func (s *gormStore) Notifications() NotificationRepository { return NewNotificationRepository(s.db) }
func (s *gormStore) Audit() AuditRepository                { return NewAuditRepository(s.db) }

func (s *gormStore) ExecuteInTransaction(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.opts.LockTimeout > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.opts.LockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("failed to set lock timeout: %w", err)
			}
		}
		return fn(&gormStore{db: tx, opts: s.opts, inTx: true})
	})
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
