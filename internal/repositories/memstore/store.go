// Package memstore is an in-process implementation of repositories.Store.
//
// Units of work are serialized on a store-wide semaphore. Each one runs
// against a private copy of the dataset that replaces the live copy only when
// the function returns nil and the context is still alive, so an aborted unit
// of work leaves no trace. Writes outside a unit of work take the same
// semaphore, which keeps them from interleaving with a running unit of work.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"vetopay/internal/models"
	"vetopay/internal/repositories"
)

type dataset struct {
	wallets       map[uint]models.Wallet
	transactions  map[uint]models.Transaction
	users         map[uint]models.User
	notifications map[uint]models.Notification
	audit         []models.AuditLog

	walletSeq, txSeq, userSeq, notificationSeq, auditSeq uint
}

func newDataset() *dataset {
	return &dataset{
		wallets:       map[uint]models.Wallet{},
		transactions:  map[uint]models.Transaction{},
		users:         map[uint]models.User{},
		notifications: map[uint]models.Notification{},
	}
}

func (d *dataset) clone() *dataset {
	c := *d
	c.wallets = make(map[uint]models.Wallet, len(d.wallets))
	for k, v := range d.wallets {
		c.wallets[k] = v
	}
	c.transactions = make(map[uint]models.Transaction, len(d.transactions))
	for k, v := range d.transactions {
		c.transactions[k] = v
	}
	c.users = make(map[uint]models.User, len(d.users))
	for k, v := range d.users {
		c.users[k] = v
	}
	c.notifications = make(map[uint]models.Notification, len(d.notifications))
	for k, v := range d.notifications {
		v.Metadata = v.Metadata.Clone()
		c.notifications[k] = v
	}
	c.audit = append([]models.AuditLog(nil), d.audit...)
	return &c
}

// Store is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	sem  chan struct{}
	data *dataset
	now  func() time.Time
}

type Option func(*Store)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(opts ...Option) *Store {
	s := &Store{
		sem:  make(chan struct{}, 1),
		data: newDataset(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// handle is the repositories.Store view handed to callers. tx is non-nil
// inside a unit of work.
type handle struct {
	s  *Store
	tx *dataset
}

// Root returns the non-transactional view of the store.
func (s *Store) Root() repositories.Store { return &handle{s: s} }

func (s *Store) Wallets() repositories.WalletRepository             { return s.Root().Wallets() }
func (s *Store) Transactions() repositories.TransactionRepository   { return s.Root().Transactions() }
func (s *Store) Users() repositories.UserRepository                 { return s.Root().Users() }
func (s *Store) Notifications() repositories.NotificationRepository { return s.Root().Notifications() }
func (s *Store) Audit() repositories.AuditRepository                { return s.Root().Audit() }
func (s *Store) Ping(ctx context.Context) error                     { return nil }

func (s *Store) ExecuteInTransaction(ctx context.Context, fn func(repositories.Store) error) error {
	return s.Root().ExecuteInTransaction(ctx, fn)
}

// AuditLogs returns a snapshot of every appended audit entry.
func (s *Store) AuditLogs() []models.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AuditLog(nil), s.data.audit...)
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() { <-s.sem }

func (h *handle) Wallets() repositories.WalletRepository             { return walletRepo{h} }
func (h *handle) Transactions() repositories.TransactionRepository   { return transactionRepo{h} }
func (h *handle) Users() repositories.UserRepository                 { return userRepo{h} }
func (h *handle) Notifications() repositories.NotificationRepository { return notificationRepo{h} }
func (h *handle) Audit() repositories.AuditRepository                { return auditRepo{h} }
func (h *handle) Ping(ctx context.Context) error                     { return nil }

func (h *handle) ExecuteInTransaction(ctx context.Context, fn func(repositories.Store) error) error {
	if h.tx != nil {
		return fn(h)
	}
	if err := h.s.acquire(ctx); err != nil {
		return err
	}
	defer h.s.release()

	h.s.mu.RLock()
	work := h.s.data.clone()
	h.s.mu.RUnlock()

	if err := fn(&handle{s: h.s, tx: work}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	h.s.mu.Lock()
	h.s.data = work
	h.s.mu.Unlock()
	return nil
}

func (h *handle) read(fn func(d *dataset) error) error {
	if h.tx != nil {
		return fn(h.tx)
	}
	h.s.mu.RLock()
	defer h.s.mu.RUnlock()
	return fn(h.s.data)
}

func (h *handle) write(ctx context.Context, fn func(d *dataset) error) error {
	if h.tx != nil {
		return fn(h.tx)
	}
	if err := h.s.acquire(ctx); err != nil {
		return err
	}
	defer h.s.release()
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	return fn(h.s.data)
}

func (h *handle) now() time.Time { return h.s.now() }

func paginate[T any](items []T, page repositories.Page) []T {
	if page.Offset < 0 || page.Offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if page.Limit > 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}
	return items[page.Offset:end]
}

func sortNewestFirst[T any](items []T, created func(T) time.Time, id func(T) uint) {
	sort.Slice(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(items[i]) > id(items[j])
	})
}
