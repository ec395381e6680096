package transfer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/models"
	"vetopay/internal/repositories"
	"vetopay/internal/repositories/cache"
	"vetopay/internal/repositories/memstore"
	"vetopay/internal/services/wallet"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	mu  sync.Mutex
	txs []*models.Transaction
}

func (d *recordingDispatcher) DispatchTransfer(_ context.Context, tx *models.Transaction, _ models.RequestMeta) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.txs = append(d.txs, tx)
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.txs)
}

// faultyStore injects errors into wallet writes made inside a unit of work.
type faultyStore struct {
	repositories.Store
	debit  func() error
	credit func() error
}

func (f *faultyStore) Wallets() repositories.WalletRepository {
	return &faultyWallets{WalletRepository: f.Store.Wallets(), store: f}
}

func (f *faultyStore) ExecuteInTransaction(ctx context.Context, fn func(repositories.Store) error) error {
	return f.Store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		return fn(&faultyStore{Store: tx, debit: f.debit, credit: f.credit})
	})
}

type faultyWallets struct {
	repositories.WalletRepository
	store *faultyStore
}

func (w *faultyWallets) Debit(ctx context.Context, id uint, amount decimal.Decimal) error {
	if w.store.debit != nil {
		if err := w.store.debit(); err != nil {
			return err
		}
	}
	return w.WalletRepository.Debit(ctx, id, amount)
}

func (w *faultyWallets) Credit(ctx context.Context, id uint, amount decimal.Decimal) error {
	if w.store.credit != nil {
		if err := w.store.credit(); err != nil {
			return err
		}
	}
	return w.WalletRepository.Credit(ctx, id, amount)
}

type fixture struct {
	mem        *memstore.Store
	svc        Service
	dispatcher *recordingDispatcher
}

func newFixture(t *testing.T, store repositories.Store, mem *memstore.Store, cfg Config) *fixture {
	t.Helper()
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = time.Millisecond
	}
	wallets := wallet.NewService(store, cache.NewNoop(), wallet.WalletConfig{}, nil, nil)
	d := &recordingDispatcher{}
	return &fixture{
		mem:        mem,
		svc:        NewService(store, wallets, d, cfg, nil, nil),
		dispatcher: d,
	}
}

func (f *fixture) user(t *testing.T, email string, balance string) *models.Wallet {
	t.Helper()
	ctx := context.Background()
	u := &models.User{Email: email, FirstName: "Test", Password: "x"}
	require.NoError(t, f.mem.Users().Create(ctx, u))
	w := &models.Wallet{UserID: u.ID, Currency: "USD"}
	require.NoError(t, f.mem.Wallets().Create(ctx, w))
	if balance != "0" {
		require.NoError(t, f.mem.Wallets().Credit(ctx, w.ID, decimal.RequireFromString(balance)))
	}
	got, err := f.mem.Wallets().GetByID(ctx, w.ID)
	require.NoError(t, err)
	return got
}

func (f *fixture) balance(t *testing.T, walletID uint) decimal.Decimal {
	t.Helper()
	w, err := f.mem.Wallets().GetByID(context.Background(), walletID)
	require.NoError(t, err)
	return w.Balance
}

func (f *fixture) transactionCount(t *testing.T) int64 {
	t.Helper()
	_, total, err := f.mem.Transactions().List(context.Background(), repositories.TransactionFilter{}, repositories.Page{Limit: 1})
	require.NoError(t, err)
	return total
}

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTransfer_Success(t *testing.T) {
	mem := memstore.New()
	f := newFixture(t, mem, mem, Config{})
	alice := f.user(t, "alice@example.com", "100.00")
	bob := f.user(t, "bob@example.com", "0")

	tx, err := f.svc.Transfer(context.Background(), Request{
		SenderUserID:  alice.UserID,
		ReceiverEmail: "Bob@Example.com",
		Amount:        amount("40.00"),
		Description:   "lunch",
	})

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
	assert.NotNil(t, tx.CompletedAt)
	assert.NotEmpty(t, tx.Reference)
	assert.Equal(t, "USD", tx.Currency)
	assert.Equal(t, alice.ID, tx.SenderWalletID)
	assert.Equal(t, bob.ID, tx.ReceiverWalletID)
	assert.True(t, f.balance(t, alice.ID).Equal(amount("60")))
	assert.True(t, f.balance(t, bob.ID).Equal(amount("40")))
	assert.Equal(t, 1, f.dispatcher.count())
}

func TestTransfer_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, f *fixture) Request
		wantErr  error
		wantKind apperrors.Kind
	}{
		{
			name: "insufficient funds",
			setup: func(t *testing.T, f *fixture) Request {
				a := f.user(t, "alice@example.com", "10.00")
				f.user(t, "bob@example.com", "0")
				return Request{SenderUserID: a.UserID, ReceiverEmail: "bob@example.com", Amount: amount("10.01")}
			},
			wantErr: apperrors.ErrInsufficientFunds,
		},
		{
			name: "unknown receiver",
			setup: func(t *testing.T, f *fixture) Request {
				a := f.user(t, "alice@example.com", "10.00")
				return Request{SenderUserID: a.UserID, ReceiverEmail: "ghost@example.com", Amount: amount("1")}
			},
			wantErr: apperrors.ErrReceiverNotFound,
		},
		{
			name: "receiver without wallet",
			setup: func(t *testing.T, f *fixture) Request {
				a := f.user(t, "alice@example.com", "10.00")
				require.NoError(t, f.mem.Users().Create(context.Background(), &models.User{Email: "nowallet@example.com"}))
				return Request{SenderUserID: a.UserID, ReceiverEmail: "nowallet@example.com", Amount: amount("1")}
			},
			wantErr: apperrors.ErrReceiverNoWallet,
		},
		{
			name: "self transfer",
			setup: func(t *testing.T, f *fixture) Request {
				a := f.user(t, "alice@example.com", "10.00")
				return Request{SenderUserID: a.UserID, ReceiverEmail: "alice@example.com", Amount: amount("1")}
			},
			wantErr: apperrors.ErrSelfTransfer,
		},
		{
			name: "self transfer beyond balance",
			setup: func(t *testing.T, f *fixture) Request {
				a := f.user(t, "alice@example.com", "10.00")
				return Request{SenderUserID: a.UserID, ReceiverEmail: "ALICE@example.com", Amount: amount("50")}
			},
			wantErr: apperrors.ErrSelfTransfer,
		},
		{
			name: "sender suspended",
			setup: func(t *testing.T, f *fixture) Request {
				a := f.user(t, "alice@example.com", "10.00")
				f.user(t, "bob@example.com", "0")
				require.NoError(t, f.mem.Wallets().UpdateStatus(context.Background(), a.ID, models.WalletStatusSuspended, "review"))
				return Request{SenderUserID: a.UserID, ReceiverEmail: "bob@example.com", Amount: amount("1")}
			},
			wantErr: apperrors.ErrSenderWalletInactive,
		},
		{
			name: "receiver frozen",
			setup: func(t *testing.T, f *fixture) Request {
				a := f.user(t, "alice@example.com", "10.00")
				b := f.user(t, "bob@example.com", "0")
				require.NoError(t, f.mem.Wallets().UpdateStatus(context.Background(), b.ID, models.WalletStatusFrozen, ""))
				return Request{SenderUserID: a.UserID, ReceiverEmail: "bob@example.com", Amount: amount("1")}
			},
			wantErr: apperrors.ErrReceiverWalletInactive,
		},
		{
			name: "sender without wallet",
			setup: func(t *testing.T, f *fixture) Request {
				u := &models.User{Email: "nowallet@example.com"}
				require.NoError(t, f.mem.Users().Create(context.Background(), u))
				f.user(t, "bob@example.com", "0")
				return Request{SenderUserID: u.ID, ReceiverEmail: "bob@example.com", Amount: amount("1")}
			},
			wantErr: apperrors.ErrWalletNotFound,
		},
		{
			name: "zero amount",
			setup: func(t *testing.T, f *fixture) Request {
				a := f.user(t, "alice@example.com", "10.00")
				return Request{SenderUserID: a.UserID, ReceiverEmail: "bob@example.com", Amount: decimal.Zero}
			},
			wantKind: apperrors.KindValidation,
		},
		{
			name: "too many decimals",
			setup: func(t *testing.T, f *fixture) Request {
				a := f.user(t, "alice@example.com", "10.00")
				f.user(t, "bob@example.com", "0")
				return Request{SenderUserID: a.UserID, ReceiverEmail: "bob@example.com", Amount: amount("1.001")}
			},
			wantKind: apperrors.KindValidation,
		},
		{
			name: "currency mismatch",
			setup: func(t *testing.T, f *fixture) Request {
				a := f.user(t, "alice@example.com", "10.00")
				f.user(t, "bob@example.com", "0")
				return Request{SenderUserID: a.UserID, ReceiverEmail: "bob@example.com", Amount: amount("1"), Currency: "EUR"}
			},
			wantErr: apperrors.ErrCurrencyMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := memstore.New()
			f := newFixture(t, mem, mem, Config{})
			req := tt.setup(t, f)

			tx, err := f.svc.Transfer(context.Background(), req)

			require.Error(t, err)
			assert.Nil(t, tx)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
			}
			assert.Zero(t, f.transactionCount(t), "rejected transfers leave no record")
			assert.Zero(t, f.dispatcher.count())
		})
	}
}

func TestTransfer_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	mem := memstore.New()
	f := newFixture(t, mem, mem, Config{})
	alice := f.user(t, "alice@example.com", "100")
	bob := f.user(t, "bob@example.com", "0")

	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		rejected  atomic.Int32
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Transfer(context.Background(), Request{
				SenderUserID:  alice.UserID,
				ReceiverEmail: "bob@example.com",
				Amount:        amount("10"),
			})
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, apperrors.ErrInsufficientFunds):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 10, succeeded.Load())
	assert.EqualValues(t, 15, rejected.Load())
	assert.True(t, f.balance(t, alice.ID).IsZero())
	assert.True(t, f.balance(t, bob.ID).Equal(amount("100")))
	assert.EqualValues(t, 10, f.transactionCount(t))
}

func TestTransfer_ConservesTotalAcrossOpposingTransfers(t *testing.T) {
	mem := memstore.New()
	f := newFixture(t, mem, mem, Config{})
	alice := f.user(t, "alice@example.com", "50")
	bob := f.user(t, "bob@example.com", "50")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = f.svc.Transfer(context.Background(), Request{SenderUserID: alice.UserID, ReceiverEmail: "bob@example.com", Amount: amount("3")})
		}()
		go func() {
			defer wg.Done()
			_, _ = f.svc.Transfer(context.Background(), Request{SenderUserID: bob.UserID, ReceiverEmail: "alice@example.com", Amount: amount("7")})
		}()
	}
	wg.Wait()

	total := f.balance(t, alice.ID).Add(f.balance(t, bob.ID))
	assert.True(t, total.Equal(amount("100")), "total was %s", total)
	assert.False(t, f.balance(t, alice.ID).IsNegative())
	assert.False(t, f.balance(t, bob.ID).IsNegative())
}

func TestTransfer_CreditFailureRollsBackDebit(t *testing.T) {
	mem := memstore.New()
	faulty := &faultyStore{Store: mem, credit: func() error { return errors.New("disk on fire") }}
	f := newFixture(t, faulty, mem, Config{})
	alice := f.user(t, "alice@example.com", "100")
	bob := f.user(t, "bob@example.com", "0")

	_, err := f.svc.Transfer(context.Background(), Request{SenderUserID: alice.UserID, ReceiverEmail: "bob@example.com", Amount: amount("40")})

	require.Error(t, err)
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
	assert.Equal(t, "an internal error occurred", err.(*apperrors.DomainError).Message)
	assert.True(t, f.balance(t, alice.ID).Equal(amount("100")))
	assert.True(t, f.balance(t, bob.ID).IsZero())
	assert.Zero(t, f.transactionCount(t))
	assert.Zero(t, f.dispatcher.count())
}

func TestTransfer_RetriesSerializationConflicts(t *testing.T) {
	t.Run("succeeds after transient conflicts", func(t *testing.T) {
		mem := memstore.New()
		var attempts atomic.Int32
		faulty := &faultyStore{Store: mem, debit: func() error {
			if attempts.Add(1) <= 2 {
				return repositories.ErrSerializationConflict
			}
			return nil
		}}
		f := newFixture(t, faulty, mem, Config{MaxRetries: 3})
		alice := f.user(t, "alice@example.com", "100")
		bob := f.user(t, "bob@example.com", "0")

		tx, err := f.svc.Transfer(context.Background(), Request{SenderUserID: alice.UserID, ReceiverEmail: "bob@example.com", Amount: amount("25")})

		require.NoError(t, err)
		assert.EqualValues(t, 3, attempts.Load())
		assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
		assert.True(t, f.balance(t, alice.ID).Equal(amount("75")))
		assert.True(t, f.balance(t, bob.ID).Equal(amount("25")))
		assert.EqualValues(t, 1, f.transactionCount(t))
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		mem := memstore.New()
		var attempts atomic.Int32
		faulty := &faultyStore{Store: mem, debit: func() error {
			attempts.Add(1)
			return repositories.ErrSerializationConflict
		}}
		f := newFixture(t, faulty, mem, Config{MaxRetries: 2})
		alice := f.user(t, "alice@example.com", "100")
		f.user(t, "bob@example.com", "0")

		_, err := f.svc.Transfer(context.Background(), Request{SenderUserID: alice.UserID, ReceiverEmail: "bob@example.com", Amount: amount("25")})

		assert.ErrorIs(t, err, apperrors.ErrConflictRetryExhausted)
		assert.EqualValues(t, 3, attempts.Load())
		assert.True(t, f.balance(t, alice.ID).Equal(amount("100")))
		assert.Zero(t, f.transactionCount(t))
	})
}

func TestTransfer_ExpiredContextLeavesNoTrace(t *testing.T) {
	mem := memstore.New()
	f := newFixture(t, mem, mem, Config{})
	alice := f.user(t, "alice@example.com", "100")
	bob := f.user(t, "bob@example.com", "0")

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := f.svc.Transfer(ctx, Request{SenderUserID: alice.UserID, ReceiverEmail: "bob@example.com", Amount: amount("10")})

	assert.ErrorIs(t, err, apperrors.ErrTransferTimeout)
	assert.True(t, f.balance(t, alice.ID).Equal(amount("100")))
	assert.True(t, f.balance(t, bob.ID).IsZero())
	assert.Zero(t, f.transactionCount(t))
	assert.Zero(t, f.dispatcher.count())
}
