package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"vetopay/internal/models"
	"vetopay/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedWallet(t *testing.T, s *Store, email string, balance string) *models.Wallet {
	t.Helper()
	ctx := context.Background()
	user := &models.User{Email: email, FirstName: "Test", Password: "x"}
	require.NoError(t, s.Users().Create(ctx, user))
	wallet := &models.Wallet{UserID: user.ID, Currency: "USD"}
	require.NoError(t, s.Wallets().Create(ctx, wallet))
	if balance != "" {
		require.NoError(t, s.Wallets().Credit(ctx, wallet.ID, decimal.RequireFromString(balance)))
	}
	w, err := s.Wallets().GetByID(ctx, wallet.ID)
	require.NoError(t, err)
	return w
}

func TestWalletCreate_StartsEmptyAndActive(t *testing.T) {
	s := New()
	ctx := context.Background()
	user := &models.User{Email: "a@example.com"}
	require.NoError(t, s.Users().Create(ctx, user))

	w := &models.Wallet{UserID: user.ID, Balance: decimal.NewFromInt(999)}
	require.NoError(t, s.Wallets().Create(ctx, w))

	got, err := s.Wallets().GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.IsZero())
	assert.Equal(t, models.WalletStatusActive, got.Status)
	assert.Equal(t, models.DefaultCurrency, got.Currency)

	err = s.Wallets().Create(ctx, &models.Wallet{UserID: user.ID})
	assert.ErrorIs(t, err, repositories.ErrDuplicateWallet)
}

func TestDebit_RejectsOverdraft(t *testing.T) {
	s := New()
	w := seedWallet(t, s, "a@example.com", "10.00")

	err := s.Wallets().Debit(context.Background(), w.ID, decimal.RequireFromString("10.01"))
	assert.ErrorIs(t, err, repositories.ErrInsufficientBalance)

	got, _ := s.Wallets().GetByID(context.Background(), w.ID)
	assert.True(t, got.Balance.Equal(decimal.RequireFromString("10.00")))
}

func TestExecuteInTransaction_RollsBackOnError(t *testing.T) {
	s := New()
	ctx := context.Background()
	w := seedWallet(t, s, "a@example.com", "50")
	boom := errors.New("boom")

	err := s.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		require.NoError(t, tx.Wallets().Debit(ctx, w.ID, decimal.NewFromInt(20)))
		require.NoError(t, tx.Transactions().Create(ctx, &models.Transaction{
			Reference: "ref-1", SenderWalletID: w.ID, ReceiverWalletID: w.ID,
			Amount: decimal.NewFromInt(20), Currency: "USD",
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, _ := s.Wallets().GetByID(ctx, w.ID)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(50)))
	_, total, err := s.Transactions().List(ctx, repositories.TransactionFilter{}, repositories.Page{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestExecuteInTransaction_ExpiredContextAborts(t *testing.T) {
	s := New()
	w := seedWallet(t, s, "a@example.com", "50")
	ctx, cancel := context.WithCancel(context.Background())

	err := s.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		require.NoError(t, tx.Wallets().Debit(ctx, w.ID, decimal.NewFromInt(20)))
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	got, _ := s.Wallets().GetByID(context.Background(), w.ID)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(50)))
}

func TestExecuteInTransaction_NestedJoinsOuter(t *testing.T) {
	s := New()
	ctx := context.Background()
	w := seedWallet(t, s, "a@example.com", "50")

	err := s.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		return tx.ExecuteInTransaction(ctx, func(inner repositories.Store) error {
			return inner.Wallets().Debit(ctx, w.ID, decimal.NewFromInt(5))
		})
	})
	require.NoError(t, err)

	got, _ := s.Wallets().GetByID(ctx, w.ID)
	assert.True(t, got.Balance.Equal(decimal.NewFromInt(45)))
}

func TestLockByIDs_OrdersAscending(t *testing.T) {
	s := New()
	a := seedWallet(t, s, "a@example.com", "")
	b := seedWallet(t, s, "b@example.com", "")

	var locked []*models.Wallet
	err := s.ExecuteInTransaction(context.Background(), func(tx repositories.Store) error {
		var err error
		locked, err = tx.Wallets().LockByIDs(context.Background(), b.ID, a.ID, b.ID)
		return err
	})
	require.NoError(t, err)
	require.Len(t, locked, 2)
	assert.Equal(t, a.ID, locked[0].ID)
	assert.Equal(t, b.ID, locked[1].ID)

	_, err = s.Wallets().LockByIDs(context.Background(), a.ID, 999)
	assert.ErrorIs(t, err, repositories.ErrWalletNotFound)
}

func TestTransactions_ListFiltersAndTotals(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := base
	s := New(WithClock(func() time.Time { return now }))
	ctx := context.Background()
	a := seedWallet(t, s, "a@example.com", "")
	b := seedWallet(t, s, "b@example.com", "")

	create := func(ref string, from, to uint, amount int64, status models.TransactionStatus, at time.Time) {
		now = at
		tx := &models.Transaction{
			Reference: ref, SenderWalletID: from, ReceiverWalletID: to,
			Amount: decimal.NewFromInt(amount), Currency: "USD", CreatedAt: at,
		}
		require.NoError(t, s.Transactions().Create(ctx, tx))
		if status != models.TransactionStatusPending {
			require.NoError(t, s.Transactions().UpdateStatus(ctx, tx.ID, status, &at))
		}
	}
	create("r1", a.ID, b.ID, 10, models.TransactionStatusCompleted, base.Add(-40*24*time.Hour))
	create("r2", a.ID, b.ID, 20, models.TransactionStatusCompleted, base.Add(-2*24*time.Hour))
	create("r3", b.ID, a.ID, 5, models.TransactionStatusCompleted, base.Add(-1*24*time.Hour))
	create("r4", a.ID, b.ID, 7, models.TransactionStatusFailed, base.Add(-1*time.Hour))

	sent, total, err := s.Transactions().List(ctx, repositories.TransactionFilter{
		WalletID: a.ID, Direction: repositories.DirectionSent,
	}, repositories.Page{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, sent, 3)
	assert.Equal(t, "r4", sent[0].Reference, "newest first")
	require.NotNil(t, sent[0].ReceiverWallet)
	require.NotNil(t, sent[0].ReceiverWallet.User)
	assert.Equal(t, "b@example.com", sent[0].ReceiverWallet.User.Email)

	page2, total, err := s.Transactions().List(ctx, repositories.TransactionFilter{WalletID: a.ID}, repositories.Page{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, page2, 2)
	assert.Equal(t, "r2", page2[0].Reference)

	totals, err := s.Transactions().Totals(ctx, a.ID, base.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.True(t, totals.SentTotal.Equal(decimal.NewFromInt(20)))
	assert.EqualValues(t, 1, totals.SentCount)
	assert.True(t, totals.ReceivedTotal.Equal(decimal.NewFromInt(5)))
	assert.EqualValues(t, 1, totals.ReceivedCount)
}

func TestTransactions_StatusIsMonotonic(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := seedWallet(t, s, "a@example.com", "")
	tx := &models.Transaction{Reference: "r", SenderWalletID: a.ID, ReceiverWalletID: a.ID, Amount: decimal.NewFromInt(1), Currency: "USD"}
	require.NoError(t, s.Transactions().Create(ctx, tx))
	assert.Equal(t, models.TransactionStatusPending, tx.Status)

	err := s.Transactions().UpdateStatus(ctx, tx.ID, models.TransactionStatusPending, nil)
	assert.ErrorIs(t, err, repositories.ErrInvalidTransition)
	err = s.Transactions().UpdateStatus(ctx, tx.ID, "SETTLED", nil)
	assert.ErrorIs(t, err, repositories.ErrInvalidTransition)

	now := time.Now()
	require.NoError(t, s.Transactions().UpdateStatus(ctx, tx.ID, models.TransactionStatusCompleted, &now))
	err = s.Transactions().UpdateStatus(ctx, tx.ID, models.TransactionStatusFailed, nil)
	assert.ErrorIs(t, err, repositories.ErrTransactionNotPending)

	got, err := s.Transactions().GetByReference(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, got.Status)
	_, err = s.Transactions().GetByReference(ctx, "missing")
	assert.ErrorIs(t, err, repositories.ErrTransactionNotFound)

	dup := &models.Transaction{Reference: "r", SenderWalletID: a.ID, ReceiverWalletID: a.ID, Amount: decimal.NewFromInt(1), Currency: "USD"}
	assert.ErrorIs(t, s.Transactions().Create(ctx, dup), repositories.ErrDuplicateReference)
}

func TestUsers_EmailIsCaseInsensitive(t *testing.T) {
	s := New()
	ctx := context.Background()
	require.NoError(t, s.Users().Create(ctx, &models.User{Email: " Alice@Example.com "}))

	got, err := s.Users().GetByEmail(ctx, "ALICE@example.COM")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, 1, got.TokenVersion)

	err = s.Users().Create(ctx, &models.User{Email: "alice@example.com"})
	assert.ErrorIs(t, err, repositories.ErrEmailTaken)
}

func TestTransactions_ListIgnoresNegativeOffset(t *testing.T) {
	s := New()
	ctx := context.Background()
	a := seedWallet(t, s, "a@example.com", "")
	b := seedWallet(t, s, "b@example.com", "")
	tx := &models.Transaction{Reference: "r", SenderWalletID: a.ID, ReceiverWalletID: b.ID, Amount: decimal.NewFromInt(1), Currency: "USD"}
	require.NoError(t, s.Transactions().Create(ctx, tx))

	items, total, err := s.Transactions().List(ctx, repositories.TransactionFilter{WalletID: a.ID}, repositories.Page{Offset: -116, Limit: 100})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Empty(t, items)
}
