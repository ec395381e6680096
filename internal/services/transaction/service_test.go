package transaction

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/models"
	"vetopay/internal/repositories"
	"vetopay/internal/repositories/memstore"
	"vetopay/internal/utils/pagination"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type ledgerFixture struct {
	store *memstore.Store
	svc   *service
	seq   int
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	store := memstore.New(memstore.WithClock(func() time.Time { return now }))
	svc := NewService(store, nil).(*service)
	svc.now = func() time.Time { return now }
	return &ledgerFixture{store: store, svc: svc}
}

func (f *ledgerFixture) wallet(t *testing.T, email string) *models.Wallet {
	t.Helper()
	ctx := context.Background()
	u := &models.User{Email: email, FirstName: "T"}
	require.NoError(t, f.store.Users().Create(ctx, u))
	w := &models.Wallet{UserID: u.ID, Currency: "USD"}
	require.NoError(t, f.store.Wallets().Create(ctx, w))
	return w
}

func (f *ledgerFixture) record(t *testing.T, from, to *models.Wallet, amount string, age time.Duration, status models.TransactionStatus) *models.Transaction {
	t.Helper()
	ctx := context.Background()
	f.seq++
	tx := &models.Transaction{
		Reference:        fmt.Sprintf("ref-%d", f.seq),
		SenderWalletID:   from.ID,
		ReceiverWalletID: to.ID,
		Amount:           decimal.RequireFromString(amount),
		Currency:         "USD",
		CreatedAt:        now.Add(-age),
	}
	require.NoError(t, f.store.Transactions().Create(ctx, tx))
	if status != models.TransactionStatusPending {
		at := tx.CreatedAt
		require.NoError(t, f.store.Transactions().UpdateStatus(ctx, tx.ID, status, &at))
	}
	return tx
}

func TestLedger_GetByID(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	alice, bob, carol := f.wallet(t, "alice@example.com"), f.wallet(t, "bob@example.com"), f.wallet(t, "carol@example.com")
	tx := f.record(t, alice, bob, "5", time.Hour, models.TransactionStatusCompleted)

	for _, userID := range []uint{alice.UserID, bob.UserID} {
		got, err := f.svc.GetByID(ctx, tx.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, tx.Reference, got.Reference)
	}

	_, err := f.svc.GetByID(ctx, tx.ID, carol.UserID)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

	_, err = f.svc.GetByID(ctx, 9999, alice.UserID)
	assert.ErrorIs(t, err, apperrors.ErrTransactionNotFound)

	got, err := f.svc.GetByIDUnrestricted(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, got.ID)
}

func TestLedger_GetByReference(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	alice, bob, carol := f.wallet(t, "alice@example.com"), f.wallet(t, "bob@example.com"), f.wallet(t, "carol@example.com")
	tx := f.record(t, alice, bob, "5", time.Hour, models.TransactionStatusCompleted)

	got, err := f.svc.GetByReference(ctx, tx.Reference, bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, got.ID)

	_, err = f.svc.GetByReference(ctx, tx.Reference, carol.UserID)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

	_, err = f.svc.GetByReference(ctx, "no-such-ref", alice.UserID)
	assert.ErrorIs(t, err, apperrors.ErrTransactionNotFound)

	_, err = f.svc.GetByReference(ctx, "  ", alice.UserID)
	assert.ErrorIs(t, err, apperrors.ErrTransactionNotFound)
}

func TestLedger_ListForUserHugePage(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	alice, bob := f.wallet(t, "alice@example.com"), f.wallet(t, "bob@example.com")
	f.record(t, alice, bob, "5", time.Hour, models.TransactionStatusCompleted)

	page, err := f.svc.ListForUser(ctx, alice.UserID, UserFilter{}, pagination.New(math.MaxInt64/50, 100, DefaultUserLimit))
	require.NoError(t, err)
	assert.Empty(t, page.Transactions)
	assert.EqualValues(t, 1, page.Pagination.Total)
}

func TestLedger_GetByIDIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	alice, bob := f.wallet(t, "alice@example.com"), f.wallet(t, "bob@example.com")
	tx := f.record(t, alice, bob, "5", time.Hour, models.TransactionStatusCompleted)

	first, err := f.svc.GetByID(ctx, tx.ID, alice.UserID)
	require.NoError(t, err)
	second, err := f.svc.GetByID(ctx, tx.ID, alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLedger_ListForUser(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	alice, bob := f.wallet(t, "alice@example.com"), f.wallet(t, "bob@example.com")
	oldest := f.record(t, alice, bob, "1", 3*time.Hour, models.TransactionStatusCompleted)
	f.record(t, bob, alice, "2", 2*time.Hour, models.TransactionStatusCompleted)
	newest := f.record(t, alice, bob, "3", time.Hour, models.TransactionStatusPending)

	tests := []struct {
		name      string
		filter    UserFilter
		params    pagination.Params
		wantRefs  []string
		wantPages int
		wantTotal int64
	}{
		{
			name:      "all newest first",
			params:    pagination.New(1, 0, DefaultUserLimit),
			wantRefs:  []string{newest.Reference, "", oldest.Reference},
			wantPages: 1,
			wantTotal: 3,
		},
		{
			name:      "sent only",
			filter:    UserFilter{Direction: repositories.DirectionSent},
			params:    pagination.New(1, 10, DefaultUserLimit),
			wantRefs:  []string{newest.Reference, oldest.Reference},
			wantPages: 1,
			wantTotal: 2,
		},
		{
			name:      "completed only, paged",
			filter:    UserFilter{Status: models.TransactionStatusCompleted},
			params:    pagination.New(2, 1, DefaultUserLimit),
			wantRefs:  []string{oldest.Reference},
			wantPages: 2,
			wantTotal: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.svc.ListForUser(ctx, alice.UserID, tt.filter, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, page.Pagination.Total)
			assert.Equal(t, tt.wantPages, page.Pagination.Pages)
			require.Len(t, page.Transactions, len(tt.wantRefs))
			for i, ref := range tt.wantRefs {
				if ref != "" {
					assert.Equal(t, ref, page.Transactions[i].Reference)
				}
			}
		})
	}

	t.Run("date window", func(t *testing.T) {
		from := now.Add(-150 * time.Minute)
		page, err := f.svc.ListForUser(ctx, alice.UserID, UserFilter{From: &from}, pagination.New(1, 10, DefaultUserLimit))
		require.NoError(t, err)
		assert.EqualValues(t, 2, page.Pagination.Total)
	})

	t.Run("bad direction", func(t *testing.T) {
		_, err := f.svc.ListForUser(ctx, alice.UserID, UserFilter{Direction: "sideways"}, pagination.New(1, 10, DefaultUserLimit))
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})
}

func TestLedger_ListAllAmountRange(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	alice, bob := f.wallet(t, "alice@example.com"), f.wallet(t, "bob@example.com")
	f.record(t, alice, bob, "5", time.Hour, models.TransactionStatusCompleted)
	f.record(t, alice, bob, "50", time.Hour, models.TransactionStatusCompleted)
	f.record(t, bob, alice, "500", time.Hour, models.TransactionStatusCompleted)

	minAmount, maxAmount := decimal.NewFromInt(10), decimal.NewFromInt(100)
	page, err := f.svc.ListAll(ctx, AdminFilter{MinAmount: &minAmount, MaxAmount: &maxAmount}, pagination.New(1, 0, DefaultAdminLimit))
	require.NoError(t, err)
	require.Len(t, page.Transactions, 1)
	assert.True(t, page.Transactions[0].Amount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, DefaultAdminLimit, page.Pagination.Limit)

	_, err = f.svc.ListAll(ctx, AdminFilter{MinAmount: &maxAmount, MaxAmount: &minAmount}, pagination.New(1, 0, DefaultAdminLimit))
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestLedger_AggregateStats(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	alice, bob := f.wallet(t, "alice@example.com"), f.wallet(t, "bob@example.com")
	day := 24 * time.Hour
	f.record(t, alice, bob, "10", 2*day, models.TransactionStatusCompleted)
	f.record(t, alice, bob, "20", 20*day, models.TransactionStatusCompleted)
	f.record(t, bob, alice, "5", 3*day, models.TransactionStatusCompleted)
	f.record(t, alice, bob, "99", day, models.TransactionStatusPending)
	f.record(t, alice, bob, "7", 200*day, models.TransactionStatusCompleted)

	tests := []struct {
		period        string
		wantPeriod    string
		sentTotal     string
		sentCount     int64
		receivedSum   string
		receivedCount int64
	}{
		{PeriodWeek, PeriodWeek, "10", 1, "5", 1},
		{"", PeriodMonth, "30", 2, "5", 1},
		{PeriodYear, PeriodYear, "37", 3, "5", 1},
	}
	for _, tt := range tests {
		t.Run(tt.wantPeriod, func(t *testing.T) {
			stats, err := f.svc.AggregateStats(ctx, alice.ID, tt.period)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPeriod, stats.Period)
			assert.True(t, stats.SentTotal.Equal(decimal.RequireFromString(tt.sentTotal)), "sent %s", stats.SentTotal)
			assert.Equal(t, tt.sentCount, stats.SentCount)
			assert.True(t, stats.ReceivedTotal.Equal(decimal.RequireFromString(tt.receivedSum)))
			assert.Equal(t, tt.receivedCount, stats.ReceivedCount)
		})
	}

	_, err := f.svc.AggregateStats(ctx, alice.ID, "decade")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPeriod)
}
