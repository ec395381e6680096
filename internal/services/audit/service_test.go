package audit

import (
	"context"
	"testing"

	"vetopay/internal/models"
	"vetopay/internal/repositories"
	"vetopay/internal/repositories/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Appends(t *testing.T) {
	store := memstore.New()
	svc := NewService(store, nil)

	err := svc.Record(context.Background(), Entry{
		UserID:   4,
		Action:   models.AuditWalletSuspended,
		Entity:   "Wallet",
		EntityID: "12",
		Metadata: models.JSON{"reason": "fraud review"},
		Meta:     models.RequestMeta{IPAddress: "10.0.0.1", UserAgent: "curl"},
	})
	require.NoError(t, err)

	logs := store.AuditLogs()
	require.Len(t, logs, 1)
	require.NotNil(t, logs[0].UserID)
	assert.EqualValues(t, 4, *logs[0].UserID)
	assert.Equal(t, "10.0.0.1", logs[0].IPAddress)
	assert.Equal(t, "fraud review", logs[0].Metadata["reason"])
}

func TestRecordIn_RollsBackWithUnitOfWork(t *testing.T) {
	store := memstore.New()
	svc := NewService(store, nil)

	err := store.ExecuteInTransaction(context.Background(), func(tx repositories.Store) error {
		require.NoError(t, svc.RecordIn(context.Background(), tx, Entry{Action: models.AuditUserRegistered, Entity: "User"}))
		return assert.AnError
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, store.AuditLogs())
}
