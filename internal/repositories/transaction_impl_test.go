package repositories

import (
	"context"
	"testing"
	"time"

	"vetopay/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestUpdateStatus_RejectsInvalidTargetBeforeQuerying(t *testing.T) {
	db, captured := dryRunDB(t)
	repo := NewTransactionRepository(db)

	for _, status := range []models.TransactionStatus{models.TransactionStatusPending, "SETTLED"} {
		err := repo.UpdateStatus(context.Background(), 1, status, nil)
		assert.ErrorIs(t, err, ErrInvalidTransition, string(status))
	}
	assert.Empty(t, captured["update"])
}

func TestUpdateStatus_GuardsOnPending(t *testing.T) {
	db, captured := dryRunDB(t)
	repo := NewTransactionRepository(db)

	now := time.Now()
	_ = repo.UpdateStatus(context.Background(), 1, models.TransactionStatusCompleted, &now)

	sql := captured["update"]
	assert.Contains(t, sql, `UPDATE "transactions"`)
	assert.Contains(t, sql, "status = ")
}

func TestGetByReference_FiltersOnReference(t *testing.T) {
	db, captured := dryRunDB(t)
	repo := NewTransactionRepository(db)

	_, _ = repo.GetByReference(context.Background(), "ref-1")

	assert.Contains(t, captured["query"], "reference = ")
}
