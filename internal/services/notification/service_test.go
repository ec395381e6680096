package notification

import (
	"context"
	"testing"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/models"
	"vetopay/internal/repositories/memstore"
	"vetopay/internal/utils/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, svc *Service, userID uint, title string) *models.Notification {
	t.Helper()
	n, err := svc.Create(context.Background(), userID, models.NotificationTypeTransaction, title, "msg", models.JSON{"transactionId": 1})
	require.NoError(t, err)
	return n
}

func TestNotificationService_OwnerChecks(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memstore.New(), nil)
	n := seed(t, svc, 1, "Payment Sent")

	_, err := svc.Get(ctx, n.ID, 2)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

	_, err = svc.MarkRead(ctx, n.ID, 2)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

	assert.ErrorIs(t, svc.Delete(ctx, n.ID, 2), apperrors.ErrAccessDenied)

	_, err = svc.Get(ctx, 999, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)
}

func TestNotificationService_ReadLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memstore.New(), nil)
	first := seed(t, svc, 1, "one")
	seed(t, svc, 1, "two")
	seed(t, svc, 1, "three")
	seed(t, svc, 2, "someone else")

	count, err := svc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	read, err := svc.MarkRead(ctx, first.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationStatusRead, read.Status)
	assert.NotNil(t, read.ReadAt)

	changed, err := svc.MarkAllRead(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, changed)

	count, err = svc.UnreadCount(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = svc.UnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestNotificationService_List(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memstore.New(), nil)
	for i := 0; i < 5; i++ {
		seed(t, svc, 1, "n")
	}

	page, err := svc.List(ctx, 1, Filter{Status: models.NotificationStatusUnread}, pagination.New(2, 2, DefaultLimit))
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 2)
	assert.Equal(t, pagination.Info{Page: 2, Limit: 2, Total: 5, Pages: 3}, page.Pagination)

	_, err = svc.List(ctx, 1, Filter{Status: "ARCHIVED"}, pagination.New(1, 10, DefaultLimit))
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestNotificationService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memstore.New(), nil)
	n := seed(t, svc, 1, "bye")

	require.NoError(t, svc.Delete(ctx, n.ID, 1))
	_, err := svc.Get(ctx, n.ID, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotificationNotFound)
}
