package user

import (
	"context"
	"testing"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/models"
	"vetopay/internal/repositories"
	"vetopay/internal/repositories/memstore"
	"vetopay/internal/utils/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	u := &models.User{Email: "a@example.com", FirstName: "A"}
	require.NoError(t, store.Users().Create(ctx, u))
	require.NoError(t, store.Wallets().Create(ctx, &models.Wallet{UserID: u.ID}))
	svc := NewService(store, nil)

	got, err := svc.GetProfile(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Wallet)
	assert.Equal(t, u.ID, got.Wallet.UserID)

	_, err = svc.GetProfile(ctx, 42)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	for _, email := range []string{"ann@example.com", "bob@example.com", "anton@example.com"} {
		require.NoError(t, store.Users().Create(ctx, &models.User{Email: email, FirstName: "X"}))
	}
	svc := NewService(store, nil)

	page, err := svc.List(ctx, repositories.UserFilter{Search: "an"}, pagination.New(1, 10, DefaultLimit))
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Pagination.Total)

	_, err = svc.List(ctx, repositories.UserFilter{Status: "GONE"}, pagination.New(1, 10, DefaultLimit))
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	u := &models.User{Email: "a@example.com", FirstName: "Ann", LastName: "Old", Phone: "555"}
	require.NoError(t, store.Users().Create(ctx, u))
	svc := NewService(store, nil)

	first, phone := "  Anna ", ""
	got, err := svc.UpdateProfile(ctx, u.ID, ProfileInput{FirstName: &first, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.FirstName)
	assert.Equal(t, "Old", got.LastName, "unset fields are kept")
	assert.Empty(t, got.Phone)
	assert.Equal(t, "a@example.com", got.Email)

	short := "A"
	_, err = svc.UpdateProfile(ctx, u.ID, ProfileInput{LastName: &short})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.UpdateProfile(ctx, u.ID, ProfileInput{})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.UpdateProfile(ctx, 42, ProfileInput{FirstName: &first})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
