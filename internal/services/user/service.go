package user

import (
	"context"
	"errors"
	"strings"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/models"
	"vetopay/internal/repositories"
	"vetopay/internal/utils/pagination"
	"vetopay/internal/validation"

	"go.uber.org/zap"
)

const DefaultLimit = 20

type Service interface {
	// GetProfile returns the user with their wallet.
	GetProfile(ctx context.Context, id uint) (*models.User, error)
	List(ctx context.Context, filter repositories.UserFilter, params pagination.Params) (*Page, error)
	// UpdateProfile changes the fields set in input and returns the profile.
	UpdateProfile(ctx context.Context, id uint, input ProfileInput) (*models.User, error)
}

// ProfileInput is a partial profile update. Email and role cannot change here.
type ProfileInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
}

const maxPhoneLength = 20

// Page is one page of users.
type Page struct {
	Users      []models.User   `json:"users"`
	Pagination pagination.Info `json:"pagination"`
}

type service struct {
	store repositories.Store
	log   *zap.Logger
}

func NewService(store repositories.Store, log *zap.Logger) Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &service{store: store, log: log.Named("user")}
}

func (s *service) GetProfile(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Internal(err)
	}

	wallet, err := s.store.Wallets().GetByUserID(ctx, id)
	switch {
	case err == nil:
		user.Wallet = wallet
	case errors.Is(err, repositories.ErrWalletNotFound):
	default:
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *service) UpdateProfile(ctx context.Context, id uint, input ProfileInput) (*models.User, error) {
	update := repositories.ProfileUpdate{
		FirstName: trimmed(input.FirstName),
		LastName:  trimmed(input.LastName),
		Phone:     trimmed(input.Phone),
	}
	v := validation.New()
	v.Check(update.FirstName != nil || update.LastName != nil || update.Phone != nil, "body", "no profile fields to update")
	if update.FirstName != nil {
		v.MinLength("firstName", *update.FirstName, validation.MinNameLength)
	}
	if update.LastName != nil {
		v.MinLength("lastName", *update.LastName, validation.MinNameLength)
	}
	if update.Phone != nil {
		v.MaxLength("phone", *update.Phone, maxPhoneLength)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if err := s.store.Users().UpdateProfile(ctx, id, update); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Internal(err)
	}
	s.log.Info("profile updated", zap.Uint("user_id", id))
	return s.GetProfile(ctx, id)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func (s *service) List(ctx context.Context, filter repositories.UserFilter, params pagination.Params) (*Page, error) {
	switch filter.Status {
	case "", models.UserStatusActive, models.UserStatusSuspended:
	default:
		return nil, apperrors.Validation(apperrors.FieldError{Field: "status", Message: "must be ACTIVE or SUSPENDED"})
	}
	users, total, err := s.store.Users().List(ctx, filter, repositories.Page{Offset: params.Offset(), Limit: params.Limit})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &Page{Users: users, Pagination: params.Info(total)}, nil
}
