// Package admin holds back-office actions. Every state change is audited.
package admin

import (
	"context"
	"errors"
	"strconv"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/models"
	"vetopay/internal/repositories"
	"vetopay/internal/services/audit"
	"vetopay/internal/validation"

	"go.uber.org/zap"
)

type WalletService interface {
	SetStatus(ctx context.Context, walletID uint, status models.WalletStatus, reason string) (*models.Wallet, error)
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry) error
}

type UserCache interface {
	InvalidateUser(ctx context.Context, userID uint) error
}

type Notifier interface {
	Create(ctx context.Context, userID uint, kind models.NotificationType, title, message string, metadata models.JSON) (*models.Notification, error)
}

type Service struct {
	store    repositories.Store
	wallets  WalletService
	auditor  Auditor
	cache    UserCache
	notifier Notifier
	log      *zap.Logger
}

func NewService(store repositories.Store, wallets WalletService, auditor Auditor, cache UserCache, notifier Notifier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, wallets: wallets, auditor: auditor, cache: cache, notifier: notifier, log: log.Named("admin")}
}

var walletActions = map[models.WalletStatus]string{
	models.WalletStatusActive:    models.AuditWalletActivated,
	models.WalletStatusSuspended: models.AuditWalletSuspended,
	models.WalletStatusFrozen:    models.AuditWalletFrozen,
}

// SetWalletStatus changes a wallet's status. Transfers already holding the
// wallet's lock finish first; later ones see the new status.
func (s *Service) SetWalletStatus(ctx context.Context, actorID, walletID uint, status models.WalletStatus, reason string, meta models.RequestMeta) (*models.Wallet, error) {
	v := validation.New()
	v.MaxLength("reason", reason, validation.MaxReasonLength)
	if err := v.Err(); err != nil {
		return nil, err
	}
	action, ok := walletActions[status]
	if !ok {
		return nil, apperrors.ErrInvalidStatus
	}

	wallet, err := s.wallets.SetStatus(ctx, walletID, status, reason)
	if err != nil {
		return nil, err
	}
	s.record(ctx, audit.Entry{
		UserID:   actorID,
		Action:   action,
		Entity:   "Wallet",
		EntityID: strconv.FormatUint(uint64(walletID), 10),
		Metadata: models.JSON{"reason": reason, "ownerId": wallet.UserID},
		Meta:     meta,
	})
	return wallet, nil
}

// SetUserStatus suspends or reactivates an account. Suspension also
// revokes every token the user holds.
func (s *Service) SetUserStatus(ctx context.Context, actorID, userID uint, status models.UserStatus, meta models.RequestMeta) (*models.User, error) {
	var action string
	switch status {
	case models.UserStatusActive:
		action = models.AuditUserActivated
	case models.UserStatusSuspended:
		action = models.AuditUserSuspended
	default:
		return nil, apperrors.Validation(apperrors.FieldError{Field: "status", Message: "must be ACTIVE or SUSPENDED"})
	}
	if actorID == userID && status == models.UserStatusSuspended {
		return nil, apperrors.Validation(apperrors.FieldError{Field: "id", Message: "cannot suspend your own account"})
	}

	err := s.store.ExecuteInTransaction(ctx, func(uow repositories.Store) error {
		if err := uow.Users().UpdateStatus(ctx, userID, status); err != nil {
			return err
		}
		if status == models.UserStatusSuspended {
			return uow.Users().IncrementTokenVersion(ctx, userID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Internal(err)
	}
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.log.Warn("user cache invalidation failed", zap.Uint("user_id", userID), zap.Error(err))
	}

	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	s.record(ctx, audit.Entry{
		UserID:   actorID,
		Action:   action,
		Entity:   "User",
		EntityID: strconv.FormatUint(uint64(userID), 10),
		Meta:     meta,
	})
	s.log.Info("user status changed", zap.Uint("user_id", userID), zap.String("status", string(status)))
	return user, nil
}

// record logs audit failures; the status change has already happened.
func (s *Service) record(ctx context.Context, e audit.Entry) {
	if err := s.auditor.Record(ctx, e); err != nil {
		s.log.Error("audit entry not recorded", zap.String("action", e.Action), zap.Error(err))
	}
}
