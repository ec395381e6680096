package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/models"
	"vetopay/internal/repositories"
	"vetopay/internal/utils/pagination"

	"go.uber.org/zap"
)

const DefaultLimit = 20

// Filter narrows a user's notification listing.
type Filter struct {
	Status models.NotificationStatus
	Type   models.NotificationType
}

// Page is one page of notifications.
type Page struct {
	Notifications []models.Notification `json:"notifications"`
	Pagination    pagination.Info       `json:"pagination"`
}

// Service manages in-app notifications. Every operation is scoped to the
// owning user.
type Service struct {
	store repositories.Store
	log   *zap.Logger
	now   func() time.Time
}

// NewService creates a new notification service.
func NewService(store repositories.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log.Named("notification"), now: time.Now}
}

// Create stores an UNREAD notification for userID.
func (s *Service) Create(ctx context.Context, userID uint, kind models.NotificationType, title, message string, metadata models.JSON) (*models.Notification, error) {
	n := &models.Notification{
		UserID:   userID,
		Type:     kind,
		Title:    title,
		Message:  message,
		Metadata: metadata,
		Status:   models.NotificationStatusUnread,
	}
	if err := s.store.Notifications().Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to create notification for user %d: %w", userID, err)
	}
	s.log.Debug("notification created", zap.Uint("user_id", userID), zap.String("title", title))
	return n, nil
}

func (s *Service) List(ctx context.Context, userID uint, filter Filter, params pagination.Params) (*Page, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	items, total, err := s.store.Notifications().List(ctx, repositories.NotificationFilter{
		UserID: userID,
		Status: filter.Status,
		Type:   filter.Type,
	}, repositories.Page{Offset: params.Offset(), Limit: params.Limit})
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &Page{Notifications: items, Pagination: params.Info(total)}, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	n, err := s.store.Notifications().CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	return n, nil
}

// Get returns a notification owned by userID.
func (s *Service) Get(ctx context.Context, id, userID uint) (*models.Notification, error) {
	n, err := s.store.Notifications().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, apperrors.Internal(err)
	}
	if n.UserID != userID {
		return nil, apperrors.ErrAccessDenied
	}
	return n, nil
}

func (s *Service) MarkRead(ctx context.Context, id, userID uint) (*models.Notification, error) {
	n, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if n.Status == models.NotificationStatusRead {
		return n, nil
	}
	now := s.now()
	if err := s.store.Notifications().MarkRead(ctx, id, now); err != nil {
		return nil, apperrors.Internal(err)
	}
	n.Status = models.NotificationStatusRead
	n.ReadAt = &now
	return n, nil
}

// MarkAllRead returns how many notifications changed state.
func (s *Service) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	count, err := s.store.Notifications().MarkAllRead(ctx, userID, s.now())
	if err != nil {
		return 0, apperrors.Internal(err)
	}
	s.log.Info("notifications marked as read", zap.Uint("user_id", userID), zap.Int64("count", count))
	return count, nil
}

func (s *Service) Delete(ctx context.Context, id, userID uint) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	if err := s.store.Notifications().Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotificationNotFound
		}
		return apperrors.Internal(err)
	}
	return nil
}

func validateFilter(f Filter) error {
	var fields []apperrors.FieldError
	switch f.Status {
	case "", models.NotificationStatusUnread, models.NotificationStatusRead:
	default:
		fields = append(fields, apperrors.FieldError{Field: "status", Message: "must be UNREAD or READ"})
	}
	switch f.Type {
	case "", models.NotificationTypeTransaction, models.NotificationTypeSystem, models.NotificationTypeSecurity:
	default:
		fields = append(fields, apperrors.FieldError{Field: "type", Message: "must be TRANSACTION, SYSTEM or SECURITY"})
	}
	if len(fields) > 0 {
		return apperrors.Validation(fields...)
	}
	return nil
}
