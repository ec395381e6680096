package admin

import (
	"context"
	"errors"
	"fmt"
	"slices"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/models"
	"vetopay/internal/repositories"
	"vetopay/internal/services/audit"
	"vetopay/internal/validation"

	"go.uber.org/zap"
)

const (
	maxTitleLength   = 100
	maxBroadcastIDs  = 1000
	recipientPageLen = 100
)

// BroadcastInput is a system notification. An empty UserIDs targets every
// active user.
type BroadcastInput struct {
	Title   string `json:"title" validate:"required"`
	Message string `json:"message" validate:"required"`
	UserIDs []uint `json:"userIds"`
}

// BroadcastResult reports how many users received the notification.
type BroadcastResult struct {
	Recipients int `json:"recipients"`
	Failed     int `json:"failed"`
}

// Broadcast sends a SYSTEM notification. A failed delivery to one user does
// not stop the others.
func (s *Service) Broadcast(ctx context.Context, actorID uint, input BroadcastInput, meta models.RequestMeta) (*BroadcastResult, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	v := validation.New()
	v.MaxLength("title", input.Title, maxTitleLength)
	v.MaxLength("message", input.Message, validation.MaxDescriptionLength)
	v.Check(len(input.UserIDs) <= maxBroadcastIDs, "userIds", fmt.Sprintf("must not list more than %d users", maxBroadcastIDs))
	if err := v.Err(); err != nil {
		return nil, err
	}

	recipients, err := s.recipients(ctx, input.UserIDs)
	if err != nil {
		return nil, err
	}

	result := &BroadcastResult{}
	metadata := models.JSON{"sentBy": actorID}
	for _, userID := range recipients {
		if _, err := s.notifier.Create(ctx, userID, models.NotificationTypeSystem, input.Title, input.Message, metadata); err != nil {
			result.Failed++
			s.log.Warn("system notification not delivered", zap.Uint("user_id", userID), zap.Error(err))
			continue
		}
		result.Recipients++
	}

	s.record(ctx, audit.Entry{
		UserID:   actorID,
		Action:   models.AuditSystemNotification,
		Entity:   "Notification",
		Metadata: models.JSON{"title": input.Title, "recipients": result.Recipients, "failed": result.Failed},
		Meta:     meta,
	})
	s.log.Info("system notification sent", zap.Int("recipients", result.Recipients), zap.Int("failed", result.Failed))
	return result, nil
}

func (s *Service) recipients(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) > 0 {
		ids = slices.Clone(ids)
		slices.Sort(ids)
		ids = slices.Compact(ids)
		for _, id := range ids {
			if _, err := s.store.Users().GetByID(ctx, id); err != nil {
				if errors.Is(err, repositories.ErrUserNotFound) {
					return nil, apperrors.Validation(apperrors.FieldError{Field: "userIds", Message: fmt.Sprintf("user %d does not exist", id)})
				}
				return nil, apperrors.Internal(err)
			}
		}
		return ids, nil
	}

	var out []uint
	filter := repositories.UserFilter{Status: models.UserStatusActive}
	for offset := 0; ; offset += recipientPageLen {
		users, _, err := s.store.Users().List(ctx, filter, repositories.Page{Offset: offset, Limit: recipientPageLen})
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		for _, u := range users {
			out = append(out, u.ID)
		}
		if len(users) < recipientPageLen {
			return out, nil
		}
	}
}
