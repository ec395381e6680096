// Package audit appends audit trail entries.
package audit

import (
	"context"
	"fmt"

	"vetopay/internal/models"
	"vetopay/internal/repositories"

	"go.uber.org/zap"
)

// Entry describes one audited action. UserID is the acting user, zero for
// system actions.
type Entry struct {
	UserID   uint
	Action   string
	Entity   string
	EntityID string
	Metadata models.JSON
	Meta     models.RequestMeta
}

type Service struct {
	store repositories.Store
	log   *zap.Logger
}

func NewService(store repositories.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log.Named("audit")}
}

// Record appends e through the store's audit repository.
func (s *Service) Record(ctx context.Context, e Entry) error {
	return s.RecordIn(ctx, s.store, e)
}

// RecordIn appends e through uow so the entry commits or rolls back with
// the surrounding unit of work.
func (s *Service) RecordIn(ctx context.Context, uow repositories.Store, e Entry) error {
	row := &models.AuditLog{
		Action:    e.Action,
		Entity:    e.Entity,
		EntityID:  e.EntityID,
		Metadata:  e.Metadata,
		IPAddress: e.Meta.IPAddress,
		UserAgent: e.Meta.UserAgent,
	}
	if e.UserID != 0 {
		id := e.UserID
		row.UserID = &id
	}
	if err := uow.Audit().Append(ctx, row); err != nil {
		return fmt.Errorf("failed to record %s: %w", e.Action, err)
	}
	s.log.Debug("audit entry recorded",
		zap.String("action", e.Action),
		zap.String("entity", e.Entity),
		zap.String("entity_id", e.EntityID))
	return nil
}
