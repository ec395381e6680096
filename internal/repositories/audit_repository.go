package repositories

import (
	"context"
	"fmt"

	"vetopay/internal/models"

	"gorm.io/gorm"
)

// AuditRepository only appends; audit rows are never updated or deleted.
type AuditRepository interface {
	Append(ctx context.Context, entry *models.AuditLog) error
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(ctx context.Context, entry *models.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append audit log: %w", err)
	}
	return nil
}
