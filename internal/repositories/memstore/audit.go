package memstore

import (
	"context"

	"vetopay/internal/models"
)

type auditRepo struct{ h *handle }

func (r auditRepo) Append(ctx context.Context, entry *models.AuditLog) error {
	return r.h.write(ctx, func(d *dataset) error {
		d.auditSeq++
		entry.ID = d.auditSeq
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = r.h.now()
		}
		row := *entry
		row.Metadata = entry.Metadata.Clone()
		d.audit = append(d.audit, row)
		return nil
	})
}
