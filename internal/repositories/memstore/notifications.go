package memstore

import (
	"context"
	"time"

	"vetopay/internal/models"
	"vetopay/internal/repositories"
)

type notificationRepo struct{ h *handle }

func (r notificationRepo) Create(ctx context.Context, n *models.Notification) error {
	return r.h.write(ctx, func(d *dataset) error {
		d.notificationSeq++
		now := r.h.now()
		n.ID = d.notificationSeq
		n.CreatedAt, n.UpdatedAt = now, now
		if n.Status == "" {
			n.Status = models.NotificationStatusUnread
		}
		row := *n
		row.Metadata = n.Metadata.Clone()
		d.notifications[row.ID] = row
		return nil
	})
}

func (r notificationRepo) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var out *models.Notification
	err := r.h.read(func(d *dataset) error {
		n, ok := d.notifications[id]
		if !ok {
			return repositories.ErrNotificationNotFound
		}
		n.Metadata = n.Metadata.Clone()
		out = &n
		return nil
	})
	return out, err
}

func (r notificationRepo) List(ctx context.Context, filter repositories.NotificationFilter, page repositories.Page) ([]models.Notification, int64, error) {
	var out []models.Notification
	var total int64
	err := r.h.read(func(d *dataset) error {
		var matched []models.Notification
		for _, n := range d.notifications {
			if n.UserID != filter.UserID {
				continue
			}
			if filter.Status != "" && n.Status != filter.Status {
				continue
			}
			if filter.Type != "" && n.Type != filter.Type {
				continue
			}
			n.Metadata = n.Metadata.Clone()
			matched = append(matched, n)
		}
		sortNewestFirst(matched,
			func(n models.Notification) time.Time { return n.CreatedAt },
			func(n models.Notification) uint { return n.ID })
		total = int64(len(matched))
		out = paginate(matched, page)
		return nil
	})
	return out, total, err
}

func (r notificationRepo) MarkRead(ctx context.Context, id uint, at time.Time) error {
	return r.h.write(ctx, func(d *dataset) error {
		n, ok := d.notifications[id]
		if !ok {
			return repositories.ErrNotificationNotFound
		}
		n.Status = models.NotificationStatusRead
		n.ReadAt = &at
		n.UpdatedAt = r.h.now()
		d.notifications[id] = n
		return nil
	})
}

func (r notificationRepo) MarkAllRead(ctx context.Context, userID uint, at time.Time) (int64, error) {
	var changed int64
	err := r.h.write(ctx, func(d *dataset) error {
		for id, n := range d.notifications {
			if n.UserID != userID || n.Status != models.NotificationStatusUnread {
				continue
			}
			n.Status = models.NotificationStatusRead
			n.ReadAt = &at
			n.UpdatedAt = r.h.now()
			d.notifications[id] = n
			changed++
		}
		return nil
	})
	return changed, err
}

func (r notificationRepo) Delete(ctx context.Context, id uint) error {
	return r.h.write(ctx, func(d *dataset) error {
		if _, ok := d.notifications[id]; !ok {
			return repositories.ErrNotificationNotFound
		}
		delete(d.notifications, id)
		return nil
	})
}

func (r notificationRepo) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.h.read(func(d *dataset) error {
		for _, n := range d.notifications {
			if n.UserID == userID && n.Status == models.NotificationStatusUnread {
				count++
			}
		}
		return nil
	})
	return count, err
}
