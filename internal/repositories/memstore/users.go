package memstore

import (
	"context"
	"strings"
	"time"

	"vetopay/internal/models"
	"vetopay/internal/repositories"
)

type userRepo struct{ h *handle }

func (r userRepo) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	return r.h.write(ctx, func(d *dataset) error {
		for _, u := range d.users {
			if u.Email == user.Email {
				return repositories.ErrEmailTaken
			}
		}
		d.userSeq++
		now := r.h.now()
		user.ID = d.userSeq
		user.CreatedAt, user.UpdatedAt = now, now
		if user.Role == "" {
			user.Role = models.RoleUser
		}
		if user.Status == "" {
			user.Status = models.UserStatusActive
		}
		if user.TokenVersion == 0 {
			user.TokenVersion = 1
		}

		row := *user
		row.Wallet = nil
		d.users[row.ID] = row
		return nil
	})
}

func (r userRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var out *models.User
	err := r.h.read(func(d *dataset) error {
		u, ok := d.users[id]
		if !ok {
			return repositories.ErrUserNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var out *models.User
	err := r.h.read(func(d *dataset) error {
		for _, u := range d.users {
			if u.Email == email {
				out = &u
				return nil
			}
		}
		return repositories.ErrUserNotFound
	})
	return out, err
}

func (r userRepo) update(ctx context.Context, id uint, fn func(u *models.User)) error {
	return r.h.write(ctx, func(d *dataset) error {
		u, ok := d.users[id]
		if !ok {
			return repositories.ErrUserNotFound
		}
		fn(&u)
		u.UpdatedAt = r.h.now()
		d.users[id] = u
		return nil
	})
}

func (r userRepo) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.update(ctx, id, func(u *models.User) { u.LastLoginAt = &at })
}

func (r userRepo) IncrementTokenVersion(ctx context.Context, id uint) error {
	return r.update(ctx, id, func(u *models.User) { u.TokenVersion++ })
}

func (r userRepo) UpdateStatus(ctx context.Context, id uint, status models.UserStatus) error {
	return r.update(ctx, id, func(u *models.User) { u.Status = status })
}

func (r userRepo) UpdateProfile(ctx context.Context, id uint, update repositories.ProfileUpdate) error {
	return r.update(ctx, id, func(u *models.User) {
		if update.FirstName != nil {
			u.FirstName = *update.FirstName
		}
		if update.LastName != nil {
			u.LastName = *update.LastName
		}
		if update.Phone != nil {
			u.Phone = *update.Phone
		}
	})
}

func (r userRepo) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return r.update(ctx, id, func(u *models.User) {
		u.Password = hash
		u.TokenVersion++
	})
}

func (r userRepo) List(ctx context.Context, filter repositories.UserFilter, page repositories.Page) ([]models.User, int64, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	var out []models.User
	var total int64
	err := r.h.read(func(d *dataset) error {
		var matched []models.User
		for _, u := range d.users {
			if filter.Role != "" && u.Role != filter.Role {
				continue
			}
			if filter.Status != "" && u.Status != filter.Status {
				continue
			}
			if search != "" &&
				!strings.Contains(u.Email, search) &&
				!strings.Contains(strings.ToLower(u.FirstName), search) &&
				!strings.Contains(strings.ToLower(u.LastName), search) {
				continue
			}
			for _, w := range d.wallets {
				if w.UserID == u.ID {
					w := w
					u.Wallet = &w
					break
				}
			}
			matched = append(matched, u)
		}
		sortNewestFirst(matched,
			func(u models.User) time.Time { return u.CreatedAt },
			func(u models.User) uint { return u.ID })
		total = int64(len(matched))
		out = paginate(matched, page)
		return nil
	})
	return out, total, err
}
