package memstore

import (
	"context"
	"sort"
	"time"

	"vetopay/internal/models"
	"vetopay/internal/repositories"

	"github.com/shopspring/decimal"
)

type walletRepo struct{ h *handle }

func (d *dataset) hydrateWallet(w models.Wallet) *models.Wallet {
	if u, ok := d.users[w.UserID]; ok {
		u.Wallet = nil
		w.User = &u
	}
	return &w
}

func (r walletRepo) Create(ctx context.Context, wallet *models.Wallet) error {
	return r.h.write(ctx, func(d *dataset) error {
		for _, w := range d.wallets {
			if w.UserID == wallet.UserID {
				return repositories.ErrDuplicateWallet
			}
		}
		wallet.SetCreateDefaults()
		d.walletSeq++
		now := r.h.now()
		wallet.ID = d.walletSeq
		wallet.CreatedAt, wallet.UpdatedAt = now, now

		row := *wallet
		row.User = nil
		d.wallets[row.ID] = row
		return nil
	})
}

func (r walletRepo) GetByID(ctx context.Context, id uint) (*models.Wallet, error) {
	var out *models.Wallet
	err := r.h.read(func(d *dataset) error {
		w, ok := d.wallets[id]
		if !ok {
			return repositories.ErrWalletNotFound
		}
		out = &w
		return nil
	})
	return out, err
}

func (r walletRepo) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	var out *models.Wallet
	err := r.h.read(func(d *dataset) error {
		for _, w := range d.wallets {
			if w.UserID == userID {
				w := w
				out = &w
				return nil
			}
		}
		return repositories.ErrWalletNotFound
	})
	return out, err
}

// LockByIDs holds no per-row lock; the unit of work already owns the store.
func (r walletRepo) LockByIDs(ctx context.Context, ids ...uint) ([]*models.Wallet, error) {
	var out []*models.Wallet
	err := r.h.read(func(d *dataset) error {
		seen := map[uint]bool{}
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			w, ok := d.wallets[id]
			if !ok {
				return repositories.ErrWalletNotFound
			}
			out = append(out, &w)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r walletRepo) Credit(ctx context.Context, id uint, amount decimal.Decimal) error {
	return r.h.write(ctx, func(d *dataset) error {
		w, ok := d.wallets[id]
		if !ok {
			return repositories.ErrWalletNotFound
		}
		w.Balance = w.Balance.Add(amount)
		w.UpdatedAt = r.h.now()
		d.wallets[id] = w
		return nil
	})
}

func (r walletRepo) Debit(ctx context.Context, id uint, amount decimal.Decimal) error {
	return r.h.write(ctx, func(d *dataset) error {
		w, ok := d.wallets[id]
		if !ok {
			return repositories.ErrWalletNotFound
		}
		if w.Balance.LessThan(amount) {
			return repositories.ErrInsufficientBalance
		}
		w.Balance = w.Balance.Sub(amount)
		w.UpdatedAt = r.h.now()
		d.wallets[id] = w
		return nil
	})
}

func (r walletRepo) UpdateStatus(ctx context.Context, id uint, status models.WalletStatus, reason string) error {
	return r.h.write(ctx, func(d *dataset) error {
		w, ok := d.wallets[id]
		if !ok {
			return repositories.ErrWalletNotFound
		}
		w.Status = status
		w.StatusReason = reason
		w.UpdatedAt = r.h.now()
		d.wallets[id] = w
		return nil
	})
}

func (r walletRepo) List(ctx context.Context, filter repositories.WalletFilter, page repositories.Page) ([]models.Wallet, int64, error) {
	var out []models.Wallet
	var total int64
	err := r.h.read(func(d *dataset) error {
		var matched []models.Wallet
		for _, w := range d.wallets {
			if filter.Status != "" && w.Status != filter.Status {
				continue
			}
			if filter.Currency != "" && w.Currency != filter.Currency {
				continue
			}
			matched = append(matched, *d.hydrateWallet(w))
		}
		sortNewestFirst(matched,
			func(w models.Wallet) time.Time { return w.CreatedAt },
			func(w models.Wallet) uint { return w.ID })
		total = int64(len(matched))
		out = paginate(matched, page)
		return nil
	})
	return out, total, err
}
