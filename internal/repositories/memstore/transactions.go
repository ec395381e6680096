package memstore

import (
	"context"
	"time"

	"vetopay/internal/models"
	"vetopay/internal/repositories"
)

type transactionRepo struct{ h *handle }

func (d *dataset) hydrateTransaction(tx models.Transaction) models.Transaction {
	if w, ok := d.wallets[tx.SenderWalletID]; ok {
		tx.SenderWallet = d.hydrateWallet(w)
	}
	if w, ok := d.wallets[tx.ReceiverWalletID]; ok {
		tx.ReceiverWallet = d.hydrateWallet(w)
	}
	return tx
}

func (r transactionRepo) Create(ctx context.Context, tx *models.Transaction) error {
	return r.h.write(ctx, func(d *dataset) error {
		for _, existing := range d.transactions {
			if existing.Reference == tx.Reference {
				return repositories.ErrDuplicateReference
			}
		}
		d.txSeq++
		now := r.h.now()
		tx.ID = d.txSeq
		if tx.CreatedAt.IsZero() {
			tx.CreatedAt = now
		}
		tx.UpdatedAt = now
		if tx.Status == "" {
			tx.Status = models.TransactionStatusPending
		}

		row := *tx
		row.SenderWallet, row.ReceiverWallet = nil, nil
		d.transactions[row.ID] = row
		return nil
	})
}

func (r transactionRepo) UpdateStatus(ctx context.Context, id uint, status models.TransactionStatus, completedAt *time.Time) error {
	return r.h.write(ctx, func(d *dataset) error {
		tx, ok := d.transactions[id]
		if !ok {
			return repositories.ErrTransactionNotFound
		}
		if !tx.CanTransition(status) {
			if tx.Status.Terminal() {
				return repositories.ErrTransactionNotPending
			}
			return repositories.ErrInvalidTransition
		}
		tx.Status = status
		if completedAt != nil {
			at := *completedAt
			tx.CompletedAt = &at
		}
		tx.UpdatedAt = r.h.now()
		d.transactions[id] = tx
		return nil
	})
}

func (r transactionRepo) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var out *models.Transaction
	err := r.h.read(func(d *dataset) error {
		tx, ok := d.transactions[id]
		if !ok {
			return repositories.ErrTransactionNotFound
		}
		hydrated := d.hydrateTransaction(tx)
		out = &hydrated
		return nil
	})
	return out, err
}

func (r transactionRepo) GetByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	var out *models.Transaction
	err := r.h.read(func(d *dataset) error {
		for _, tx := range d.transactions {
			if tx.Reference == reference {
				hydrated := d.hydrateTransaction(tx)
				out = &hydrated
				return nil
			}
		}
		return repositories.ErrTransactionNotFound
	})
	return out, err
}

func (r transactionRepo) List(ctx context.Context, filter repositories.TransactionFilter, page repositories.Page) ([]models.Transaction, int64, error) {
	var out []models.Transaction
	var total int64
	err := r.h.read(func(d *dataset) error {
		var matched []models.Transaction
		for _, tx := range d.transactions {
			if filter.Matches(&tx) {
				matched = append(matched, tx)
			}
		}
		sortNewestFirst(matched,
			func(t models.Transaction) time.Time { return t.CreatedAt },
			func(t models.Transaction) uint { return t.ID })
		total = int64(len(matched))
		matched = paginate(matched, page)
		out = make([]models.Transaction, 0, len(matched))
		for _, tx := range matched {
			out = append(out, d.hydrateTransaction(tx))
		}
		return nil
	})
	return out, total, err
}

func (r transactionRepo) Totals(ctx context.Context, walletID uint, since time.Time) (repositories.TransferTotals, error) {
	var totals repositories.TransferTotals
	err := r.h.read(func(d *dataset) error {
		for _, tx := range d.transactions {
			if tx.Status != models.TransactionStatusCompleted || tx.CreatedAt.Before(since) {
				continue
			}
			if tx.SenderWalletID == walletID {
				totals.SentTotal = totals.SentTotal.Add(tx.Amount)
				totals.SentCount++
			}
			if tx.ReceiverWalletID == walletID {
				totals.ReceivedTotal = totals.ReceivedTotal.Add(tx.Amount)
				totals.ReceivedCount++
			}
		}
		return nil
	})
	return totals, err
}
