package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vetopay/internal/models"

	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) withParties(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("SenderWallet.User").
		Preload("ReceiverWallet.User")
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Omit("SenderWallet", "ReceiverWallet").Create(tx).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateReference
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, id uint, status models.TransactionStatus, completedAt *time.Time) error {
	pending := models.Transaction{Status: models.TransactionStatusPending}
	if !pending.CanTransition(status) {
		return ErrInvalidTransition
	}

	result := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, models.TransactionStatusPending).
		Updates(map[string]interface{}{
			"status":       status,
			"completed_at": completedAt,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction status: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var current models.Transaction
	if err := r.db.WithContext(ctx).Select("id", "status").First(&current, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	if current.Status.Terminal() {
		return ErrTransactionNotPending
	}
	// Still pending but not updated: a concurrent writer touched the row.
	return ErrSerializationConflict
}

func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.withParties(ctx).First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) GetByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.withParties(ctx).Where("reference = ?", reference).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func applyTransactionFilter(query *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.WalletID != 0 {
		switch f.Direction {
		case DirectionSent:
			query = query.Where("sender_wallet_id = ?", f.WalletID)
		case DirectionReceived:
			query = query.Where("receiver_wallet_id = ?", f.WalletID)
		default:
			query = query.Where("(sender_wallet_id = ? OR receiver_wallet_id = ?)", f.WalletID, f.WalletID)
		}
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.From != nil {
		query = query.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("created_at <= ?", *f.To)
	}
	if f.MinAmount != nil {
		query = query.Where("amount >= ?", *f.MinAmount)
	}
	if f.MaxAmount != nil {
		query = query.Where("amount <= ?", *f.MaxAmount)
	}
	return query
}

func (r *transactionRepository) List(ctx context.Context, filter TransactionFilter, page Page) ([]models.Transaction, int64, error) {
	var total int64
	countQuery := applyTransactionFilter(r.db.WithContext(ctx).Model(&models.Transaction{}), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var txs []models.Transaction
	err := applyTransactionFilter(r.withParties(ctx), filter).
		Order("created_at DESC").
		Order("id DESC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&txs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, total, nil
}

func (r *transactionRepository) Totals(ctx context.Context, walletID uint, since time.Time) (TransferTotals, error) {
	var totals TransferTotals
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select(`
			COALESCE(SUM(CASE WHEN sender_wallet_id = ? THEN amount END), 0) AS sent_total,
			COUNT(CASE WHEN sender_wallet_id = ? THEN 1 END) AS sent_count,
			COALESCE(SUM(CASE WHEN receiver_wallet_id = ? THEN amount END), 0) AS received_total,
			COUNT(CASE WHEN receiver_wallet_id = ? THEN 1 END) AS received_count
		`, walletID, walletID, walletID, walletID).
		Where("status = ? AND created_at >= ?", models.TransactionStatusCompleted, since).
		Where("(sender_wallet_id = ? OR receiver_wallet_id = ?)", walletID, walletID).
		Scan(&totals).Error
	if err != nil {
		return TransferTotals{}, fmt.Errorf("failed to aggregate transactions: %w", err)
	}
	return totals, nil
}
