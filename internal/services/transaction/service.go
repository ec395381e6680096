package transaction

import (
	"context"
	"strings"
	"time"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/models"
	"vetopay/internal/repositories"
	"vetopay/internal/utils/pagination"

	"go.uber.org/zap"
)

type service struct {
	store repositories.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store repositories.Store, log *zap.Logger) Service {
	if store == nil {
		panic("store is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &service{store: store, log: log.Named("ledger"), now: time.Now}
}

func (s *service) GetByID(ctx context.Context, id, userID uint) (*models.Transaction, error) {
	tx, err := s.GetByIDUnrestricted(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.authorize(tx, userID)
}

func (s *service) GetByReference(ctx context.Context, reference string, userID uint) (*models.Transaction, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, apperrors.ErrTransactionNotFound
	}
	tx, err := s.store.Transactions().GetByReference(ctx, reference)
	if err != nil {
		return nil, translate(err)
	}
	return s.authorize(tx, userID)
}

func (s *service) authorize(tx *models.Transaction, userID uint) (*models.Transaction, error) {
	if !tx.InvolvesUser(userID) {
		s.log.Warn("transaction access denied", zap.Uint("transaction_id", tx.ID), zap.Uint("user_id", userID))
		return nil, apperrors.ErrAccessDenied
	}
	return tx, nil
}

func (s *service) GetByIDUnrestricted(ctx context.Context, id uint) (*models.Transaction, error) {
	tx, err := s.store.Transactions().GetByID(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return tx, nil
}

func (s *service) ListForUser(ctx context.Context, userID uint, filter UserFilter, params pagination.Params) (*Page, error) {
	if err := validateWindow(filter.Status, filter.From, filter.To); err != nil {
		return nil, err
	}
	if !filter.Direction.Valid() {
		return nil, apperrors.Validation(apperrors.FieldError{Field: "type", Message: "must be one of all, sent, received"})
	}

	w, err := s.store.Wallets().GetByUserID(ctx, userID)
	if err != nil {
		return nil, translate(err)
	}
	return s.list(ctx, repositories.TransactionFilter{
		WalletID:  w.ID,
		Direction: filter.Direction,
		Status:    filter.Status,
		From:      filter.From,
		To:        filter.To,
	}, params)
}

func (s *service) ListAll(ctx context.Context, filter AdminFilter, params pagination.Params) (*Page, error) {
	if err := validateWindow(filter.Status, filter.From, filter.To); err != nil {
		return nil, err
	}
	if filter.MinAmount != nil && filter.MaxAmount != nil && filter.MinAmount.GreaterThan(*filter.MaxAmount) {
		return nil, apperrors.Validation(apperrors.FieldError{Field: "minAmount", Message: "must not exceed maxAmount"})
	}
	return s.list(ctx, repositories.TransactionFilter{
		WalletID:  filter.WalletID,
		Status:    filter.Status,
		From:      filter.From,
		To:        filter.To,
		MinAmount: filter.MinAmount,
		MaxAmount: filter.MaxAmount,
	}, params)
}

func (s *service) list(ctx context.Context, filter repositories.TransactionFilter, params pagination.Params) (*Page, error) {
	items, total, err := s.store.Transactions().List(ctx, filter, repositories.Page{
		Offset: params.Offset(),
		Limit:  params.Limit,
	})
	if err != nil {
		return nil, translate(err)
	}
	return &Page{Transactions: models.Views(items), Pagination: params.Info(total)}, nil
}

func (s *service) AggregateStats(ctx context.Context, walletID uint, period string) (*Stats, error) {
	since, ok := periodStart(period, s.now())
	if !ok {
		return nil, apperrors.ErrInvalidPeriod
	}
	if period == "" {
		period = PeriodMonth
	}
	totals, err := s.store.Transactions().Totals(ctx, walletID, since)
	if err != nil {
		return nil, translate(err)
	}
	return &Stats{Period: period, TransferTotals: totals}, nil
}

func validateWindow(status models.TransactionStatus, from, to *time.Time) error {
	var fields []apperrors.FieldError
	if status != "" && !status.Valid() {
		fields = append(fields, apperrors.FieldError{Field: "status", Message: "must be one of PENDING, COMPLETED, FAILED, CANCELLED"})
	}
	if from != nil && to != nil && from.After(*to) {
		fields = append(fields, apperrors.FieldError{Field: "startDate", Message: "must not be after endDate"})
	}
	if len(fields) > 0 {
		return apperrors.Validation(fields...)
	}
	return nil
}
