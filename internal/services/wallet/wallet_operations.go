package wallet

import (
	"context"
	"time"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/models"
	"vetopay/internal/repositories"

	"github.com/shopspring/decimal"
)

// Lock takes row locks on the wallets for the rest of the unit of work.
func (s *service) Lock(ctx context.Context, uow repositories.Store, walletIDs ...uint) ([]*models.Wallet, error) {
	wallets, err := uow.Wallets().LockByIDs(ctx, walletIDs...)
	if err != nil {
		return nil, translate("lock", err)
	}
	return wallets, nil
}

func (s *service) Credit(ctx context.Context, uow repositories.Store, walletID uint, amount decimal.Decimal) error {
	return s.mutate(ctx, OpCredit, amount, func() error {
		return uow.Wallets().Credit(ctx, walletID, amount)
	})
}

// Debit fails with InsufficientFunds when the balance at the moment of the
// update does not cover amount.
func (s *service) Debit(ctx context.Context, uow repositories.Store, walletID uint, amount decimal.Decimal) error {
	return s.mutate(ctx, OpDebit, amount, func() error {
		return uow.Wallets().Debit(ctx, walletID, amount)
	})
}

func (s *service) mutate(ctx context.Context, op string, amount decimal.Decimal, apply func() error) error {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(op, time.Since(start)) }()

	if !amount.IsPositive() {
		s.metrics.RecordError(op, "invalid_amount")
		return apperrors.ErrInvalidAmount
	}
	if err := apply(); err != nil {
		err = translate(op, err)
		s.metrics.RecordError(op, errType(err))
		return err
	}
	return nil
}
