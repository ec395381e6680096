package wallet

import (
	"errors"
	"fmt"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/repositories"
)

// translate maps repository sentinels to domain errors. Anything else is
// wrapped unchanged so retry classification still sees the driver error.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrWalletNotFound):
		return apperrors.ErrWalletNotFound
	case errors.Is(err, repositories.ErrInsufficientBalance):
		return apperrors.ErrInsufficientFunds
	}
	return fmt.Errorf("wallet %s: %w", op, err)
}

// errType labels an error for metrics.
func errType(err error) string {
	return string(apperrors.KindOf(err))
}
