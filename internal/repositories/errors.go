package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrWalletNotFound        = errors.New("wallet not found")
	ErrDuplicateWallet       = errors.New("wallet already exists")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrTransactionNotPending = errors.New("transaction is not pending")
	ErrInvalidTransition     = errors.New("invalid transaction status transition")
	ErrDuplicateReference    = errors.New("transaction reference already exists")
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailTaken            = errors.New("email already registered")
	ErrNotificationNotFound  = errors.New("notification not found")

	// ErrSerializationConflict marks a unit of work that lost a concurrency
	// conflict and can be retried from scratch.
	ErrSerializationConflict = errors.New("serialization conflict")
)

// PostgreSQL SQLSTATE codes the store reacts to.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgUniqueViolation      = "23505"
	pgCheckViolation       = "23514"
)

// IsRetryable reports whether err is a transient concurrency failure: a
// serialization failure, a detected deadlock or a lock timeout.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSerializationConflict) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgLockNotAvailable:
			return true
		}
	}
	return false
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation
}
