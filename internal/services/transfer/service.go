package transfer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/models"
	"vetopay/internal/repositories"
	"vetopay/internal/services/wallet"
	"vetopay/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// service implements the transfer Service interface.
type service struct {
	store      repositories.Store
	wallets    WalletService
	dispatcher Dispatcher
	config     Config
	metrics    wallet.MetricsCollector
	log        *zap.Logger
	now        func() time.Time
	newRef     func() string
}

// NewService creates a new transfer service instance.
func NewService(
	store repositories.Store,
	wallets WalletService,
	dispatcher Dispatcher,
	config Config,
	metrics wallet.MetricsCollector,
	log *zap.Logger,
) Service {
	if store == nil {
		panic("store is required")
	}
	if wallets == nil {
		panic("wallet service is required")
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.RetryBackoff <= 0 {
		config.RetryBackoff = DefaultRetryBackoff
	}
	if config.ProcessingTimeout <= 0 {
		config.ProcessingTimeout = DefaultProcessingTimeout
	}
	if metrics == nil {
		metrics = &wallet.NoopMetricsCollector{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &service{
		store:      store,
		wallets:    wallets,
		dispatcher: dispatcher,
		config:     config,
		metrics:    metrics,
		log:        log.Named("transfer"),
		now:        time.Now,
		newRef:     uuid.NewString,
	}
}

// Transfer moves funds from the requester's wallet to the wallet of the user
// registered under req.ReceiverEmail.
//
// Everything before the unit of work is read-only. The unit of work locks
// both wallets, re-checks their status, records the transfer as PENDING,
// debits, credits and completes it. Side effects are dispatched only after
// commit and cannot undo the transfer.
func (s *service) Transfer(ctx context.Context, req Request) (*models.Transaction, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration(opTransfer, time.Since(start)) }()

	ctx, cancel := context.WithTimeout(ctx, s.config.ProcessingTimeout)
	defer cancel()

	tx, err := s.transfer(ctx, req)
	if err != nil {
		err = s.boundary(ctx, req, err)
		s.metrics.RecordError(opTransfer, string(apperrors.KindOf(err)))
		s.metrics.RecordTransaction("rejected", req.Amount.InexactFloat64())
		return nil, err
	}
	s.metrics.RecordTransaction(strings.ToLower(string(tx.Status)), tx.Amount.InexactFloat64())
	return tx, nil
}

func (s *service) transfer(ctx context.Context, req Request) (*models.Transaction, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// 1. Sender wallet
	sender, err := s.wallets.GetByUserID(ctx, req.SenderUserID)
	if err != nil {
		return nil, err
	}

	// 2. Sender must be ACTIVE
	if !sender.IsActive() {
		return nil, apperrors.ErrSenderWalletInactive
	}

	currency, err := resolveCurrency(req.Currency, sender.Currency)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateAmount(req.Amount, currency); err != nil {
		return nil, err
	}

	// 3. Early balance check. Not authoritative; Debit decides.
	ok, err := s.wallets.CheckSufficientBalance(ctx, sender.ID, req.Amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		// A transfer to oneself is reported as such whatever the balance.
		if u, lookupErr := s.store.Users().GetByEmail(ctx, req.ReceiverEmail); lookupErr == nil && u.ID == sender.UserID {
			return nil, apperrors.ErrSelfTransfer
		}
		return nil, apperrors.ErrInsufficientFunds
	}

	// 4. Receiver user and wallet
	receiverUser, err := s.store.Users().GetByEmail(ctx, req.ReceiverEmail)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrReceiverNotFound
		}
		return nil, fmt.Errorf("failed to resolve receiver: %w", err)
	}
	receiver, err := s.wallets.GetByUserID(ctx, receiverUser.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrWalletNotFound) {
			return nil, apperrors.ErrReceiverNoWallet
		}
		return nil, err
	}
	if !receiver.IsActive() {
		return nil, apperrors.ErrReceiverWalletInactive
	}

	// 5. No self transfers
	if receiver.UserID == sender.UserID || receiver.ID == sender.ID {
		return nil, apperrors.ErrSelfTransfer
	}
	if !strings.EqualFold(receiver.Currency, currency) {
		return nil, apperrors.ErrCurrencyMismatch.WithMessage("receiver wallet does not accept " + currency)
	}

	// 6. Atomic unit of work, retried on concurrency conflicts
	committed, err := s.commitWithRetry(ctx, req, sender.ID, receiver.ID, currency)
	if err != nil {
		return nil, err
	}

	// 7. Post-commit
	s.wallets.InvalidateCache(ctx, sender.UserID, receiver.UserID)
	s.log.Info("transfer completed",
		zap.Uint("transaction_id", committed.ID),
		zap.String("reference", committed.Reference),
		zap.Uint("sender_wallet_id", sender.ID),
		zap.Uint("receiver_wallet_id", receiver.ID),
		zap.String("amount", committed.Amount.String()),
		zap.String("currency", committed.Currency))
	if s.dispatcher != nil {
		s.dispatcher.DispatchTransfer(ctx, committed, req.Meta)
	}
	return committed, nil
}

func (s *service) commitWithRetry(ctx context.Context, req Request, senderID, receiverID uint, currency string) (*models.Transaction, error) {
	var lastErr error
	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		if attempt > 0 {
			s.metrics.RecordRetry(opTransfer)
			s.log.Warn("retrying transfer after concurrency conflict",
				zap.Int("attempt", attempt+1),
				zap.Uint("sender_wallet_id", senderID),
				zap.Error(lastErr))
			if err := sleep(ctx, s.config.RetryBackoff*time.Duration(attempt)); err != nil {
				return nil, err
			}
		}

		tx, err := s.commit(ctx, req, senderID, receiverID, currency)
		if err == nil {
			return tx, nil
		}
		if !repositories.IsRetryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, apperrors.ErrConflictRetryExhausted.Wrap(lastErr)
}

func (s *service) commit(ctx context.Context, req Request, senderID, receiverID uint, currency string) (*models.Transaction, error) {
	var committed *models.Transaction
	err := s.store.ExecuteInTransaction(ctx, func(uow repositories.Store) error {
		locked, err := s.wallets.Lock(ctx, uow, senderID, receiverID)
		if err != nil {
			return err
		}
		// Status may have changed since the reads above.
		for _, w := range locked {
			if w.IsActive() {
				continue
			}
			if w.ID == senderID {
				return apperrors.ErrSenderWalletInactive
			}
			return apperrors.ErrReceiverWalletInactive
		}

		record := &models.Transaction{
			Reference:        s.newRef(),
			SenderWalletID:   senderID,
			ReceiverWalletID: receiverID,
			Amount:           req.Amount,
			Currency:         currency,
			Description:      strings.TrimSpace(req.Description),
			Status:           models.TransactionStatusPending,
			CreatedAt:        s.now(),
		}
		if err := uow.Transactions().Create(ctx, record); err != nil {
			if errors.Is(err, repositories.ErrDuplicateReference) {
				return fmt.Errorf("%w: %w", repositories.ErrSerializationConflict, err)
			}
			return err
		}

		if err := s.wallets.Debit(ctx, uow, senderID, req.Amount); err != nil {
			return err
		}
		if err := s.wallets.Credit(ctx, uow, receiverID, req.Amount); err != nil {
			return err
		}

		completedAt := s.now()
		if err := uow.Transactions().UpdateStatus(ctx, record.ID, models.TransactionStatusCompleted, &completedAt); err != nil {
			return err
		}

		committed, err = uow.Transactions().GetByID(ctx, record.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return committed, nil
}

// boundary maps anything that is not already a domain error.
func (s *service) boundary(ctx context.Context, req Request, err error) error {
	var de *apperrors.DomainError
	if errors.As(err, &de) && de.Kind != apperrors.KindInternal {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || ctx.Err() != nil {
		s.log.Warn("transfer aborted before commit",
			zap.Uint("sender_user_id", req.SenderUserID),
			zap.Error(err))
		return apperrors.ErrTransferTimeout.Wrap(err)
	}
	s.log.Error("transfer failed",
		zap.Uint("sender_user_id", req.SenderUserID),
		zap.String("receiver_email", req.ReceiverEmail),
		zap.String("amount", req.Amount.String()),
		zap.Error(err))
	return apperrors.Internal(err)
}

func validateRequest(req Request) error {
	v := validation.New()
	v.Check(req.SenderUserID != 0, "senderUserId", "sender is required")
	v.Email("receiverEmail", req.ReceiverEmail)
	v.Check(req.Amount.IsPositive(), "amount", "amount must be positive")
	v.MaxLength("description", req.Description, validation.MaxDescriptionLength)
	return v.Err()
}

func resolveCurrency(requested, walletCurrency string) (string, error) {
	requested = strings.ToUpper(strings.TrimSpace(requested))
	if requested == "" {
		return walletCurrency, nil
	}
	if _, ok := models.Precision(requested); !ok {
		return "", apperrors.ErrUnsupportedCurrency
	}
	if requested != strings.ToUpper(walletCurrency) {
		return "", apperrors.ErrCurrencyMismatch
	}
	return requested, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
