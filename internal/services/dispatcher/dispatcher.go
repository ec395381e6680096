// Package dispatcher runs the side effects of a committed transfer: the two
// emails, the two in-app notifications, the audit entry and the
// transfer.completed event. Each runs concurrently with its own failure
// handling; a failure is logged and never reaches the transfer caller.
package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"vetopay/internal/models"
	"vetopay/internal/services/audit"
	"vetopay/internal/services/email"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const DefaultTimeout = 10 * time.Second

// Task names, used in logs and Failure.
const (
	TaskSenderEmail          = "sender_email"
	TaskReceiverEmail        = "receiver_email"
	TaskSenderNotification   = "sender_notification"
	TaskReceiverNotification = "receiver_notification"
	TaskAuditLog             = "audit_log"
	TaskTransferEvent        = "transfer_event"
)

type Mailer interface {
	Send(ctx context.Context, msg email.Message) error
}

type Notifier interface {
	Create(ctx context.Context, userID uint, kind models.NotificationType, title, message string, metadata models.JSON) (*models.Notification, error)
}

type Auditor interface {
	Record(ctx context.Context, e audit.Entry) error
}

type EventPublisher interface {
	PublishTransferCompleted(ctx context.Context, tx *models.Transaction) error
}

// Deps are the side-effect targets. Events may be nil.
type Deps struct {
	Mailer   Mailer
	Notifier Notifier
	Auditor  Auditor
	Events   EventPublisher
}

// Failure is one side effect that did not complete.
type Failure struct {
	Task string
	Err  error
}

type Dispatcher struct {
	deps    Deps
	timeout time.Duration
	log     *zap.Logger
	wg      sync.WaitGroup
}

func New(deps Deps, timeout time.Duration, log *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{deps: deps, timeout: timeout, log: log.Named("dispatcher")}
}

// DispatchTransfer starts the side effects in the background and returns at
// once. The work outlives ctx's cancellation but not the dispatcher timeout.
func (d *Dispatcher) DispatchTransfer(ctx context.Context, tx *models.Transaction, meta models.RequestMeta) {
	ctx = context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.Run(ctx, tx, meta)
	}()
}

// Wait blocks until every dispatched batch has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Run executes every side effect of tx, waits for all of them and returns
// the ones that failed.
func (d *Dispatcher) Run(ctx context.Context, tx *models.Transaction, meta models.RequestMeta) []Failure {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var (
		mu       sync.Mutex
		failures []Failure
		g        errgroup.Group
	)
	for name, task := range d.tasks(tx, meta) {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
				if err != nil {
					mu.Lock()
					failures = append(failures, Failure{Task: name, Err: err})
					mu.Unlock()
					d.log.Error("transfer side effect failed",
						zap.String("task", name),
						zap.String("reference", tx.Reference),
						zap.Uint("transaction_id", tx.ID),
						zap.Error(err))
				}
			}()
			return task(ctx)
		})
	}
	// Tasks report through failures; Wait's error is always the first of them.
	_ = g.Wait()
	return failures
}

func (d *Dispatcher) tasks(tx *models.Transaction, meta models.RequestMeta) map[string]func(context.Context) error {
	sender, receiver := parties(tx)
	tasks := map[string]func(context.Context) error{
		TaskSenderEmail: func(ctx context.Context) error {
			if sender == nil || receiver == nil {
				return errMissingParties
			}
			return d.deps.Mailer.Send(ctx, email.TransactionSent(sender, receiver, tx))
		},
		TaskReceiverEmail: func(ctx context.Context) error {
			if sender == nil || receiver == nil {
				return errMissingParties
			}
			return d.deps.Mailer.Send(ctx, email.TransactionReceived(sender, receiver, tx))
		},
		TaskSenderNotification: func(ctx context.Context) error {
			if sender == nil || receiver == nil {
				return errMissingParties
			}
			_, err := d.deps.Notifier.Create(ctx, sender.ID, models.NotificationTypeTransaction,
				"Payment Sent",
				fmt.Sprintf("You sent %s %s to %s", tx.Currency, tx.Amount.String(), receiver.FirstName),
				models.JSON{"transactionId": tx.ID, "reference": tx.Reference})
			return err
		},
		TaskReceiverNotification: func(ctx context.Context) error {
			if sender == nil || receiver == nil {
				return errMissingParties
			}
			_, err := d.deps.Notifier.Create(ctx, receiver.ID, models.NotificationTypeTransaction,
				"Payment Received",
				fmt.Sprintf("You received %s %s from %s", tx.Currency, tx.Amount.String(), sender.FirstName),
				models.JSON{"transactionId": tx.ID, "reference": tx.Reference})
			return err
		},
		TaskAuditLog: func(ctx context.Context) error {
			entry := audit.Entry{
				Action:   models.AuditTransactionCreated,
				Entity:   "Transaction",
				EntityID: strconv.FormatUint(uint64(tx.ID), 10),
				Metadata: models.JSON{
					"amount":    tx.Amount.String(),
					"currency":  tx.Currency,
					"reference": tx.Reference,
				},
				Meta: meta,
			}
			if sender != nil {
				entry.UserID = sender.ID
			}
			if receiver != nil {
				entry.Metadata["receiver"] = receiver.Email
			}
			return d.deps.Auditor.Record(ctx, entry)
		},
	}
	if d.deps.Events != nil {
		tasks[TaskTransferEvent] = func(ctx context.Context) error {
			return d.deps.Events.PublishTransferCompleted(ctx, tx)
		}
	}
	return tasks
}

var errMissingParties = errors.New("transaction is missing its wallet owners")

// parties returns the owners of both wallets when tx was loaded with them.
func parties(tx *models.Transaction) (sender, receiver *models.User) {
	if tx.SenderWallet != nil {
		sender = tx.SenderWallet.User
	}
	if tx.ReceiverWallet != nil {
		receiver = tx.ReceiverWallet.User
	}
	return sender, receiver
}
