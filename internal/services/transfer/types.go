package transfer

import (
	"time"

	"vetopay/internal/models"

	"github.com/shopspring/decimal"
)

// Request is a validated transfer request.
type Request struct {
	SenderUserID  uint
	ReceiverEmail string
	Amount        decimal.Decimal
	Description   string
	// Currency defaults to the sender wallet's currency when empty.
	Currency string

	Meta models.RequestMeta
}

// Config tunes the unit of work.
type Config struct {
	// MaxRetries is how many times a unit of work that lost a concurrency
	// conflict is re-run before giving up.
	MaxRetries   int
	RetryBackoff time.Duration
	// ProcessingTimeout bounds the whole transfer. Expiry before commit
	// aborts the unit of work.
	ProcessingTimeout time.Duration
}

const (
	DefaultMaxRetries        = 3
	DefaultRetryBackoff      = 25 * time.Millisecond
	DefaultProcessingTimeout = 30 * time.Second
)

const opTransfer = "transfer"
