package wallet

import (
	"time"
)

// WalletConfig holds configuration for wallet operations
type WalletConfig struct {
	DefaultCurrency string
	CacheTTL        time.Duration
}

// MetricsCollector defines the interface for collecting wallet and transfer metrics
type MetricsCollector interface {
	// Operation metrics
	RecordOperationDuration(operation string, duration time.Duration)

	// Cache metrics
	RecordCacheHit(entity string)
	RecordCacheMiss(entity string)

	// Error metrics
	RecordError(operation, errType string)

	// Transaction metrics
	RecordTransaction(status string, amount float64)
	RecordRetry(operation string)
}
