/*
Package wallet provides the wallet store: one balance per user, gated by a
status.

The wallet service handles:
- Lookups by owner or id, with a read-through cache on owner lookups
- The early balance check used before a transfer starts
- Balance mutation (credit/debit) inside a caller-provided unit of work
- Administrative status changes (ACTIVE, SUSPENDED, FROZEN)

Usage:

	svc := wallet.NewService(store, cache, wallet.WalletConfig{DefaultCurrency: "USD"}, metrics, logger)

	// Created once, at registration
	w, err := svc.CreateWallet(ctx, tx, userID, "")

	// Balances only move inside a unit of work
	err = store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
	    if _, err := svc.Lock(ctx, tx, from, to); err != nil {
	        return err
	    }
	    if err := svc.Debit(ctx, tx, from, amount); err != nil {
	        return err
	    }
	    return svc.Credit(ctx, tx, to, amount)
	})

Error Handling:

Repository sentinels are translated into the domain taxonomy:
- errors.ErrWalletNotFound: no wallet for the given id or owner
- errors.ErrInsufficientFunds: the conditional debit matched no row
- errors.ErrInvalidAmount: a non-positive amount reached Credit or Debit

Any other failure is returned wrapped, so the transfer engine can still tell
retryable conflicts apart.

Metrics:

The service reports operation durations, cache hits and misses, and errors
by kind through MetricsCollector. NewPrometheusCollector backs it with
Prometheus counters and histograms.
*/
package wallet
