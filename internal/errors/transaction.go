package errors

var (
	ErrReceiverNotFound = New(KindNotFound, "RECEIVER_NOT_FOUND", "Receiver not found")
	ErrReceiverNoWallet = New(KindNoWallet, "RECEIVER_NO_WALLET", "Receiver does not have a wallet")
	ErrSelfTransfer     = New(KindSelfTransfer, "SELF_TRANSFER", "Cannot transfer to yourself")

	ErrTransactionNotFound = New(KindNotFound, "TRANSACTION_NOT_FOUND", "Transaction not found")
	ErrAccessDenied        = New(KindAccessDenied, "ACCESS_DENIED", "Access denied")

	ErrConflictRetryExhausted = New(KindConflictRetryExhausted, "CONFLICT_RETRY_EXHAUSTED",
		"The transfer could not be completed due to concurrent activity, please retry")
	ErrTransferTimeout = New(KindTimeout, "TRANSFER_TIMEOUT", "The transfer timed out and was not applied")

	ErrInvalidPeriod = New(KindValidation, "INVALID_PERIOD", "period must be one of week, month, year")
)
