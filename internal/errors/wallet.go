package errors

var (
	ErrWalletNotFound = New(KindNotFound, "WALLET_NOT_FOUND", "wallet not found")

	ErrSenderWalletInactive   = New(KindWalletInactive, "SENDER_WALLET_INACTIVE", "Your wallet is not active")
	ErrReceiverWalletInactive = New(KindWalletInactive, "RECEIVER_WALLET_INACTIVE", "Receiver wallet is not active")

	ErrInsufficientFunds = New(KindInsufficientFunds, "INSUFFICIENT_FUNDS", "Insufficient balance")
	ErrInvalidAmount     = New(KindValidation, "INVALID_AMOUNT", "invalid amount")
	ErrInvalidStatus     = New(KindValidation, "INVALID_WALLET_STATUS", "invalid wallet status")

	ErrCurrencyMismatch    = New(KindValidation, "CURRENCY_MISMATCH", "currency does not match wallet currency")
	ErrUnsupportedCurrency = New(KindValidation, "UNSUPPORTED_CURRENCY", "unsupported currency")
)
