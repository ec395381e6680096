package wallet

// Operation names used in metrics and logs
const (
	OpGetWallet    = "get_wallet"
	OpCheckBalance = "check_balance"
	OpCredit       = "credit"
	OpDebit        = "debit"
	OpSetStatus    = "set_status"
	OpCreateWallet = "create_wallet"
)

const cacheEntityWallet = "wallet"

const fenceSlots = 256
