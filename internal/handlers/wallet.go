package handlers

import (
	"vetopay/internal/services/transaction"
	"vetopay/internal/services/wallet"
	"vetopay/internal/utils"
	"vetopay/internal/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService wallet.Service
	ledger        transaction.Service
}

func NewWalletHandler(walletService wallet.Service, ledger transaction.Service) *WalletHandler {
	return &WalletHandler{walletService: walletService, ledger: ledger}
}

// GetWallet handles GET /api/wallet.
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return err
	}
	w, err := h.walletService.GetByUserID(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return utils.Success(c, w)
}

// GetTransactions handles GET /api/wallet/transactions.
func (h *WalletHandler) GetTransactions(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return err
	}
	filter, err := userFilter(c)
	if err != nil {
		return err
	}
	page, err := h.ledger.ListForUser(c.UserContext(), userID, filter,
		pagination.ParseFromRequest(c, transaction.DefaultUserLimit))
	if err != nil {
		return err
	}
	return utils.Success(c, page)
}
