package handlers

import (
	"strings"

	"vetopay/internal/models"
	"vetopay/internal/repositories"
	"vetopay/internal/services/transaction"
	"vetopay/internal/services/transfer"
	"vetopay/internal/services/wallet"
	"vetopay/internal/utils"
	"vetopay/internal/utils/pagination"
	"vetopay/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type TransactionHandler struct {
	transfers transfer.Service
	ledger    transaction.Service
	wallets   wallet.Service
}

func NewTransactionHandler(transfers transfer.Service, ledger transaction.Service, wallets wallet.Service) *TransactionHandler {
	return &TransactionHandler{transfers: transfers, ledger: ledger, wallets: wallets}
}

type createTransactionRequest struct {
	ReceiverEmail string          `json:"receiverEmail" validate:"required,email"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description" validate:"max=500"`
	Currency      string          `json:"currency" validate:"omitempty,len=3"`
}

// CreateTransaction handles POST /api/transactions.
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return err
	}

	var req createTransactionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	tx, err := h.transfers.Transfer(c.UserContext(), transfer.Request{
		SenderUserID:  userID,
		ReceiverEmail: req.ReceiverEmail,
		Amount:        req.Amount,
		Description:   req.Description,
		Currency:      req.Currency,
		Meta:          utils.RequestMeta(c),
	})
	if err != nil {
		return err
	}
	return utils.Created(c, tx.View())
}

// GetTransaction handles GET /api/transactions/:id.
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	tx, err := h.ledger.GetByID(c.UserContext(), id, userID)
	if err != nil {
		return err
	}
	return utils.Success(c, tx.View())
}

// GetTransactionByReference handles GET /api/transactions/reference/:ref.
func (h *TransactionHandler) GetTransactionByReference(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return err
	}

	tx, err := h.ledger.GetByReference(c.UserContext(), c.Params("ref"), userID)
	if err != nil {
		return err
	}
	return utils.Success(c, tx.View())
}

// ListTransactions handles GET /api/transactions.
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
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

// GetStats handles GET /api/transactions/stats.
func (h *TransactionHandler) GetStats(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return err
	}
	w, err := h.wallets.GetByUserID(c.UserContext(), userID)
	if err != nil {
		return err
	}
	stats, err := h.ledger.AggregateStats(c.UserContext(), w.ID, strings.ToLower(c.Query("period")))
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.Map{
		"period":        stats.Period,
		"sentTotal":     stats.SentTotal,
		"sentCount":     stats.SentCount,
		"receivedTotal": stats.ReceivedTotal,
		"receivedCount": stats.ReceivedCount,
		"balance":       w.Balance,
		"currency":      w.Currency,
	})
}

// userFilter reads type (sent|received|all), status and the date range.
func userFilter(c *fiber.Ctx) (transaction.UserFilter, error) {
	v := validation.New()
	direction := c.Query("type", c.Query("direction"))
	filter := transaction.UserFilter{
		Direction: repositories.Direction(strings.ToLower(direction)),
		Status:    models.TransactionStatus(strings.ToUpper(c.Query("status"))),
		From:      queryTime(c, "startDate", false, v),
		To:        queryTime(c, "endDate", true, v),
	}
	return filter, v.Err()
}
