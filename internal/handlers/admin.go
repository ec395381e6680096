package handlers

import (
	"strings"

	apperrors "vetopay/internal/errors"
	"vetopay/internal/models"
	"vetopay/internal/repositories"
	"vetopay/internal/services/admin"
	"vetopay/internal/services/transaction"
	"vetopay/internal/services/user"
	"vetopay/internal/services/wallet"
	"vetopay/internal/utils"
	"vetopay/internal/utils/pagination"
	"vetopay/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves the back office. Routes are mounted behind AdminOnly.
type AdminHandler struct {
	ledger  transaction.Service
	wallets wallet.Service
	users   user.Service
	admin   *admin.Service
}

func NewAdminHandler(ledger transaction.Service, wallets wallet.Service, users user.Service, adminService *admin.Service) *AdminHandler {
	return &AdminHandler{ledger: ledger, wallets: wallets, users: users, admin: adminService}
}

// ListTransactions handles GET /api/admin/transactions.
func (h *AdminHandler) ListTransactions(c *fiber.Ctx) error {
	v := validation.New()
	filter := transaction.AdminFilter{
		WalletID:  uint(c.QueryInt("walletId")),
		Status:    models.TransactionStatus(strings.ToUpper(c.Query("status"))),
		From:      queryTime(c, "startDate", false, v),
		To:        queryTime(c, "endDate", true, v),
		MinAmount: queryDecimal(c, "minAmount", v),
		MaxAmount: queryDecimal(c, "maxAmount", v),
	}
	if err := v.Err(); err != nil {
		return err
	}

	page, err := h.ledger.ListAll(c.UserContext(), filter,
		pagination.ParseFromRequest(c, transaction.DefaultAdminLimit))
	if err != nil {
		return err
	}
	return utils.Success(c, page)
}

func (h *AdminHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	tx, err := h.ledger.GetByIDUnrestricted(c.UserContext(), id)
	if err != nil {
		return err
	}
	return utils.Success(c, tx.View())
}

// ListWallets handles GET /api/admin/wallets?status=&currency=.
func (h *AdminHandler) ListWallets(c *fiber.Ctx) error {
	filter := repositories.WalletFilter{
		Status:   models.WalletStatus(strings.ToUpper(c.Query("status"))),
		Currency: strings.ToUpper(c.Query("currency")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return apperrors.Validation(apperrors.FieldError{Field: "status", Message: "unknown wallet status"})
	}

	p := pagination.ParseFromRequest(c, user.DefaultLimit)
	wallets, total, err := h.wallets.List(c.UserContext(), filter, repositories.Page{Offset: p.Offset(), Limit: p.Limit})
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.Map{
		"wallets":    wallets,
		"pagination": p.Info(total),
	})
}

func (h *AdminHandler) GetWallet(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	w, err := h.wallets.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return utils.Success(c, w)
}

type walletStatusRequest struct {
	Reason string `json:"reason" validate:"max=255"`
}

// SetWalletStatus returns the handler for POST /api/admin/wallets/:id/{action}.
func (h *AdminHandler) SetWalletStatus(status models.WalletStatus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actorID, err := utils.GetUserID(c)
		if err != nil {
			return err
		}
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}
		var req walletStatusRequest
		if len(c.Body()) > 0 {
			if err := parseBody(c, &req); err != nil {
				return err
			}
		}

		w, err := h.admin.SetWalletStatus(c.UserContext(), actorID, id, status, req.Reason, utils.RequestMeta(c))
		if err != nil {
			return err
		}
		return utils.Success(c, w)
	}
}

// ListUsers handles GET /api/admin/users?status=&role=&search=.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	filter := repositories.UserFilter{
		Role:   strings.ToLower(c.Query("role")),
		Status: models.UserStatus(strings.ToUpper(c.Query("status"))),
		Search: strings.TrimSpace(c.Query("search")),
	}
	page, err := h.users.List(c.UserContext(), filter, pagination.ParseFromRequest(c, user.DefaultLimit))
	if err != nil {
		return err
	}
	return utils.Success(c, page)
}

// SetUserStatus returns the handler for POST /api/admin/users/:id/{action}.
func (h *AdminHandler) SetUserStatus(status models.UserStatus) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actorID, err := utils.GetUserID(c)
		if err != nil {
			return err
		}
		id, err := parseID(c, "id")
		if err != nil {
			return err
		}
		u, err := h.admin.SetUserStatus(c.UserContext(), actorID, id, status, utils.RequestMeta(c))
		if err != nil {
			return err
		}
		return utils.Success(c, u)
	}
}

// GetUser handles GET /api/admin/users/:id.
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	u, err := h.users.GetProfile(c.UserContext(), id)
	if err != nil {
		return err
	}
	return utils.Success(c, u)
}

// SendSystemNotification handles POST /api/admin/notifications.
func (h *AdminHandler) SendSystemNotification(c *fiber.Ctx) error {
	actorID, err := utils.GetUserID(c)
	if err != nil {
		return err
	}
	var input admin.BroadcastInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	result, err := h.admin.Broadcast(c.UserContext(), actorID, input, utils.RequestMeta(c))
	if err != nil {
		return err
	}
	return utils.Created(c, result)
}
