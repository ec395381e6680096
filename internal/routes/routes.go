// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"net/http"
	"time"

	"vetopay/internal/handlers"
	"vetopay/internal/middleware"
	"vetopay/internal/models"
	"vetopay/internal/services/admin"
	"vetopay/internal/services/auth"
	"vetopay/internal/services/notification"
	"vetopay/internal/services/transaction"
	"vetopay/internal/services/transfer"
	"vetopay/internal/services/user"
	"vetopay/internal/services/wallet"
	"vetopay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Auth          auth.Service
	Users         user.Service
	Wallets       wallet.Service
	Transfers     transfer.Service
	Ledger        transaction.Service
	Notifications *notification.Service
	Admin         *admin.Service
	Health        *handlers.HealthHandler

	// Metrics is served on /metrics when set.
	Metrics http.Handler

	SecureCookies bool
	// AuthRateLimit caps login and register calls per IP and minute. Zero
	// disables the limiter.
	AuthRateLimit int
}

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	authHandler := handlers.NewAuthHandler(deps.Auth, deps.SecureCookies)
	userHandler := handlers.NewUserHandler(deps.Users)
	walletHandler := handlers.NewWalletHandler(deps.Wallets, deps.Ledger)
	transactionHandler := handlers.NewTransactionHandler(deps.Transfers, deps.Ledger, deps.Wallets)
	notificationHandler := handlers.NewNotificationHandler(deps.Notifications)
	adminHandler := handlers.NewAdminHandler(deps.Ledger, deps.Wallets, deps.Users, deps.Admin)

	if deps.Health != nil {
		app.Get("/health", deps.Health.HealthCheck)
	}
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Public endpoints
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", rateLimit(deps.AuthRateLimit), authHandler.Register)
	authRoutes.Post("/login", rateLimit(deps.AuthRateLimit), authHandler.Login)
	authRoutes.Post("/refresh", authHandler.RefreshToken)

	authMiddleware := middleware.NewAuthMiddleware(deps.Auth)
	protected := api.Group("", authMiddleware.Handler)

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/users/me", authMiddleware.HasPermission(models.PermissionUserRead), userHandler.GetProfile)
	protected.Patch("/users/me", authMiddleware.HasPermission(models.PermissionUserWrite), userHandler.UpdateProfile)
	protected.Post("/users/me/password", authMiddleware.HasPermission(models.PermissionUserWrite), authHandler.ChangePassword)

	setupWalletRoutes(protected, authMiddleware, walletHandler)
	setupTransactionRoutes(protected, authMiddleware, transactionHandler)
	setupNotificationRoutes(protected, authMiddleware, notificationHandler)
	setupAdminRoutes(protected, authMiddleware, adminHandler)
}

func setupWalletRoutes(router fiber.Router, auth *middleware.AuthMiddleware, h *handlers.WalletHandler) {
	wallet := router.Group("/wallet", auth.HasPermission(models.PermissionWalletRead))
	wallet.Get("/", h.GetWallet)
	wallet.Get("/transactions", auth.HasPermission(models.PermissionTransactionRead), h.GetTransactions)
}

func setupTransactionRoutes(router fiber.Router, auth *middleware.AuthMiddleware, h *handlers.TransactionHandler) {
	tx := router.Group("/transactions")
	tx.Post("/", auth.HasPermission(models.PermissionTransactionWrite), h.CreateTransaction)
	tx.Get("/", auth.HasPermission(models.PermissionTransactionRead), h.ListTransactions)
	// Before /:id so "stats" is not taken for an id.
	tx.Get("/stats", auth.HasPermission(models.PermissionTransactionRead), h.GetStats)
	tx.Get("/reference/:ref", auth.HasPermission(models.PermissionTransactionRead), h.GetTransactionByReference)
	tx.Get("/:id", auth.HasPermission(models.PermissionTransactionRead), h.GetTransaction)
}

func setupNotificationRoutes(router fiber.Router, auth *middleware.AuthMiddleware, h *handlers.NotificationHandler) {
	n := router.Group("/notifications", auth.HasPermission(models.PermissionNotificationRead))
	n.Get("/", h.List)
	n.Get("/unread-count", h.UnreadCount)
	n.Patch("/read-all", h.MarkAllRead)
	n.Get("/:id", h.Get)
	n.Patch("/:id/read", h.MarkRead)
	n.Delete("/:id", h.Delete)
}

func setupAdminRoutes(router fiber.Router, auth *middleware.AuthMiddleware, h *handlers.AdminHandler) {
	adminGroup := router.Group("/admin", auth.AdminOnly)

	adminGroup.Get("/transactions", h.ListTransactions)
	adminGroup.Get("/transactions/:id", h.GetTransaction)

	adminGroup.Get("/wallets", h.ListWallets)
	adminGroup.Get("/wallets/:id", h.GetWallet)
	adminGroup.Post("/wallets/:id/suspend", h.SetWalletStatus(models.WalletStatusSuspended))
	adminGroup.Post("/wallets/:id/activate", h.SetWalletStatus(models.WalletStatusActive))
	adminGroup.Post("/wallets/:id/freeze", h.SetWalletStatus(models.WalletStatusFrozen))

	adminGroup.Get("/users", h.ListUsers)
	adminGroup.Get("/users/:id", h.GetUser)
	adminGroup.Post("/users/:id/suspend", h.SetUserStatus(models.UserStatusSuspended))
	adminGroup.Post("/users/:id/activate", h.SetUserStatus(models.UserStatusActive))

	adminGroup.Post("/notifications", h.SendSystemNotification)
}

func rateLimit(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return utils.Fail(c, fiber.StatusTooManyRequests, utils.ErrorBody{
				Code:    "RATE_LIMITED",
				Message: "Too many requests. Please try again later.",
			})
		},
	})
}
