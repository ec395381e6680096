package handlers

import (
	"strings"

	"vetopay/internal/models"
	"vetopay/internal/services/notification"
	"vetopay/internal/utils"
	"vetopay/internal/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	notifications *notification.Service
}

func NewNotificationHandler(notifications *notification.Service) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List handles GET /api/notifications?status=&type=.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return err
	}
	filter := notification.Filter{
		Status: models.NotificationStatus(strings.ToUpper(c.Query("status"))),
		Type:   models.NotificationType(strings.ToUpper(c.Query("type"))),
	}
	page, err := h.notifications.List(c.UserContext(), userID, filter,
		pagination.ParseFromRequest(c, notification.DefaultLimit))
	if err != nil {
		return err
	}
	return utils.Success(c, page)
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return err
	}
	count, err := h.notifications.UnreadCount(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.Map{"count": count})
}

// Get handles GET /api/notifications/:id.
func (h *NotificationHandler) Get(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	n, err := h.notifications.Get(c.UserContext(), id, userID)
	if err != nil {
		return err
	}
	return utils.Success(c, n)
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	n, err := h.notifications.MarkRead(c.UserContext(), id, userID)
	if err != nil {
		return err
	}
	return utils.Success(c, n)
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return err
	}
	count, err := h.notifications.MarkAllRead(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return utils.Success(c, fiber.Map{"updated": count})
}

func (h *NotificationHandler) Delete(c *fiber.Ctx) error {
	userID, err := utils.GetUserID(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.notifications.Delete(c.UserContext(), id, userID); err != nil {
		return err
	}
	return utils.Message(c, "Notification deleted")
}
