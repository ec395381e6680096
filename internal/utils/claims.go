package utils

import (
	apperrors "vetopay/internal/errors"
	"vetopay/internal/models"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the auth middleware.
const (
	LocalsClaims = "claims"
	LocalsUserID = "userID"
)

// GetUserClaims extracts the user claims from the Fiber context.
func GetUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	claims, ok := c.Locals(LocalsClaims).(*models.UserClaims)
	if !ok || claims == nil {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// GetUserID returns the authenticated user's id.
func GetUserID(c *fiber.Ctx) (uint, error) {
	id, ok := c.Locals(LocalsUserID).(uint)
	if !ok || id == 0 {
		return 0, apperrors.ErrInvalidToken
	}
	return id, nil
}

// RequestMeta captures the caller's address and user agent for auditing.
func RequestMeta(c *fiber.Ctx) models.RequestMeta {
	return models.RequestMeta{
		IPAddress: c.IP(),
		UserAgent: string(c.Request().Header.UserAgent()),
	}
}
